// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders extracted text as the on-screen preview for a
// target format. Rendering is pure: the same text, format, and timestamp
// always produce the same string.
package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pdiddy/folio/pkg/types"
)

// TimestampLayout is the ISO-8601 layout used for generatedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	htmlOpen  = `<div class="converted-content">` + "\n"
	htmlClose = "\n</div>"
)

// Envelope is the JSON preview document.
type Envelope struct {
	GeneratedAt string `json:"generatedAt"`
	Content     string `json:"content"`
}

// Preview renders text for display in the given format. PDF and EPUB
// previews, like Markdown and plain text, are the text itself; their
// binary artifacts are produced separately.
func Preview(text string, tag types.Format, generatedAt time.Time) string {
	switch tag {
	case types.FormatJSON:
		return JSON(text, generatedAt)
	case types.FormatHTML:
		return HTML(text)
	default:
		return text
	}
}

// JSON wraps text in an Envelope, indented by two spaces. HTML-significant
// characters are left unescaped.
func JSON(text string, generatedAt time.Time) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Encoding a struct of two strings cannot fail.
	_ = enc.Encode(Envelope{
		GeneratedAt: generatedAt.UTC().Format(TimestampLayout),
		Content:     text,
	})
	return strings.TrimSuffix(buf.String(), "\n")
}

// HTML wraps every non-blank line in a paragraph and the whole result in a
// container div. Blank lines produce nothing.
func HTML(text string) string {
	var b strings.Builder
	b.WriteString(htmlOpen)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(line)
		b.WriteString("</p>")
	}
	b.WriteString(htmlClose)
	return b.String()
}
