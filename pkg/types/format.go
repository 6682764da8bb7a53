// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the folio conversion
// pipeline: format tags, input documents, generated artifacts, configuration,
// and the error taxonomy shared by extractors and generators.
package types

import (
	"fmt"
	"strings"
)

// Format selects both the preview rendering and the downloadable artifact.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatPDF      Format = "pdf"
	FormatEPUB     Format = "epub"
)

// formatAliases maps accepted user spellings to their Format.
var formatAliases = map[string]Format{
	"markdown":  FormatMarkdown,
	"md":        FormatMarkdown,
	"text":      FormatText,
	"txt":       FormatText,
	"plain":     FormatText,
	"plaintext": FormatText,
	"html":      FormatHTML,
	"htm":       FormatHTML,
	"json":      FormatJSON,
	"pdf":       FormatPDF,
	"epub":      FormatEPUB,
}

// Formats returns every supported format in declaration order.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatText, FormatHTML, FormatJSON, FormatPDF, FormatEPUB}
}

// ParseFormat resolves a case-insensitive format name or alias.
func ParseFormat(s string) (Format, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Binary reports whether the format's artifact is a generated binary
// container rather than the preview text itself.
func (f Format) Binary() bool {
	return f == FormatPDF || f == FormatEPUB
}

func (f Format) String() string { return string(f) }
