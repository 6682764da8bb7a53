// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package epubtext extracts readable text from EPUB archives. Content
// documents are selected by file name, converted from XHTML to Markdown,
// and concatenated in path order.
package epubtext

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pdiddy/folio/internal/archive"
	"github.com/pdiddy/folio/pkg/types"
)

// NoContentMessage is returned in place of text when an archive holds no
// content documents. It is a valid result, not an error.
const NoContentMessage = "No readable content was found in this EPUB."

// DocumentSeparator precedes the text of every content document.
const DocumentSeparator = "\n\n"

// reservedPrefix marks archive metadata such as __MACOSX/ resource forks.
const reservedPrefix = "__"

var contentExtensions = []string{".xhtml", ".html", ".htm"}

// Extractor converts EPUB content documents to Markdown-flavoured text.
type Extractor struct{}

// New returns an EPUB text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the concatenated text of every content document in data.
// target is accepted for per-format tuning and currently ignored.
func (e *Extractor) Extract(ctx context.Context, data []byte, target types.Format) (string, error) {
	r, err := archive.Open(data)
	if err != nil {
		return "", err
	}

	paths := ContentPaths(r.Paths())
	if len(paths) == 0 {
		return NoContentMessage, nil
	}

	docs, err := r.ReadFiles(ctx, paths)
	if err != nil {
		return "", fmt.Errorf("reading content documents: %w", err)
	}
	slices.SortFunc(docs, func(a, b archive.Entry) int {
		return strings.Compare(a.Path, b.Path)
	})

	var b strings.Builder
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := BodyMarkdown(string(doc.Content))
		if err != nil {
			return "", fmt.Errorf("converting %s: %w", doc.Path, err)
		}
		b.WriteString(DocumentSeparator)
		b.WriteString(text)
	}
	return b.String(), nil
}

// ContentPaths filters archive paths down to content documents: files with
// an HTML extension that are neither archive metadata nor, judging by name,
// navigation or table-of-contents documents. The name test is a heuristic
// and will also skip content files whose names contain "nav" or "toc".
func ContentPaths(paths []string) []string {
	var out []string
	for _, p := range paths {
		if !hasContentExtension(p) {
			continue
		}
		if strings.HasPrefix(p, reservedPrefix) {
			continue
		}
		if strings.Contains(p, "nav") || strings.Contains(p, "toc") {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasContentExtension(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return slices.Contains(contentExtensions, ext)
}

// BodyMarkdown parses markup as HTML and converts the inner content of its
// body to Markdown: headings, paragraphs, emphasis, and lists become their
// Markdown equivalents. Character references emitted by the converter are
// decoded, so the result is readable text rather than HTML.
func BodyMarkdown(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	body, err := doc.Find("body").First().Html()
	if err != nil {
		return "", fmt.Errorf("rendering body: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("converting body to markdown: %w", err)
	}
	return html.UnescapeString(md), nil
}
