// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces downloadable artifacts from preview text:
// paginated PDFs, packaged EPUBs, and plain text blobs for the text formats.
// Every call builds a fresh artifact; nothing is cached.
package generate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/folio/pkg/types"
)

// DefaultTitle is used when a file name yields no usable title.
const DefaultTitle = "document"

// textArtifact describes how a text format is served.
type textArtifact struct {
	mimeType  string
	extension string
}

var textArtifacts = map[types.Format]textArtifact{
	types.FormatMarkdown: {mimeType: "text/markdown", extension: "md"},
	types.FormatJSON:     {mimeType: "application/json", extension: "json"},
	types.FormatHTML:     {mimeType: "text/html", extension: "html"},
}

var plainArtifact = textArtifact{mimeType: "text/plain", extension: "txt"}

// Generator builds artifacts using fixed PDF and EPUB settings.
type Generator struct {
	pdf  types.PDFConfig
	epub types.EPUBConfig

	// newID returns the EPUB package identifier.
	newID func() string
}

// New returns a Generator for the given settings.
func New(pdfCfg types.PDFConfig, epubCfg types.EPUBConfig) *Generator {
	return &Generator{
		pdf:   pdfCfg,
		epub:  epubCfg,
		newID: uuid.NewString,
	}
}

// Generate renders text as a downloadable artifact for tag. title labels
// the PDF title line and the EPUB metadata. Failures wrap
// types.ErrGenerationFailure.
func (g *Generator) Generate(text string, tag types.Format, title string) (types.Artifact, error) {
	if title == "" {
		title = DefaultTitle
	}

	switch tag {
	case types.FormatPDF:
		data, err := g.PDF(text, title)
		if err != nil {
			return types.Artifact{}, fmt.Errorf("%w: pdf: %v", types.ErrGenerationFailure, err)
		}
		return types.Artifact{Data: data, Extension: "pdf", MIMEType: "application/pdf"}, nil
	case types.FormatEPUB:
		data, err := g.EPUB(text, title)
		if err != nil {
			return types.Artifact{}, fmt.Errorf("%w: epub: %v", types.ErrGenerationFailure, err)
		}
		return types.Artifact{Data: data, Extension: "epub", MIMEType: epubMediaType}, nil
	}

	a, ok := textArtifacts[tag]
	if !ok {
		a = plainArtifact
	}
	return types.Artifact{Data: []byte(text), Extension: a.extension, MIMEType: a.mimeType}, nil
}

// TitleFromFileName strips directories and the final extension from name.
func TitleFromFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return DefaultTitle
	}
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}

// FileName returns the download name for an artifact generated from title.
func FileName(title string, a types.Artifact) string {
	if title == "" {
		title = DefaultTitle
	}
	return title + "." + a.Extension
}
