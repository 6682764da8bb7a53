// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates document conversion: it routes input bytes
// to the matching extractor, renders the preview for a target format, and
// produces downloadable artifacts on request.
//
// Pipeline is stateless. Session wraps it in the viewer's state machine.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"

	"github.com/pdiddy/folio/internal/epubtext"
	"github.com/pdiddy/folio/internal/format"
	"github.com/pdiddy/folio/internal/generate"
	"github.com/pdiddy/folio/internal/pdftext"
	"github.com/pdiddy/folio/pkg/types"
)

// PDFExtractor turns PDF bytes into linear text.
type PDFExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// EPUBExtractor turns EPUB bytes into linear text.
type EPUBExtractor interface {
	Extract(ctx context.Context, data []byte, target types.Format) (string, error)
}

// Generator produces a downloadable artifact from preview text.
type Generator interface {
	Generate(text string, tag types.Format, title string) (types.Artifact, error)
}

// Kind names the extractor an input document is routed to.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindEPUB Kind = "epub"
	KindText Kind = "text"
)

const mimePDF = "application/pdf"

// Classify picks the extractor for doc from its declared MIME type and,
// for EPUB only, its file extension. Everything else is read as text.
func Classify(doc types.InputDocument) Kind {
	mime := strings.ToLower(strings.TrimSpace(doc.MIMEType))
	switch {
	case mime == mimePDF:
		return KindPDF
	case strings.Contains(mime, "epub"),
		strings.EqualFold(filepath.Ext(doc.FileName), ".epub"):
		return KindEPUB
	default:
		return KindText
	}
}

// Pipeline runs extraction, preview formatting, and generation.
type Pipeline struct {
	pdf    PDFExtractor
	epub   EPUBExtractor
	gen    Generator
	logger *zap.Logger
	now    func() time.Time
}

// NewPipeline assembles a pipeline from its stages.
func NewPipeline(pdf PDFExtractor, epub EPUBExtractor, gen Generator, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		pdf:    pdf,
		epub:   epub,
		gen:    gen,
		logger: logger,
		now:    time.Now,
	}
}

// NewDefaultPipeline wires the built-in extractors and generator.
func NewDefaultPipeline(cfg types.Config, logger *zap.Logger) *Pipeline {
	return NewPipeline(
		pdftext.New(),
		epubtext.New(),
		generate.New(cfg.PDF, cfg.EPUB),
		logger,
	)
}

// Extract returns the linear text of doc.
func (p *Pipeline) Extract(ctx context.Context, doc types.InputDocument, target types.Format) (string, error) {
	kind := Classify(doc)
	p.logger.Debug("extracting",
		zap.String("file", doc.FileName),
		zap.String("mime", doc.MIMEType),
		zap.String("kind", string(kind)),
		zap.Int("bytes", len(doc.Data)),
	)

	switch kind {
	case KindPDF:
		text, err := p.pdf.Extract(ctx, doc.Data)
		if err != nil {
			return "", fmt.Errorf("extracting pdf %s: %w", doc.FileName, err)
		}
		return text, nil
	case KindEPUB:
		text, err := p.epub.Extract(ctx, doc.Data, target)
		if err != nil {
			return "", fmt.Errorf("extracting epub %s: %w", doc.FileName, err)
		}
		return text, nil
	default:
		return DecodeText(doc.Data), nil
	}
}

// Convert extracts doc and renders its preview for target. The JSON
// preview is stamped with the time extraction finished.
func (p *Pipeline) Convert(ctx context.Context, doc types.InputDocument, target types.Format) (string, error) {
	text, err := p.Extract(ctx, doc, target)
	if err != nil {
		return "", err
	}
	return format.Preview(text, target, p.now()), nil
}

// Generate produces a fresh artifact for text. title is typically the
// source file name without its extension.
func (p *Pipeline) Generate(text string, tag types.Format, title string) (types.Artifact, error) {
	a, err := p.gen.Generate(text, tag, title)
	if err != nil {
		return types.Artifact{}, fmt.Errorf("generating %s: %w", tag, err)
	}
	p.logger.Debug("generated artifact",
		zap.String("format", string(tag)),
		zap.String("extension", a.Extension),
		zap.Int("bytes", len(a.Data)),
	)
	return a, nil
}

// DecodeText reads data as UTF-8. A leading byte order mark is dropped and
// invalid sequences become U+FFFD; decoding never fails.
func DecodeText(data []byte) string {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		out = data
	}
	return strings.ToValidUTF8(string(out), "\uFFFD")
}
