// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts the text layer of a PDF as one linear string.
// Only embedded text is read; fonts, positions, and images are dropped.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/folio/pkg/types"
)

// PageSeparator precedes the text of every page, including the first.
const PageSeparator = "\n\n"

// baselineTolerance is how far two glyph baselines may differ, in PDF
// points, and still belong to the same run.
const baselineTolerance = 0.5

// Extractor reads PDF text runs page by page.
type Extractor struct{}

// New returns a PDF text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text of every page in ascending page order. Each page
// contributes PageSeparator followed by its runs joined with single spaces.
// Any page that fails to parse aborts the whole extraction.
func (e *Extractor) Extract(ctx context.Context, data []byte) (string, error) {
	r, err := open(data)
	if err != nil {
		return "", err
	}

	n, err := numPages(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		runs, err := pageRuns(r, i)
		if err != nil {
			return "", err
		}
		b.WriteString(PageSeparator)
		b.WriteString(strings.Join(runs, " "))
	}
	return b.String(), nil
}

// open parses the header and cross-reference table. Objects are resolved
// lazily as pages are read.
func open(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", types.ErrMalformedDocument, p)
		}
	}()
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedDocument, err)
	}
	return r, nil
}

// numPages guards the page tree walk, which panics on broken catalogs.
func numPages(r *pdf.Reader) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: reading page tree: %v", types.ErrMalformedDocument, p)
		}
	}()
	return r.NumPage(), nil
}

// pageRuns returns the text runs of page num in content-stream order.
// The pdf package reports content-stream errors by panicking.
func pageRuns(r *pdf.Reader, num int) (runs []string, err error) {
	defer func() {
		if p := recover(); p != nil {
			runs = nil
			err = fmt.Errorf("%w: page %d: %v", types.ErrMalformedDocument, num, p)
		}
	}()

	page := r.Page(num)
	if page.V.IsNull() {
		return nil, fmt.Errorf("%w: page %d missing from page tree", types.ErrMalformedDocument, num)
	}
	return groupRuns(page.Content().Text), nil
}

// groupRuns merges consecutive glyphs into runs. The pdf package reports one
// Text per glyph; a run ends when the font or size changes, the baseline
// moves, or the pen jumps backwards (a new show-text position).
func groupRuns(glyphs []pdf.Text) []string {
	var runs []string
	var cur strings.Builder
	var prev *pdf.Text

	flush := func() {
		if cur.Len() > 0 {
			runs = append(runs, cur.String())
			cur.Reset()
		}
	}

	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil && !sameRun(prev, g) {
			flush()
		}
		cur.WriteString(g.S)
		prev = g
	}
	flush()
	return runs
}

func sameRun(prev, next *pdf.Text) bool {
	if prev.Font != next.Font || prev.FontSize != next.FontSize {
		return false
	}
	if math.Abs(prev.Y-next.Y) > baselineTolerance {
		return false
	}
	return next.X >= prev.X-baselineTolerance
}
