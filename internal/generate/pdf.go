// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	// titleLineHeight is the vertical advance between wrapped title lines.
	titleLineHeight = 8
	// titleGap separates the last title baseline from the first body line.
	titleGap = 10
	// tabWidth is the number of spaces a tab expands to.
	tabWidth = 4
)

// Line is a single laid-out line of text.
type Line struct {
	Page int
	Y    float64
	Size float64
	Bold bool
	Text string
}

// measurer wraps text to a width using the current font's metrics.
// *gofpdf.Fpdf satisfies it.
type measurer interface {
	SetFont(familyStr, styleStr string, size float64)
	SplitLines(txt []byte, w float64) [][]byte
}

// cursor tracks the vertical position while lines are placed.
type cursor struct {
	page   int
	y      float64
	top    float64
	bottom float64
}

// place returns the page and baseline for a line advancing by step,
// starting a new page when the line would cross the bottom bound.
func (c *cursor) place(step float64) (int, float64) {
	if c.y+step > c.bottom {
		c.page++
		c.y = c.top
	}
	page, y := c.page, c.y
	c.y += step
	return page, y
}

// PDF renders title and text as a paginated A4 (by default) document.
func (g *Generator) PDF(text, title string) ([]byte, error) {
	cfg := g.pdf
	doc := gofpdf.New(cfg.Orientation, "mm", cfg.PageSize, "")
	if err := doc.Error(); err != nil {
		return nil, err
	}
	doc.SetMargins(cfg.Margin, cfg.Margin, cfg.Margin)
	doc.SetAutoPageBreak(false, cfg.Margin)
	doc.SetTitle(title, true)
	doc.SetCreator("folio", false)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	width, height := doc.GetPageSize()
	lines := g.layout(doc, tr, text, title, width, height)

	page := 0
	for _, ln := range lines {
		for page < ln.Page {
			doc.AddPage()
			page++
		}
		if ln.Text == "" {
			continue
		}
		style := ""
		if ln.Bold {
			style = "B"
		}
		doc.SetFont(cfg.FontFamily, style, ln.Size)
		doc.Text(cfg.Margin, ln.Y, ln.Text)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// layout wraps the title and body to the content width and assigns every
// line a page and baseline. Pagination is decided line by line, so a single
// paragraph longer than a page still breaks correctly. tr converts UTF-8
// text to the code page the measurer's fonts use.
func (g *Generator) layout(m measurer, tr func(string) string, text, title string, width, height float64) []Line {
	cfg := g.pdf
	contentWidth := width - 2*cfg.Margin
	cur := &cursor{page: 1, y: cfg.TopOffset, top: cfg.TopOffset, bottom: height - cfg.Margin}

	var lines []Line

	m.SetFont(cfg.FontFamily, "B", cfg.TitleSize)
	lastTitleY := cfg.TopOffset
	for _, s := range wrap(m, tr(title), contentWidth) {
		page, y := cur.place(titleLineHeight)
		lines = append(lines, Line{Page: page, Y: y, Size: cfg.TitleSize, Bold: true, Text: s})
		lastTitleY = y
	}
	cur.y = lastTitleY + titleGap

	m.SetFont(cfg.FontFamily, "", cfg.BodySize)
	for _, para := range strings.Split(normalize(text), "\n") {
		for _, s := range wrap(m, tr(para), contentWidth) {
			page, y := cur.place(cfg.LineHeight)
			lines = append(lines, Line{Page: page, Y: y, Size: cfg.BodySize, Text: s})
		}
	}
	return lines
}

// wrap splits one paragraph into lines no wider than width. An empty
// paragraph yields a single empty line so blank lines keep their space.
func wrap(m measurer, para string, width float64) []string {
	if strings.TrimSpace(para) == "" {
		return []string{""}
	}
	parts := m.SplitLines([]byte(para), width)
	if len(parts) == 0 {
		return []string{""}
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimRight(string(p), " ")
	}
	return out
}

func normalize(text string) string {
	return strings.ReplaceAll(normalizeNewlines(text), "\t", strings.Repeat(" ", tabWidth))
}
