// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/folio/pkg/types"
)

// buildPDF renders one page per element of pages, drawing each string as a
// separate line.
func buildPDF(t *testing.T, pages ...[]string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, lines := range pages {
		doc.AddPage()
		for i, line := range lines {
			doc.Text(20, 30+float64(i)*10, line)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestExtract_SinglePage(t *testing.T) {
	data := buildPDF(t, []string{"hello world", "second line"})

	got, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "\n\nhello world second line", got)
}

func TestExtract_OneSeparatorPerPage(t *testing.T) {
	tests := []struct {
		name  string
		pages [][]string
	}{
		{name: "one page", pages: [][]string{{"alpha"}}},
		{name: "three pages", pages: [][]string{{"alpha"}, {"beta"}, {"gamma"}}},
		{name: "empty middle page", pages: [][]string{{"alpha"}, {}, {"gamma"}}},
		{name: "all empty", pages: [][]string{{}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Extract(context.Background(), buildPDF(t, tt.pages...))
			require.NoError(t, err)
			assert.Equal(t, len(tt.pages), strings.Count(got, PageSeparator))
			assert.True(t, strings.HasPrefix(got, PageSeparator))
		})
	}
}

func TestExtract_PageOrder(t *testing.T) {
	got, err := New().Extract(context.Background(), buildPDF(t, []string{"first"}, []string{"second"}, []string{"third"}))
	require.NoError(t, err)

	first := strings.Index(got, "first")
	second := strings.Index(got, "second")
	third := strings.Index(got, "third")
	require.True(t, first >= 0 && second >= 0 && third >= 0, "missing page text in %q", got)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestExtract_Deterministic(t *testing.T) {
	data := buildPDF(t, []string{"same input"}, []string{"same output"})
	a, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	b, err := New().Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExtract_Malformed(t *testing.T) {
	valid := buildPDF(t, []string{"text"})
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not a pdf", data: []byte("this is plain text")},
		{name: "empty", data: nil},
		{name: "truncated", data: valid[:len(valid)/3]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Extract(context.Background(), tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMalformedDocument), "got %v", err)
		})
	}
}

func TestExtract_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Extract(ctx, buildPDF(t, []string{"text"}))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGroupRuns(t *testing.T) {
	glyph := func(s string, x, y float64) pdf.Text {
		return pdf.Text{Font: "Helvetica", FontSize: 12, X: x, Y: y, S: s}
	}
	tests := []struct {
		name   string
		glyphs []pdf.Text
		want   []string
	}{
		{name: "no glyphs", glyphs: nil, want: nil},
		{
			name:   "same baseline advancing",
			glyphs: []pdf.Text{glyph("a", 10, 700), glyph("b", 16, 700), glyph(" ", 22, 700), glyph("c", 28, 700)},
			want:   []string{"ab c"},
		},
		{
			name:   "baseline change",
			glyphs: []pdf.Text{glyph("a", 10, 700), glyph("b", 10, 680)},
			want:   []string{"a", "b"},
		},
		{
			name:   "pen jumps back",
			glyphs: []pdf.Text{glyph("a", 100, 700), glyph("b", 10, 700)},
			want:   []string{"a", "b"},
		},
		{
			name: "font change",
			glyphs: []pdf.Text{
				glyph("a", 10, 700),
				{Font: "Helvetica-Bold", FontSize: 12, X: 16, Y: 700, S: "b"},
			},
			want: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, groupRuns(tt.glyphs))
		})
	}
}
