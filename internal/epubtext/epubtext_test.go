// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package epubtext

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/folio/internal/archive"
	"github.com/pdiddy/folio/pkg/types"
)

func xhtml(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>ignored head</title></head>
<body>` + body + `</body></html>`)
}

// buildEPUB writes entries in the given physical order.
func buildEPUB(t *testing.T, entries ...archive.Entry) []byte {
	t.Helper()
	w, err := archive.NewMimetypeWriter("application/epub+zip")
	require.NoError(t, err)
	for _, e := range entries {
		require.NoError(t, w.Add(e))
	}
	data, err := w.Bytes()
	require.NoError(t, err)
	return data
}

func TestContentPaths(t *testing.T) {
	in := []string{
		"mimetype",
		"META-INF/container.xml",
		"OEBPS/content.opf",
		"OEBPS/chapter1.xhtml",
		"OEBPS/Chapter2.HTML",
		"OEBPS/notes.htm",
		"OEBPS/nav.xhtml",
		"OEBPS/toc.xhtml",
		"OEBPS/Nav.xhtml",
		"__MACOSX/OEBPS/._chapter1.xhtml",
		"OEBPS/style.css",
	}
	want := []string{
		"OEBPS/chapter1.xhtml",
		"OEBPS/Chapter2.HTML",
		"OEBPS/notes.htm",
		// Case-sensitive name heuristic keeps "Nav".
		"OEBPS/Nav.xhtml",
	}
	assert.Equal(t, want, ContentPaths(in))
}

func TestContentPaths_HeuristicSkipsNavLikeNames(t *testing.T) {
	// Known approximation: any path containing "nav" or "toc" is skipped,
	// including real content such as "canvas" or "protocol".
	got := ContentPaths([]string{"OEBPS/canvas.xhtml", "OEBPS/protocol.xhtml", "OEBPS/ch1.xhtml"})
	assert.Equal(t, []string{"OEBPS/ch1.xhtml"}, got)
}

func TestExtract_SortedByPathNotArchiveOrder(t *testing.T) {
	data := buildEPUB(t,
		archive.Entry{Path: "OEBPS/c.xhtml", Content: xhtml("<p>third</p>")},
		archive.Entry{Path: "OEBPS/a.xhtml", Content: xhtml("<p>first</p>")},
		archive.Entry{Path: "OEBPS/b.xhtml", Content: xhtml("<p>second</p>")},
	)

	got, err := New().Extract(context.Background(), data, types.FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "\n\nfirst\n\nsecond\n\nthird", got)
}

func TestExtract_OrdinalSort(t *testing.T) {
	// Ordinal comparison puts upper case before lower case and "10" before "2".
	data := buildEPUB(t,
		archive.Entry{Path: "OEBPS/ch2.xhtml", Content: xhtml("<p>two</p>")},
		archive.Entry{Path: "OEBPS/ch10.xhtml", Content: xhtml("<p>ten</p>")},
		archive.Entry{Path: "OEBPS/Appendix.xhtml", Content: xhtml("<p>appendix</p>")},
	)

	got, err := New().Extract(context.Background(), data, types.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "\n\nappendix\n\nten\n\ntwo", got)
}

func TestExtract_StructuredMarkdown(t *testing.T) {
	body := `<h1>Chapter One</h1>
<p>It was a <em>dark</em> and <strong>stormy</strong> night.</p>
<ul><li>wind</li><li>rain</li></ul>`
	data := buildEPUB(t, archive.Entry{Path: "OEBPS/ch1.xhtml", Content: xhtml(body)})

	got, err := New().Extract(context.Background(), data, types.FormatMarkdown)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, DocumentSeparator))
	assert.Contains(t, got, "# Chapter One")
	assert.Contains(t, got, "*dark*")
	assert.Contains(t, got, "**stormy**")
	assert.Contains(t, got, "- wind")
	assert.Contains(t, got, "- rain")
	assert.NotContains(t, got, "ignored head")
	assert.NotContains(t, got, "<p>")
}

func TestExtract_NoContentSentinel(t *testing.T) {
	tests := []struct {
		name    string
		entries []archive.Entry
	}{
		{name: "no entries"},
		{
			name: "only navigation and metadata",
			entries: []archive.Entry{
				{Path: "META-INF/container.xml", Content: []byte("<container/>")},
				{Path: "OEBPS/nav.xhtml", Content: xhtml("<nav>contents</nav>")},
				{Path: "OEBPS/toc.ncx", Content: []byte("<ncx/>")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Extract(context.Background(), buildEPUB(t, tt.entries...), types.FormatText)
			require.NoError(t, err)
			assert.Equal(t, NoContentMessage, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestExtract_TargetIgnored(t *testing.T) {
	data := buildEPUB(t, archive.Entry{Path: "OEBPS/ch1.xhtml", Content: xhtml("<p>same</p>")})
	var outputs []string
	for _, f := range types.Formats() {
		got, err := New().Extract(context.Background(), data, f)
		require.NoError(t, err)
		outputs = append(outputs, got)
	}
	for _, out := range outputs[1:] {
		assert.Equal(t, outputs[0], out)
	}
}

func TestExtract_ManyDocumentsDeterministic(t *testing.T) {
	var entries []archive.Entry
	for i := 25; i > 0; i-- {
		entries = append(entries, archive.Entry{
			Path:    fmt.Sprintf("OEBPS/part%03d.xhtml", i),
			Content: xhtml(fmt.Sprintf("<p>part %d</p>", i)),
		})
	}
	data := buildEPUB(t, entries...)

	first, err := New().Extract(context.Background(), data, types.FormatText)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := New().Extract(context.Background(), data, types.FormatText)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Less(t, strings.Index(first, "part 1\n"), strings.Index(first, "part 2\n"))
}

func TestExtract_MalformedArchive(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("PK not really"), types.FormatText)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMalformedArchive))
}

func TestBodyMarkdown_NoBodyElement(t *testing.T) {
	// The HTML parser synthesizes a body for fragments.
	got, err := BodyMarkdown("<p>fragment</p>")
	require.NoError(t, err)
	assert.Equal(t, "fragment", got)
}

func TestBodyMarkdown_DecodesCharacterReferences(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{name: "named", markup: "<p>Tom &amp; Jerry say 1 &lt; 2 and x &gt; y</p>", want: "Tom & Jerry say 1 < 2 and x > y"},
		{name: "numeric", markup: "<p>caf&#233; &#169; done</p>", want: "café © done"},
		{name: "heading", markup: "<h1>Q&amp;A</h1>", want: "# Q&A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BodyMarkdown("<html><body>" + tt.markup + "</body></html>")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_BodyTextIsUnescaped(t *testing.T) {
	data := buildEPUB(t, archive.Entry{Path: "OEBPS/ch1.xhtml", Content: xhtml("<p>fish &amp; chips &lt;hot&gt;</p>")})

	got, err := New().Extract(context.Background(), data, types.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "\n\nfish & chips <hot>", got)
}

func TestExtract_DuplicateEntryReadOnce(t *testing.T) {
	// archive.Writer refuses duplicate names, so build the archive directly.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range []struct{ name, body string }{
		{"OEBPS/a.xhtml", "<p>alpha</p>"},
		{"OEBPS/b.xhtml", "<p>beta</p>"},
		{"OEBPS/a.xhtml", "<p>shadow</p>"},
	} {
		fw, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = fw.Write(xhtml(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	got, err := New().Extract(context.Background(), buf.Bytes(), types.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "\n\nalpha\n\nbeta", got)
}
