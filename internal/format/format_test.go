// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/folio/pkg/types"
)

var fixedTime = time.Date(2026, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

func TestPreview_Scenarios(t *testing.T) {
	text := "hello\nworld"
	tests := []struct {
		tag  types.Format
		want string
	}{
		{types.FormatText, "hello\nworld"},
		{types.FormatMarkdown, "hello\nworld"},
		{types.FormatPDF, "hello\nworld"},
		{types.FormatEPUB, "hello\nworld"},
		{types.Format("unknown"), "hello\nworld"},
		{types.FormatHTML, "<div class=\"converted-content\">\n<p>hello</p><p>world</p>\n</div>"},
	}
	for _, tt := range tests {
		t.Run(string(tt.tag), func(t *testing.T) {
			assert.Equal(t, tt.want, Preview(text, tt.tag, fixedTime))
		})
	}
}

func TestJSON_Envelope(t *testing.T) {
	got := Preview("hello\nworld", types.FormatJSON, fixedTime)

	var obj map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &obj))
	assert.Len(t, obj, 2)
	assert.Equal(t, "hello\nworld", obj["content"])
	assert.Equal(t, "2026-03-14T15:09:26.535Z", obj["generatedAt"])

	want := "{\n  \"generatedAt\": \"2026-03-14T15:09:26.535Z\",\n  \"content\": \"hello\\nworld\"\n}"
	assert.Equal(t, want, got)
}

func TestJSON_NoHTMLEscaping(t *testing.T) {
	got := JSON("a < b && c > d", fixedTime)
	assert.Contains(t, got, `"a < b && c > d"`)
}

func TestJSON_NonUTCTimestampNormalized(t *testing.T) {
	local := fixedTime.In(time.FixedZone("UTC+2", 2*60*60))
	assert.Equal(t, JSON("x", fixedTime), JSON("x", local))
}

func TestHTML_BlankLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "<div class=\"converted-content\">\n\n</div>"},
		{name: "only blanks", in: "\n  \n\t\n", want: "<div class=\"converted-content\">\n\n</div>"},
		{name: "paragraph gaps", in: "\n\none\n\n\ntwo\n", want: "<div class=\"converted-content\">\n<p>one</p><p>two</p>\n</div>"},
		{name: "crlf", in: "one\r\ntwo\r\n", want: "<div class=\"converted-content\">\n<p>one</p><p>two</p>\n</div>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTML(tt.in))
		})
	}
}

func TestPreview_Idempotent(t *testing.T) {
	text := "# Title\n\nSome <b>markup</b> & text.\n"
	for _, f := range types.Formats() {
		first := Preview(text, f, fixedTime)
		second := Preview(text, f, fixedTime)
		assert.Equal(t, first, second, "format %s", f)
	}
}
