package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"TEXT", ModeText},
		{"markdown", ModeMarkdown},
		{"md", ModeMarkdown},
		{"json", ModeJSON},
		{"yaml", ModeAuto},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto tty", ModeAuto, true, ModeText},
		{"auto pipe", ModeAuto, false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text on pipe", ModeText, false, ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Header(2, "Tabs")
	r.KeyValue("User", "admin")
	r.StatusLine("Query 1", "active", "id 5")
	r.Table([]string{"ID", "Label"}, [][]string{{"5", "Query 1"}})
	r.Warning("careful")

	got := out.String()
	assert.Contains(t, got, "## Tabs")
	assert.Contains(t, got, "- **User:** admin")
	assert.Contains(t, got, "- Query 1: active (id 5)")
	assert.Contains(t, got, "| ID | Label |")
	assert.Contains(t, got, "| 5 | Query 1 |")
	assert.NotContains(t, got, "\x1b[")
	assert.Contains(t, errOut.String(), "warning: careful")
}

func TestRenderer_TextWithoutColor(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, false)

	r.Header(1, "Tabs")
	r.Success("done")
	r.Table([]string{"ID"}, [][]string{{"5"}})

	got := out.String()
	assert.Contains(t, got, "Tabs\n")
	assert.Contains(t, got, "✓ done")
	assert.Contains(t, got, "┌")
	assert.NotContains(t, got, "\x1b[")
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(map[string]int{"tabs": 2}))
	assert.Equal(t, "{\n  \"tabs\": 2\n}\n", out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(0, "Title"))
	assert.Equal(t, "### Title", FormatHeader(3, "Title"))
	assert.Equal(t, "- **k:** v", FormatKeyValue("k", "v"))

	block := FormatCodeBlock("json", "{}\n")
	assert.Equal(t, 2, strings.Count(block, "```"))
}
