// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func sampleConversation() *model.Conversation {
	conv := model.NewConversation()
	conv.AddMessage(model.NewUserMessage("How do I print in *Python*?"))
	conv.AddMessage(model.NewAIMessage("Use `print`:\n\n```python\nprint(\"Hello, World!\")\n```\n\nThat's **it**."))
	return conv
}

// =============================================================================
// FORMAT SELECTION
// =============================================================================

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"md", ".md"},
		{"Markdown", ".md"},
		{"html", ".html"},
		{"htm", ".html"},
		{"json", ".json"},
		{"yaml", ".yaml"},
		{" yml ", ".yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := ForFormat(tt.format, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, e.FileExtension())
			assert.NotEmpty(t, e.MimeType())
		})
	}

	_, err := ForFormat("pdf", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExporters_RejectEmpty(t *testing.T) {
	for _, format := range Formats {
		e, err := ForFormat(format, nil)
		require.NoError(t, err)

		_, err = e.Export(nil)
		assert.ErrorIs(t, err, ErrNilConversation, format)

		_, err = e.Export(model.NewConversation())
		assert.ErrorIs(t, err, ErrEmptyConversation, format)
	}
}

// =============================================================================
// MARKDOWN
// =============================================================================

func TestMarkdownExporter(t *testing.T) {
	conv := sampleConversation()
	out, err := NewMarkdownExporter(testOptions("")).Export(conv)
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "### You\n\n> How do I print in \\*Python\\*?")
	assert.Contains(t, md, "### Assistant")
	assert.Contains(t, md, "```python\nprint(\"Hello, World!\")\n```")
	assert.Contains(t, md, "generator: gemchat")
}

func TestMarkdownExporter_FrontMatterIsValidYAML(t *testing.T) {
	conv := sampleConversation()
	conv.SetTitle("Test\nInjection: malicious \"quoted\"")

	out, err := NewMarkdownExporter(testOptions("")).Export(conv)
	require.NoError(t, err)

	parts := strings.SplitN(string(out), "---\n", 3)
	require.Len(t, parts, 3)

	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Test\nInjection: malicious \"quoted\"", fm.Title)
	assert.Equal(t, 2, fm.Messages)
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	opts := testOptions("")
	opts.IncludeMetadata = false

	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "# "))
}

// =============================================================================
// HTML
// =============================================================================

func TestHTMLExporter(t *testing.T) {
	out, err := NewHTMLExporter(testOptions("")).Export(sampleConversation())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<body class=\"dark-theme\">")
	assert.Contains(t, page, "<strong>it</strong>")
	assert.Contains(t, page, "<div class=\"code-lang\">python</div>")
	assert.Contains(t, page, "message user")
	assert.Contains(t, page, "message ai")
	// User text is escaped, not rendered as markdown.
	assert.Contains(t, page, "How do I print in *Python*?")
}

func TestHTMLExporter_LightTheme(t *testing.T) {
	opts := testOptions("")
	opts.Theme = model.ThemeLight

	out, err := NewHTMLExporter(opts).Export(sampleConversation())
	require.NoError(t, err)
	assert.Contains(t, string(out), "<body class=\"light-theme\">")
}

func TestHTMLExporter_EscapesScript(t *testing.T) {
	conv := model.NewConversation()
	conv.AddMessage(model.NewUserMessage("<script>alert('user')</script>"))
	conv.AddMessage(model.NewAIMessage("<script>alert('ai')</script>\n\n[x](javascript:alert(1))\n\n```<script>\ncode here\n```"))

	out, err := NewHTMLExporter(nil).Export(conv)
	require.NoError(t, err)
	page := string(out)

	assert.NotContains(t, page, "<script>alert")
	assert.NotContains(t, page, "javascript:alert")
	assert.Contains(t, page, "&lt;script&gt;alert(&#39;user&#39;)&lt;/script&gt;")
	assert.Contains(t, page, "&lt;script&gt;")
}

// =============================================================================
// JSON / YAML
// =============================================================================

func TestJSONExporter(t *testing.T) {
	conv := sampleConversation()
	out, err := NewJSONExporter(testOptions("")).Export(conv)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, conv.ID, doc.ID)
	assert.Equal(t, conv.GetTitle(), doc.Title)
	assert.Equal(t, conv.Messages, doc.Messages)
	assert.True(t, fixedNow.Equal(doc.ExportedAt))
	require.NotNil(t, doc.CreatedAt)
}

func TestYAMLExporter(t *testing.T) {
	conv := sampleConversation()
	out, err := NewYAMLExporter(testOptions("")).Export(conv)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, conv.Messages, doc.Messages)
	assert.Contains(t, string(out), "sender: ai")
}

func TestDocument_LegacyIDHasNoCreatedAt(t *testing.T) {
	conv := &model.Conversation{ID: "legacy", Title: "Old", Messages: []model.Message{model.NewUserMessage("hi")}}

	out, err := NewJSONExporter(nil).Export(conv)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "created_at")
}

// =============================================================================
// FILES
// =============================================================================

func TestExport_WritesFile(t *testing.T) {
	dir := t.TempDir()
	conv := sampleConversation()
	conv.SetTitle("My: chat/1")

	path, err := Export(conv, "md", testOptions(dir))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "conversation_My-_chat-1_20250601_093000.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "### Assistant")
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export(sampleConversation(), "docx", testOptions(t.TempDir()))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExport_EmptyConversation(t *testing.T) {
	_, err := Export(model.NewConversation(), "json", testOptions(t.TempDir()))
	assert.ErrorIs(t, err, ErrEmptyConversation)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Test/Path\\Name:With*Special?Chars", "Test-Path-Name-With-Special-Chars"},
		{"Test<HTML>Tags|Pipe", "Test-HTML-Tags-Pipe"},
		{"Spaces\tAnd\nNewlines", "Spaces_And_Newlines"},
		{"Ctl\x01\x7fX", "Ctl--X"},
		{"", "conversation"},
		{strings.Repeat("a", 80), strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.input), tt.input)
	}
}
