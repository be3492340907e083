// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/gemchat-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports conversations to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// frontMatter is marshalled by yaml.v3 so titles never need manual quoting.
type frontMatter struct {
	Title     string `yaml:"title"`
	Date      string `yaml:"date,omitempty"`
	Messages  int    `yaml:"messages"`
	Exported  string `yaml:"exported"`
	Generator string `yaml:"generator"`
}

// Export converts a conversation to Markdown format.
func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		fm := frontMatter{
			Title:     conv.GetTitle(),
			Messages:  len(conv.Messages),
			Exported:  e.options.now().Format(time.RFC3339),
			Generator: Generator,
		}
		if created := conv.CreatedAt(); !created.IsZero() {
			fm.Date = created.Format(time.RFC3339)
		}
		out, err := yaml.Marshal(fm)
		if err != nil {
			return nil, fmt.Errorf("front matter: %w", err)
		}
		sb.WriteString("---\n")
		sb.Write(out)
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(conv.GetTitle())))

	for i, msg := range conv.Messages {
		sb.WriteString(fmt.Sprintf("### %s\n\n", msg.Sender.DisplayName()))
		sb.WriteString(e.formatMessageContent(msg))
		sb.WriteString("\n\n")

		if i < len(conv.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from %s on %s*\n", Generator, formatTimestamp(e.options.now())))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// formatMessageContent writes assistant text as the markdown it already is.
// User text is literal, so it goes into a blockquote with markdown escaped.
func (e *MarkdownExporter) formatMessageContent(msg model.Message) string {
	text := strings.TrimSpace(msg.Text)
	if !msg.IsUser() {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "> " + escapeMarkdown(line)
	}
	return strings.Join(lines, "\n")
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"#", `\#`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
