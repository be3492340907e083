// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/jeranaias/gemchat-tui/internal/model"
	"github.com/jeranaias/gemchat-tui/internal/render"
	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a self-contained HTML page. Prose is
// rendered with goldmark and sanitized with bluemonday; code blocks are
// highlighted by chroma with inline styles.
type HTMLExporter struct {
	options *Options
	md      goldmark.Markdown
	policy  *bluemonday.Policy
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{
		options: opts,
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:  bluemonday.UGCPolicy(),
	}
}

// Export converts a conversation to HTML format.
func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	title := html.EscapeString(conv.GetTitle())
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", title))
	sb.WriteString(fmt.Sprintf("    <meta name=\"generator\" content=\"%s\">\n", Generator))
	if created := conv.CreatedAt(); !created.IsZero() {
		sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", created.Format(time.RFC3339)))
	}
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.theme()))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", title))
		sb.WriteString(fmt.Sprintf("            <div class=\"metadata\">%d messages</div>\n", len(conv.Messages)))
		sb.WriteString("        </header>\n")
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range conv.Messages {
		body, err := e.renderMessage(msg)
		if err != nil {
			return nil, err
		}
		sb.WriteString(body)
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>%s</strong> on %s</p>\n",
		Generator, e.options.now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) theme() model.Theme {
	if e.options.Theme == model.ThemeLight {
		return model.ThemeLight
	}
	return model.ThemeDark
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderMessage(msg model.Message) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("            <div class=\"message %s\">\n", msg.Sender))
	sb.WriteString(fmt.Sprintf("                <div class=\"message-header\">%s</div>\n",
		html.EscapeString(msg.Sender.DisplayName())))
	sb.WriteString("                <div class=\"message-content\">\n")

	if msg.IsUser() {
		// User text is literal.
		sb.WriteString(fmt.Sprintf("<p class=\"plain\">%s</p>\n", html.EscapeString(msg.Text)))
	} else {
		content, err := e.formatContent(msg.Text)
		if err != nil {
			return "", err
		}
		sb.WriteString(content)
	}

	sb.WriteString("                </div>\n")
	sb.WriteString("            </div>\n")
	return sb.String(), nil
}

// formatContent renders assistant markdown segment by segment so code blocks
// get the same language detection as the terminal view.
func (e *HTMLExporter) formatContent(text string) (string, error) {
	var sb strings.Builder
	for _, seg := range render.SplitSegments(text) {
		if seg.IsCode() {
			code, err := e.highlight(seg.Text, seg.Language)
			if err != nil {
				return "", err
			}
			sb.WriteString(code)
			continue
		}

		var buf bytes.Buffer
		if err := e.md.Convert([]byte(seg.Text), &buf); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		sb.Write(e.policy.SanitizeBytes(buf.Bytes()))
	}
	return sb.String(), nil
}

func (e *HTMLExporter) highlight(code, language string) (string, error) {
	var sb strings.Builder
	sb.WriteString("<div class=\"code-block\">\n")
	if language != "" {
		sb.WriteString(fmt.Sprintf("<div class=\"code-lang\">%s</div>\n", html.EscapeString(language)))
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := styles.ChromaDark
	if e.theme() == model.ThemeLight {
		styleName = styles.ChromaLight
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise code: %w", err)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.TabWidth(4), chromahtml.WithLineNumbers(true))
	if err := formatter.Format(&buf, chromastyles.Get(styleName), iterator); err != nil {
		return "", fmt.Errorf("format code: %w", err)
	}
	sb.Write(buf.Bytes())
	sb.WriteString("</div>\n")
	return sb.String(), nil
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --user-bg: #7c3aed;
            --user-fg: #ffffff;
            --assistant-bg: #1f2335;
            --accent: #7aa2f7;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --bg-tertiary: #e1e4e8;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --user-bg: #7c3aed;
            --user-fg: #ffffff;
            --assistant-bg: #ffffff;
            --accent: #0366d6;
        }

        body {
            font-family: var(--font-sans);
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            overflow: hidden;
        }

        .header { padding: 32px; background: var(--bg-tertiary); }
        .header h1 { font-size: 28px; margin-bottom: 8px; }
        .metadata { font-size: 14px; color: var(--text-muted); }

        .conversation { padding: 24px; display: flex; flex-direction: column; gap: 16px; }

        .message { max-width: 85%; padding: 12px 16px; border-radius: 12px; }
        .message.user { align-self: flex-end; background: var(--user-bg); color: var(--user-fg); }
        .message.ai { align-self: flex-start; background: var(--assistant-bg); }
        .message-header { font-size: 12px; font-weight: 600; opacity: 0.8; margin-bottom: 4px; }
        .message-content p { margin: 8px 0; }
        .message-content .plain { white-space: pre-wrap; }
        .message-content code { font-family: var(--font-mono); }

        .code-block { margin: 12px 0; border-radius: 8px; overflow: hidden; }
        .code-block pre { padding: 12px; overflow-x: auto; font-family: var(--font-mono); font-size: 14px; }
        .code-lang {
            font-family: var(--font-mono);
            font-size: 12px;
            padding: 4px 12px;
            color: var(--accent);
            background: var(--bg-tertiary);
        }

        .footer { padding: 16px 32px; font-size: 13px; color: var(--text-muted); text-align: center; }
    </style>
`
