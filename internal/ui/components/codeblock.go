// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/jeranaias/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// RenderCodeBlock renders a fenced code block with a language badge, line
// numbers and syntax highlighting.
func RenderCodeBlock(theme *styles.Theme, language, code string, width int) string {
	code = strings.TrimRight(code, "\n")
	highlighted := HighlightCode(code, language, theme.ChromaStyle, theme.ColorProfile)
	lines := strings.Split(highlighted, "\n")

	rendered := make([]string, 0, len(lines))
	for i, line := range lines {
		rendered = append(rendered, theme.CodeLineNum.Render(strconv.Itoa(i+1))+line)
	}
	body := strings.Join(rendered, "\n")

	if language != "" {
		body = theme.CodeLangBadge.Render(language) + "\n" + body
	}

	maxWidth := width
	if maxWidth < 20 {
		maxWidth = 20
	}
	return theme.CodeBlock.MaxWidth(maxWidth).Render(body)
}

// HighlightCode applies chroma highlighting for a terminal. The language is
// detected when empty or unknown. The code is returned unchanged for
// terminals without color or when highlighting fails.
func HighlightCode(code, language, style string, profile termenv.Profile) string {
	if profile == termenv.Ascii {
		return code
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	chromaStyle := chromaStyles.Get(style)
	if chromaStyle == nil {
		chromaStyle = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if profile == termenv.TrueColor {
		formatter = formatters.Get("terminal16m")
	}
	if formatter == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, chromaStyle, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}
