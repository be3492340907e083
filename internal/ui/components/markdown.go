// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// minMarkdownWidth keeps glamour from wrapping every word on tiny screens.
const minMarkdownWidth = 20

// Markdown renders prose with glamour. Renderers are cached per wrap width
// because building one parses the whole style sheet.
type Markdown struct {
	style   string
	profile termenv.Profile

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdown creates a renderer for a glamour standard style ("dark",
// "light", "notty").
func NewMarkdown(style string, profile termenv.Profile) *Markdown {
	return &Markdown{
		style:     style,
		profile:   profile,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Style returns the glamour style name.
func (m *Markdown) Style() string {
	return m.style
}

// Render renders text wrapped at width. On a glamour error the plain text is
// returned.
func (m *Markdown) Render(text string, width int) string {
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}

	r, err := m.renderer(width)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithColorProfile(m.profile),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[width] = r
	return r, nil
}
