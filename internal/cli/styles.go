// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Printer styles for line-mode output. They are built per profile so tests
// and piped output get plain text.
type Printer struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Dim     lipgloss.Style
	Prompt  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Active  lipgloss.Style
}

// NewPrinter creates the styles for profile.
func NewPrinter(profile termenv.Profile) Printer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(profile)

	return Printer{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Label:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Value:   r.NewStyle().Foreground(lipgloss.Color("252")),
		Dim:     r.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("141")),
		Success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Warning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Active:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("141")),
	}
}
