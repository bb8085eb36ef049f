// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/thematic/internal/theme"
	"github.com/jeranaias/thematic/internal/util"
)

// init configures lipgloss for the detected terminal. Piped output and
// NO_COLOR get the ASCII profile.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// SectionStyle is used for headers within a command.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			MarginTop(1)

	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// DimStyle is used for hints and secondary values.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// defaultLabelWidth is the column width of RenderLabel.
const defaultLabelWidth = 16

// =============================================================================
// HELPERS
// =============================================================================

// RenderSeparator renders a horizontal rule. Default width is 60.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return SeparatorStyle.Render(strings.Repeat("=", w))
}

// RenderLabel pads a label to a fixed display width before styling it, so
// wide runes still line up.
func RenderLabel(label string, width ...int) string {
	w := defaultLabelWidth
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return LabelStyle.Render(util.PadRight(label, w))
}

// RenderStatus colors a cache status.
func RenderStatus(status string) string {
	switch status {
	case "hit", "miss":
		return SuccessStyle.Render(status)
	case "stale", "fallback", "bypass":
		return WarningStyle.Render(status)
	case "empty":
		return ErrorStyle.Render(status)
	default:
		return DimStyle.Render(status)
	}
}

// RenderConditional styles text only when colors are enabled.
func RenderConditional(style lipgloss.Style, text string) string {
	if !ColorsEnabled() {
		return text
	}
	return style.Render(text)
}

// swatch renders a block of the given CSS color, or blanks of the same
// width so columns stay aligned.
func swatch(css string) string {
	if s := theme.ColorSwatch(css); s != "" {
		return s
	}
	return strings.Repeat(" ", theme.SwatchWidth)
}

// accentStyle styles headers with the active theme's primary color, falling
// back to TitleStyle.
func accentStyle(store *theme.Store) lipgloss.Style {
	if c, ok := store.Palette()["primary"]; ok {
		return TitleStyle.Foreground(c)
	}
	return TitleStyle
}

// adaptiveTitleStyle colors headers with the primary color of the active
// preset family, picking the dark or light side to suit the terminal.
func adaptiveTitleStyle(store *theme.Store) lipgloss.Style {
	return TitleStyle.Foreground(store.AdaptiveColor("primary"))
}
