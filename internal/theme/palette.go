// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// =============================================================================
// CSS COLOR CONVERSION
// =============================================================================

var (
	rgbPattern = regexp.MustCompile(`^rgba?\(\s*([\d.]+)\s*,\s*([\d.]+)\s*,\s*([\d.]+)\s*(?:,\s*[\d.]+\s*)?\)$`)
	hslPattern = regexp.MustCompile(`^hsla?\(\s*([\d.]+)(?:deg)?\s*,\s*([\d.]+)%\s*,\s*([\d.]+)%\s*(?:,\s*[\d.]+\s*)?\)$`)
)

// cssKeywords covers the named colors themes use in practice.
var cssKeywords = map[string]string{
	"black":       "#000000",
	"white":       "#ffffff",
	"red":         "#ff0000",
	"green":       "#008000",
	"blue":        "#0000ff",
	"yellow":      "#ffff00",
	"orange":      "#ffa500",
	"purple":      "#800080",
	"gray":        "#808080",
	"grey":        "#808080",
	"navy":        "#000080",
	"teal":        "#008080",
	"silver":      "#c0c0c0",
	"transparent": "",
}

// HexColor converts a CSS color string (hex, rgb(), hsl() or a common
// keyword) to #rrggbb. It returns "" for values it cannot interpret.
func HexColor(css string) string {
	v := strings.ToLower(strings.TrimSpace(css))
	if v == "" {
		return ""
	}

	if strings.HasPrefix(v, "#") {
		if len(v) == 4 {
			v = "#" + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2) + strings.Repeat(v[3:4], 2)
		}
		if c, err := colorful.Hex(v); err == nil {
			return c.Hex()
		}
		return ""
	}

	if m := rgbPattern.FindStringSubmatch(v); m != nil {
		r, _ := strconv.ParseFloat(m[1], 64)
		g, _ := strconv.ParseFloat(m[2], 64)
		b, _ := strconv.ParseFloat(m[3], 64)
		return colorful.Color{R: clamp01(r / 255), G: clamp01(g / 255), B: clamp01(b / 255)}.Hex()
	}

	if m := hslPattern.FindStringSubmatch(v); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		s, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		return colorful.Hsl(h, clamp01(s/100), clamp01(l/100)).Clamped().Hex()
	}

	return cssKeywords[v]
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// =============================================================================
// LIPGLOSS BRIDGE
// =============================================================================

// Palette returns every resolved color that converts to a terminal color.
func (s *Store) Palette() map[string]lipgloss.Color {
	state := s.State()
	out := make(map[string]lipgloss.Color, len(state.Colors))
	for name, css := range state.Colors {
		if hex := HexColor(css); hex != "" {
			out[name] = lipgloss.Color(hex)
		}
	}
	return out
}

// BaseStyle returns a lipgloss style using the resolved foreground and
// background colors.
func (s *Store) BaseStyle() lipgloss.Style {
	style := lipgloss.NewStyle()
	if fg := HexColor(s.Color("foreground")); fg != "" {
		style = style.Foreground(lipgloss.Color(fg))
	}
	if bg := HexColor(s.Color("background")); bg != "" {
		style = style.Background(lipgloss.Color(bg))
	}
	return style
}

// Swatch renders a small block filled with the named color, or "" if the
// color is absent or not convertible.
func (s *Store) Swatch(name string) string {
	return ColorSwatch(s.Color(name))
}

// ColorSwatch renders a small block filled with a CSS color, or "" if the
// color is not convertible.
func ColorSwatch(css string) string {
	hex := HexColor(css)
	if hex == "" {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(strings.Repeat(" ", SwatchWidth))
}

// SwatchWidth is the width in cells of a rendered swatch.
const SwatchWidth = 4

// AdaptiveColor pairs the named color of the active preset family's dark
// and light variants. The dark side resolves base colors plus the base
// preset, the light side base colors plus the -light preset; a missing side
// falls back to the other.
func (s *Store) AdaptiveColor(name string) lipgloss.AdaptiveColor {
	s.mu.RLock()
	base := BaseName(s.state.CurrentPreset)
	if base == "" {
		base = DefaultBaseName
	}
	dark := overlay(s.doc.Colors, s.doc.Presets[base].Colors)[name]
	light := overlay(s.doc.Colors, s.doc.Presets[base+LightSuffix].Colors)[name]
	s.mu.RUnlock()

	dark, light = HexColor(dark), HexColor(light)
	if light == "" {
		light = dark
	}
	if dark == "" {
		dark = light
	}
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// hasDarkBackground is swapped out in tests; querying a real terminal blocks.
var hasDarkBackground = termenv.HasDarkBackground

// TerminalPrefersLight reports whether the controlling terminal has a light
// background, in which case front ends should start on the -light variant.
func TerminalPrefersLight() bool {
	return !hasDarkBackground()
}
