// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"maps"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/thematic/internal/theme"
)

// ColorVariant is one preset as offered to a theme picker.
type ColorVariant struct {
	// ID is the preset name exactly as it appears in the document.
	ID          string
	Base        string
	Light       bool
	DisplayName string
	Colors      map[string]string
}

// ThemeOptions lists what a theme document offers.
type ThemeOptions struct {
	// BaseThemes holds preset names with the light suffix stripped,
	// de-duplicated, in first-seen order.
	BaseThemes    []string
	ColorVariants []ColorVariant
}

// Themes scans the presets of doc once.
func Themes(doc theme.Document) ThemeOptions {
	var opts ThemeOptions
	seen := make(map[string]bool)

	for _, name := range doc.PresetNames() {
		base := theme.BaseName(name)
		if !seen[base] {
			seen[base] = true
			opts.BaseThemes = append(opts.BaseThemes, base)
		}
		opts.ColorVariants = append(opts.ColorVariants, ColorVariant{
			ID:          name,
			Base:        base,
			Light:       theme.IsLight(name),
			DisplayName: DisplayName(base),
			Colors:      maps.Clone(doc.Presets[name].Colors),
		})
	}
	return opts
}

// DisplayName turns a preset or style id like "ocean_breeze" into
// "Ocean Breeze".
func DisplayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	// A Caser carries state between calls and is not safe to share.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
