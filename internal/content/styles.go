// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package content

// StylePreset describes which content sections a layout renders.
type StylePreset struct {
	ID          string
	Name        string
	Description string
	Layout      string
	Sections    []string
	Metadata    map[string]any
}

// DefaultStyleID is the content style used until another is selected.
const DefaultStyleID = "default"

// BuiltinStyles returns the styles every store offers before custom ones.
func BuiltinStyles() []StylePreset {
	return []StylePreset{
		{
			ID:          "default",
			Name:        "Default",
			Description: "Balanced layout for general sites",
			Layout:      "standard",
			Sections:    []string{"hero", "about", "features", "contact"},
		},
		{
			ID:          "marketing",
			Name:        "Marketing",
			Description: "Conversion-focused landing page",
			Layout:      "landing",
			Sections:    []string{"hero", "features", "testimonials", "pricing", "cta"},
		},
		{
			ID:          "portfolio",
			Name:        "Portfolio",
			Description: "Showcase of projects and work",
			Layout:      "gallery",
			Sections:    []string{"hero", "projects", "about", "contact"},
		},
		{
			ID:          "business",
			Name:        "Business",
			Description: "Corporate presence with services and team",
			Layout:      "corporate",
			Sections:    []string{"hero", "services", "team", "contact"},
		},
	}
}

// findStyle returns the first style with id. Duplicate ids are allowed; the
// earliest entry shadows later ones.
func findStyle(styles []StylePreset, id string) (StylePreset, bool) {
	for _, s := range styles {
		if s.ID == id {
			return s, true
		}
	}
	return StylePreset{}, false
}
