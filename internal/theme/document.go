// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"maps"
	"sort"
	"strings"
)

// LightSuffix marks a preset as the light variant of its base name.
const LightSuffix = "-light"

// DefaultBaseName is the preset name ToggleDarkVariant starts from when no
// preset is active.
const DefaultBaseName = "default"

// RequiredColors must be present in every loaded document.
var RequiredColors = []string{"primary", "background", "foreground"}

// Preset is a partial override of the base colors and fonts.
type Preset struct {
	Colors map[string]string `json:"colors,omitempty" yaml:"colors,omitempty"`
	Fonts  map[string]string `json:"fonts,omitempty" yaml:"fonts,omitempty"`
}

// Document is a theme file.
type Document struct {
	Colors  map[string]string `json:"colors" yaml:"colors"`
	Fonts   map[string]string `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	Presets map[string]Preset `json:"presets,omitempty" yaml:"presets,omitempty"`

	// PresetOrder records preset names in source order when the document
	// was decoded from a file. Injected documents may leave it empty.
	PresetOrder []string `json:"-" yaml:"-"`
}

// FallbackDocument is used whenever a theme cannot be loaded.
func FallbackDocument() Document {
	return Document{
		Colors: map[string]string{
			"primary":    "#3b82f6",
			"background": "#ffffff",
			"foreground": "#111827",
		},
		Fonts:   map[string]string{},
		Presets: map[string]Preset{},
	}
}

// PresetNames returns preset names in source order, followed by any names
// missing from PresetOrder in sorted order.
func (d Document) PresetNames() []string {
	names := make([]string, 0, len(d.Presets))
	seen := make(map[string]bool, len(d.Presets))
	for _, name := range d.PresetOrder {
		if _, ok := d.Presets[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var rest []string
	for name := range d.Presets {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{
		Colors:      cloneStrings(d.Colors),
		Fonts:       cloneStrings(d.Fonts),
		Presets:     make(map[string]Preset, len(d.Presets)),
		PresetOrder: append([]string(nil), d.PresetOrder...),
	}
	for name, p := range d.Presets {
		out.Presets[name] = Preset{Colors: cloneStrings(p.Colors), Fonts: cloneStrings(p.Fonts)}
	}
	return out
}

// normalize fills required colors from the fallback document and makes
// every map non-nil. It reports the required colors that were missing.
func (d *Document) normalize() []string {
	if d.Colors == nil {
		d.Colors = map[string]string{}
	}
	if d.Fonts == nil {
		d.Fonts = map[string]string{}
	}
	if d.Presets == nil {
		d.Presets = map[string]Preset{}
	}

	fallback := FallbackDocument()
	var missing []string
	for _, key := range RequiredColors {
		if _, ok := d.Colors[key]; !ok {
			d.Colors[key] = fallback.Colors[key]
			missing = append(missing, key)
		}
	}
	return missing
}

// IsLight reports whether a preset name carries the light suffix.
func IsLight(name string) bool {
	return strings.HasSuffix(name, LightSuffix)
}

// BaseName strips the light suffix from a preset name.
func BaseName(name string) string {
	return strings.TrimSuffix(name, LightSuffix)
}

// Counterpart returns the light name for a dark preset and vice versa.
func Counterpart(name string) string {
	if IsLight(name) {
		return BaseName(name)
	}
	return name + LightSuffix
}

func cloneStrings(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}

// overlay copies base and writes every key of top over it.
func overlay(base, top map[string]string) map[string]string {
	out := cloneStrings(base)
	maps.Copy(out, top)
	return out
}
