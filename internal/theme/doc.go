// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package theme holds a color/font theme document and its named presets, and
applies the active preset as CSS custom properties on a style root.

# Documents

A theme document has base colors, base fonts and presets. A preset is a
partial override; names ending in "-light" are the light variant of the base
name with the suffix stripped:

	{
	  "colors":  {"primary": "#0ea5e9", "background": "#0b1120", "foreground": "#e2e8f0"},
	  "fonts":   {"body": "Inter, sans-serif"},
	  "presets": {"ocean": {...}, "ocean-light": {...}}
	}

# Store

Store is the single writer of the active theme state. ApplyPreset layers the
preset over the current resolved colors, not over the pristine base, so
applying A then B keeps any of A's keys that B does not override.

Every load and preset change writes --color-<key> and --font-<key> onto the
configured StyleRoot. Root is the in-memory implementation; Root.CSS renders
a :root block for stylesheets.

# Terminal rendering

Palette, Swatch and AdaptiveColor expose the resolved theme as lipgloss
colors so terminal front ends can render with the same presets.
*/
package theme
