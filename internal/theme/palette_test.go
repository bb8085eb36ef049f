// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#FF0000", "#ff0000"},
		{"#f00", "#ff0000"},
		{"rgb(0, 128, 255)", "#0080ff"},
		{"rgba(255,255,255,0.5)", "#ffffff"},
		{"hsl(0, 100%, 50%)", "#ff0000"},
		{"  Navy ", "#000080"},
		{"transparent", ""},
		{"var(--x)", ""},
		{"#zzzzzz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := HexColor(tt.in); got != tt.want {
			t.Errorf("HexColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPalette(t *testing.T) {
	store := NewStore(Options{})
	store.Load(context.Background(), FromDocument(Document{
		Colors: map[string]string{"primary": "rgb(255,0,0)", "shadow": "var(--x)"},
	}))

	p := store.Palette()
	if p["primary"] != lipgloss.Color("#ff0000") {
		t.Errorf("primary = %q", p["primary"])
	}
	if _, ok := p["shadow"]; ok {
		t.Error("unconvertible colors should be skipped")
	}
	if _, ok := p["background"]; !ok {
		t.Error("required colors should be in the palette")
	}
}

func TestAdaptiveColor(t *testing.T) {
	store := NewStore(Options{})
	store.Load(context.Background(), FromDocument(Document{
		Colors: map[string]string{"primary": "#000000", "background": "#111111"},
		Presets: map[string]Preset{
			"ocean":       {Colors: map[string]string{"background": "#001122"}},
			"ocean-light": {Colors: map[string]string{"background": "#eeeeff"}},
		},
	}))
	store.ApplyPreset("ocean-light")

	got := store.AdaptiveColor("background")
	want := lipgloss.AdaptiveColor{Light: "#eeeeff", Dark: "#001122"}
	if got != want {
		t.Errorf("AdaptiveColor = %+v, want %+v", got, want)
	}

	primary := store.AdaptiveColor("primary")
	if primary.Light != "#000000" || primary.Dark != "#000000" {
		t.Errorf("primary = %+v", primary)
	}
}

func TestSwatch(t *testing.T) {
	store := NewStore(Options{})
	store.Load(context.Background(), FromDocument(FallbackDocument()))

	if got := store.Swatch("primary"); !strings.Contains(got, "    ") {
		t.Errorf("Swatch should render a block, got %q", got)
	}
	if got := store.Swatch("missing"); got != "" {
		t.Errorf("Swatch(missing) = %q, want empty", got)
	}
}

func TestTerminalPrefersLight(t *testing.T) {
	orig := hasDarkBackground
	defer func() { hasDarkBackground = orig }()

	hasDarkBackground = func() bool { return false }
	if !TerminalPrefersLight() {
		t.Error("light terminal should prefer light")
	}
	hasDarkBackground = func() bool { return true }
	if TerminalPrefersLight() {
		t.Error("dark terminal should not prefer light")
	}
}

func TestRoot_CSS(t *testing.T) {
	root := NewRoot()
	root.SetProperty("--color-primary", "#000")
	root.SetProperty("--color-accent", "#111")

	want := ":root {\n  --color-accent: #111;\n  --color-primary: #000;\n}\n"
	if got := root.CSS(); got != want {
		t.Errorf("CSS() = %q, want %q", got, want)
	}
}

func TestPresetNames_OrderThenSorted(t *testing.T) {
	doc := Document{
		Presets:     map[string]Preset{"c": {}, "a": {}, "b": {}, "z": {}},
		PresetOrder: []string{"z", "gone", "b", "z"},
	}
	got := doc.PresetNames()
	want := []string{"z", "b", "a", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("PresetNames() = %v, want %v", got, want)
	}
}

func TestCounterpart(t *testing.T) {
	if Counterpart("ocean") != "ocean-light" || Counterpart("ocean-light") != "ocean" {
		t.Error("Counterpart should add or strip the light suffix")
	}
}
