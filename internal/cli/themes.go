// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/thematic/internal/detect"
	"github.com/jeranaias/thematic/internal/provider"
	"github.com/jeranaias/thematic/internal/theme"
	"github.com/jeranaias/thematic/internal/util"
)

// swatchColors are the colors shown next to each preset.
var swatchColors = []string{"primary", "background", "foreground"}

type themeVariantData struct {
	ID          string            `json:"id"`
	Base        string            `json:"base"`
	Light       bool              `json:"light"`
	DisplayName string            `json:"display_name"`
	Colors      map[string]string `json:"colors"`
	Active      bool              `json:"active"`
}

type themesData struct {
	Active     string             `json:"active"`
	IsDark     bool               `json:"is_dark"`
	BaseThemes []string           `json:"base_themes"`
	Variants   []themeVariantData `json:"variants"`
}

func newThemesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List theme presets with color swatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.startProvider(cmd, nil)
			if err != nil {
				return err
			}
			defer p.Close()

			data := collectThemes(p)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), "themes", data, nil)
			}
			return renderThemes(cmd.OutOrStdout(), p.Themes(), data)
		},
	}
}

// collectThemes resolves each variant over the base colors so swatches show
// what applying the preset on a fresh load would produce.
func collectThemes(p *provider.Provider) themesData {
	state := p.Themes().State()
	doc := p.Themes().Document()
	opts := p.ThemeOptions()

	data := themesData{
		Active:     state.CurrentPreset,
		IsDark:     state.IsDark,
		BaseThemes: opts.BaseThemes,
		Variants:   make([]themeVariantData, 0, len(opts.ColorVariants)),
	}
	for _, v := range opts.ColorVariants {
		data.Variants = append(data.Variants, variantData(doc, v, state.CurrentPreset))
	}
	return data
}

func variantData(doc theme.Document, v detect.ColorVariant, active string) themeVariantData {
	colors := maps.Clone(doc.Colors)
	if colors == nil {
		colors = make(map[string]string, len(v.Colors))
	}
	maps.Copy(colors, v.Colors)
	return themeVariantData{
		ID:          v.ID,
		Base:        v.Base,
		Light:       v.Light,
		DisplayName: v.DisplayName,
		Colors:      colors,
		Active:      v.ID == active,
	}
}

func renderThemes(w io.Writer, store *theme.Store, data themesData) error {
	fmt.Fprintln(w, adaptiveTitleStyle(store).Render("Theme presets"))
	fmt.Fprintln(w, RenderSeparator())

	if len(data.Variants) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No presets defined; using base colors."))
		return nil
	}

	idWidth := 0
	for _, v := range data.Variants {
		idWidth = max(idWidth, util.StringWidth(v.ID))
	}

	for _, v := range data.Variants {
		marker := "  "
		if v.Active {
			marker = SuccessStyle.Render("* ")
		}
		var swatches []string
		for _, name := range swatchColors {
			swatches = append(swatches, swatch(v.Colors[name]))
		}
		mode := "dark"
		if v.Light {
			mode = "light"
		}
		fmt.Fprintf(w, "%s%s  %s  %s %s\n",
			marker,
			ValueStyle.Render(util.PadRight(v.ID, idWidth)),
			strings.Join(swatches, " "),
			v.DisplayName,
			DimStyle.Render("("+mode+")"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Base themes"), strings.Join(data.BaseThemes, ", "))
	active := data.Active
	if active == "" {
		active = "(none)"
	}
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Active"), store.BaseStyle().Render(" "+active+" "))
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Palette"), activePalette(store))
	return nil
}

// activePalette renders a swatch per resolved color, in sorted name order.
func activePalette(store *theme.Store) string {
	palette := store.Palette()
	names := slices.Sorted(maps.Keys(palette))
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, store.Swatch(name)+" "+name)
	}
	return strings.Join(parts, "  ")
}
