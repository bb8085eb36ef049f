// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/jeranaias/thematic/internal/detect"
	"github.com/jeranaias/thematic/internal/provider"
	"github.com/jeranaias/thematic/internal/theme"
	"github.com/jeranaias/thematic/internal/util"
)

type contentStyleData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

type contentData struct {
	Language  string                  `json:"language"`
	StyleID   string                  `json:"style_id"`
	Languages []detect.LanguageOption `json:"languages"`
	Sections  []string                `json:"sections"`
	Styles    []contentStyleData      `json:"styles"`
}

type sectionData struct {
	Name     string         `json:"name"`
	Language string         `json:"language"`
	Fields   map[string]any `json:"fields"`
	Markdown string         `json:"markdown"`
}

func newContentCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "content [section]",
		Short: "Show detected languages and sections, or render one section",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.startProvider(cmd, nil)
			if err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				data := collectContent(p)
				if opts.jsonOutput {
					return writeJSON(out, "content", data, nil)
				}
				renderContent(out, p.Themes(), data)
				return nil
			}

			data, err := collectSection(p, args[0])
			if opts.jsonOutput {
				return writeJSON(out, "content", data, err)
			}
			if err != nil {
				return err
			}
			return renderMarkdown(out, data.Markdown, p.Themes().State().IsDark)
		},
	}
}

func collectContent(p *provider.Provider) contentData {
	state := p.Content().State()
	detected := p.ContentOptions()

	data := contentData{
		Language:  state.Language,
		StyleID:   state.StyleID,
		Languages: detect.Languages(detected.AvailableLanguages, language.English),
		Sections:  detected.ContentSections,
	}
	for _, s := range p.Content().Styles() {
		data.Styles = append(data.Styles, contentStyleData{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Active:      s.ID == state.StyleID,
		})
	}
	return data
}

// styleIDWidth is the id column of the styles list.
const styleIDWidth = 12

func renderContent(w io.Writer, store *theme.Store, data contentData) {
	width := GetTerminalWidth()

	fmt.Fprintln(w, accentStyle(store).Render("Content"))
	fmt.Fprintln(w, RenderSeparator())
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Language"), data.Language)
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Style"), data.StyleID)
	for _, s := range data.Styles {
		if s.Active && s.Description != "" {
			fmt.Fprintln(w, DimStyle.Render(WrapText(s.Description, width)))
		}
	}

	fmt.Fprintln(w, SectionStyle.Render("Languages"))
	for _, l := range data.Languages {
		fmt.Fprintf(w, "  %s %s %s\n", RenderLabel(l.Code, 4), l.Name, DimStyle.Render("("+l.Native+")"))
	}

	fmt.Fprintln(w, SectionStyle.Render("Sections"))
	if len(data.Sections) == 0 {
		fmt.Fprintln(w, DimStyle.Render("  (none)"))
	}
	for _, s := range data.Sections {
		fmt.Fprintf(w, "  %s\n", s)
	}

	fmt.Fprintln(w, SectionStyle.Render("Styles"))
	for _, s := range data.Styles {
		marker := "  "
		if s.Active {
			marker = SuccessStyle.Render("* ")
		}
		desc := util.TruncateWidth(s.Description, width-2-styleIDWidth)
		fmt.Fprintf(w, "%s%s%s\n", marker, RenderLabel(s.ID, styleIDWidth), DimStyle.Render(desc))
	}
}

func collectSection(p *provider.Provider, name string) (sectionData, error) {
	fields, ok := p.Content().Section(name)
	if !ok {
		return sectionData{}, fmt.Errorf("section %q not found", name)
	}
	return sectionData{
		Name:     name,
		Language: p.Content().State().Language,
		Fields:   fields,
		Markdown: sectionMarkdown(name, fields),
	}, nil
}

// sectionMarkdown lays a section out as a heading and a bullet per field,
// in sorted key order. Nested values are shown as inline JSON.
func sectionMarkdown(name string, fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", detect.DisplayName(name))
	for _, k := range keys {
		fmt.Fprintf(&b, "- **%s**: %s\n", k, fieldText(fields[k]))
	}
	return b.String()
}

func fieldText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return "_empty_"
	case map[string]any, []any:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return "`" + string(raw) + "`"
	default:
		return fmt.Sprint(v)
	}
}

// renderMarkdown prints markdown through glamour on a terminal, matching
// the active theme's dark or light mode, and as plain text otherwise.
func renderMarkdown(w io.Writer, md string, dark bool) error {
	if !isTerminal(w) || !ColorsEnabled() {
		_, err := io.WriteString(w, md)
		return err
	}

	style := "dark"
	if !dark {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render section: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
