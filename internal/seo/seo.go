// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package seo

import (
	"fmt"
	"html/template"
	"strings"
)

// Fields are the inputs metadata is built from.
type Fields struct {
	Title       string
	Description string
	Image       string
	URL         string
	Keywords    []string
	Author      string
}

// DefaultFields fill in whatever a payload does not provide.
var DefaultFields = Fields{
	Title:       "Untitled",
	Description: "No description available.",
	Image:       "/og-image.png",
	URL:         "/",
	Author:      "Anonymous",
}

// Options configures Enhance.
type Options struct {
	// Defaults overrides DefaultFields field by field.
	Defaults Fields
	SiteName string
	// Locale is the Open Graph locale, e.g. "en_US".
	Locale string
	// Type is the schema.org and Open Graph type. Defaults to "website".
	Type string
}

// MetaTag is one <meta> element. Exactly one of Name or Property is set.
type MetaTag struct {
	Name     string
	Property string
	Content  string
}

// Metadata is the synthesized SEO data for one payload.
type Metadata struct {
	StructuredData map[string]any
	MetaTags       []MetaTag
	OpenGraph      map[string]string
}

// Extract reads the recognized fields from data without applying defaults.
func Extract(data map[string]any) Fields {
	return Fields{
		Title:       str(data, "title"),
		Description: str(data, "description"),
		Image:       str(data, "image"),
		URL:         str(data, "url"),
		Keywords:    keywords(data["keywords"]),
		Author:      str(data, "author"),
	}
}

// Enhance builds metadata for data.
func Enhance(data map[string]any, opts Options) Metadata {
	f := Extract(data)
	def := merge(opts.Defaults, DefaultFields)
	f = merge(f, def)

	kind := opts.Type
	if kind == "" {
		kind = "website"
	}

	structured := map[string]any{
		"@context":    "https://schema.org",
		"@type":       schemaType(kind),
		"name":        f.Title,
		"description": f.Description,
		"url":         f.URL,
		"image":       f.Image,
		"author": map[string]any{
			"@type": "Person",
			"name":  f.Author,
		},
	}
	if len(f.Keywords) > 0 {
		structured["keywords"] = strings.Join(f.Keywords, ", ")
	}
	if opts.SiteName != "" {
		structured["publisher"] = map[string]any{
			"@type": "Organization",
			"name":  opts.SiteName,
		}
	}

	tags := []MetaTag{
		{Name: "description", Content: f.Description},
		{Name: "author", Content: f.Author},
	}
	if len(f.Keywords) > 0 {
		tags = append(tags, MetaTag{Name: "keywords", Content: strings.Join(f.Keywords, ", ")})
	}
	tags = append(tags,
		MetaTag{Name: "twitter:card", Content: "summary_large_image"},
		MetaTag{Name: "twitter:title", Content: f.Title},
		MetaTag{Name: "twitter:description", Content: f.Description},
		MetaTag{Name: "twitter:image", Content: f.Image},
	)

	og := map[string]string{
		"og:title":       f.Title,
		"og:description": f.Description,
		"og:image":       f.Image,
		"og:url":         f.URL,
		"og:type":        kind,
	}
	if opts.SiteName != "" {
		og["og:site_name"] = opts.SiteName
	}
	if opts.Locale != "" {
		og["og:locale"] = opts.Locale
	}

	return Metadata{StructuredData: structured, MetaTags: tags, OpenGraph: og}
}

// ogOrder fixes the rendering order of Open Graph properties.
var ogOrder = []string{"og:title", "og:description", "og:image", "og:url", "og:type", "og:site_name", "og:locale"}

// Tags returns MetaTags followed by the Open Graph entries as property tags.
func (m Metadata) Tags() []MetaTag {
	out := append([]MetaTag(nil), m.MetaTags...)
	for _, prop := range ogOrder {
		if v, ok := m.OpenGraph[prop]; ok {
			out = append(out, MetaTag{Property: prop, Content: v})
		}
	}
	return out
}

var headTemplate = template.Must(template.New("head").Parse(
	`{{range .Tags}}{{if .Property}}<meta property="{{.Property}}" content="{{.Content}}">{{else}}<meta name="{{.Name}}" content="{{.Content}}">{{end}}
{{end}}{{if .StructuredData}}<script type="application/ld+json">{{.StructuredData}}</script>
{{end}}`))

// HTML renders the metadata as escaped head elements.
func (m Metadata) HTML() (string, error) {
	var b strings.Builder
	err := headTemplate.Execute(&b, struct {
		Tags           []MetaTag
		StructuredData map[string]any
	}{m.Tags(), m.StructuredData})
	if err != nil {
		return "", fmt.Errorf("rendering metadata: %w", err)
	}
	return b.String(), nil
}

func schemaType(kind string) string {
	switch kind {
	case "article":
		return "Article"
	case "profile":
		return "ProfilePage"
	default:
		return "WebPage"
	}
}

func merge(f, def Fields) Fields {
	if f.Title == "" {
		f.Title = def.Title
	}
	if f.Description == "" {
		f.Description = def.Description
	}
	if f.Image == "" {
		f.Image = def.Image
	}
	if f.URL == "" {
		f.URL = def.URL
	}
	if len(f.Keywords) == 0 {
		f.Keywords = def.Keywords
	}
	if f.Author == "" {
		f.Author = def.Author
	}
	return f
}

func str(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func keywords(v any) []string {
	var out []string
	switch kw := v.(type) {
	case string:
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	case []any:
		for _, k := range kw {
			if s := strings.TrimSpace(fmt.Sprint(k)); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, k := range kw {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}
