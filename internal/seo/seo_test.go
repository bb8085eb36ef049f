// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhance_UsesPayloadFields(t *testing.T) {
	data := map[string]any{
		"title":       "Spring Sale",
		"description": "Everything half off",
		"image":       "https://example.com/sale.png",
		"url":         "https://example.com/sale",
		"keywords":    []any{"sale", "spring"},
		"author":      "Ana",
	}

	meta := Enhance(data, Options{SiteName: "Shop", Locale: "en_US"})

	assert.Equal(t, "https://schema.org", meta.StructuredData["@context"])
	assert.Equal(t, "WebPage", meta.StructuredData["@type"])
	assert.Equal(t, "Spring Sale", meta.StructuredData["name"])
	assert.Equal(t, "sale, spring", meta.StructuredData["keywords"])
	assert.Equal(t, map[string]any{"@type": "Person", "name": "Ana"}, meta.StructuredData["author"])

	assert.Equal(t, "Spring Sale", meta.OpenGraph["og:title"])
	assert.Equal(t, "https://example.com/sale", meta.OpenGraph["og:url"])
	assert.Equal(t, "Shop", meta.OpenGraph["og:site_name"])
	assert.Equal(t, "en_US", meta.OpenGraph["og:locale"])

	assert.Contains(t, meta.MetaTags, MetaTag{Name: "keywords", Content: "sale, spring"})
	assert.Contains(t, meta.MetaTags, MetaTag{Name: "author", Content: "Ana"})
}

func TestEnhance_DefaultsWhenAbsent(t *testing.T) {
	meta := Enhance(map[string]any{"unrelated": 1}, Options{})

	assert.Equal(t, DefaultFields.Title, meta.OpenGraph["og:title"])
	assert.Equal(t, DefaultFields.Description, meta.OpenGraph["og:description"])
	assert.Equal(t, DefaultFields.Image, meta.OpenGraph["og:image"])
	assert.Equal(t, "website", meta.OpenGraph["og:type"])
	assert.NotContains(t, meta.OpenGraph, "og:site_name")
	assert.NotContains(t, meta.StructuredData, "keywords")
	assert.NotContains(t, meta.StructuredData, "publisher")
}

func TestEnhance_NilData(t *testing.T) {
	meta := Enhance(nil, Options{})
	assert.Equal(t, DefaultFields.Title, meta.StructuredData["name"])
}

func TestEnhance_OptionDefaultsOverrideBuiltins(t *testing.T) {
	meta := Enhance(map[string]any{"title": "Hi"}, Options{
		Defaults: Fields{Description: "Custom", Author: "Team"},
		Type:     "article",
	})

	assert.Equal(t, "Hi", meta.OpenGraph["og:title"])
	assert.Equal(t, "Custom", meta.OpenGraph["og:description"])
	assert.Equal(t, "Article", meta.StructuredData["@type"])
	assert.Contains(t, meta.MetaTags, MetaTag{Name: "author", Content: "Team"})
}

func TestExtract_Keywords(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"comma string", "a, b ,,c", []string{"a", "b", "c"}},
		{"list", []any{"a", " b ", ""}, []string{"a", "b"}},
		{"string slice", []string{"x"}, []string{"x"}},
		{"wrong type", 42, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(map[string]any{"keywords": tt.in}).Keywords)
		})
	}
}

func TestHTML_EscapesContent(t *testing.T) {
	meta := Enhance(map[string]any{
		"title":       `Tom & "Jerry"`,
		"description": `<script>alert(1)</script>`,
	}, Options{})

	out, err := meta.HTML()
	require.NoError(t, err)

	assert.Contains(t, out, `<meta name="description" content="&lt;script&gt;alert(1)&lt;/script&gt;">`)
	assert.Contains(t, out, `<meta property="og:title" content="Tom &amp; &#34;Jerry&#34;">`)
	assert.Contains(t, out, `<script type="application/ld+json">`)
	assert.NotContains(t, out, "<script>alert")
}

func TestTags_OpenGraphOrder(t *testing.T) {
	meta := Enhance(nil, Options{SiteName: "S"})
	tags := meta.Tags()

	var props []string
	for _, tag := range tags {
		if tag.Property != "" {
			props = append(props, tag.Property)
		}
	}
	assert.Equal(t, []string{"og:title", "og:description", "og:image", "og:url", "og:type", "og:site_name"}, props)
}
