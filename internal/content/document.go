// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package content

import (
	"fmt"
	"sort"
)

// StylesKey is the reserved top-level key holding custom content styles.
const StylesKey = "styles"

// Document is a content file. Data is the decoded top level; Order records
// top-level keys in source order when known.
type Document struct {
	Data       map[string]any
	Order      []string
	StyleOrder []string
}

// NewDocument wraps decoded data without key order.
func NewDocument(data map[string]any) Document {
	if data == nil {
		data = map[string]any{}
	}
	return Document{Data: data}
}

// Keys returns top-level keys in source order, followed by any keys missing
// from Order in sorted order.
func (d Document) Keys() []string {
	return orderedKeys(d.Data, d.Order)
}

// Object returns the object stored under key, if any.
func (d Document) Object(key string) (map[string]any, bool) {
	m, ok := d.Data[key].(map[string]any)
	return m, ok
}

// CustomStyles parses the reserved styles key. Entries that are not objects
// are skipped.
func (d Document) CustomStyles() []StylePreset {
	raw, ok := d.Object(StylesKey)
	if !ok {
		return nil
	}
	var out []StylePreset
	for _, id := range orderedKeys(raw, d.StyleOrder) {
		m, ok := raw[id].(map[string]any)
		if !ok {
			continue
		}
		out = append(out, parseStyle(id, m))
	}
	return out
}

func parseStyle(id string, m map[string]any) StylePreset {
	p := StylePreset{
		ID:          id,
		Name:        stringField(m, "name"),
		Description: stringField(m, "description"),
		Layout:      stringField(m, "layout"),
	}
	if p.Name == "" {
		p.Name = id
	}
	if sections, ok := m["sections"].([]any); ok {
		for _, s := range sections {
			p.Sections = append(p.Sections, fmt.Sprint(s))
		}
	}
	if meta, ok := m["metadata"].(map[string]any); ok {
		p.Metadata = meta
	}
	return p
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func orderedKeys(m map[string]any, order []string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
