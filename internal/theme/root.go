// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"sort"
	"strings"
	"sync"
)

// StyleRoot receives CSS custom properties, standing in for the document root.
type StyleRoot interface {
	SetProperty(name, value string)
}

// Root is an in-memory StyleRoot.
type Root struct {
	mu    sync.RWMutex
	props map[string]string
}

// NewRoot creates an empty Root.
func NewRoot() *Root {
	return &Root{props: make(map[string]string)}
}

// SetProperty implements StyleRoot.
func (r *Root) SetProperty(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.props[name] = value
}

// Property returns a property value and whether it was ever set.
func (r *Root) Property(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.props[name]
	return v, ok
}

// Properties returns a copy of every property set so far.
func (r *Root) Properties() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneStrings(r.props)
}

// CSS renders the properties as a :root rule with sorted declarations.
func (r *Root) CSS() string {
	props := r.Properties()
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(props[name])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// ColorProperty returns the custom property name for a color key.
func ColorProperty(key string) string { return "--color-" + key }

// FontProperty returns the custom property name for a font key.
func FontProperty(key string) string { return "--font-" + key }

// writeProperties pushes resolved colors and fonts to root in sorted order.
func writeProperties(root StyleRoot, colors, fonts map[string]string) {
	if root == nil {
		return
	}
	for _, key := range sortedKeys(colors) {
		root.SetProperty(ColorProperty(key), colors[key])
	}
	for _, key := range sortedKeys(fonts) {
		root.SetProperty(FontProperty(key), fonts[key])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
