// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fetch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotObject is returned by KeyOrder when the addressed value is not an object.
var ErrNotObject = errors.New("value is not an object")

// IsYAML reports whether a location names a YAML document.
func IsYAML(location string) bool {
	p := location
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Decode unmarshals data into v, choosing YAML or JSON from the location.
func Decode(location string, data []byte, v any) error {
	if IsYAML(location) {
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode yaml %s: %w", location, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode json %s: %w", location, err)
	}
	return nil
}

// KeyOrder returns the keys of the object found by walking keyPath from the
// document root, in source order. A missing path yields nil, nil.
func KeyOrder(location string, data []byte, keyPath ...string) ([]string, error) {
	if IsYAML(location) {
		return yamlKeyOrder(data, keyPath)
	}
	return jsonKeyOrder(data, keyPath)
}

func jsonKeyOrder(data []byte, keyPath []string) ([]string, error) {
	raw := json.RawMessage(data)
	for _, key := range keyPath {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
		}
		next, ok := obj[key]
		if !ok {
			return nil, nil
		}
		raw = next
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, ErrNotObject
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func yamlKeyOrder(data []byte, keyPath []string) ([]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	for _, key := range keyPath {
		if node.Kind != yaml.MappingNode {
			return nil, ErrNotObject
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, nil
		}
		node = next
	}

	if node.Kind != yaml.MappingNode {
		return nil, ErrNotObject
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys, nil
}
