// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"regexp"

	"github.com/jeranaias/thematic/internal/content"
)

// languageKey matches the two-letter lowercase keys treated as languages.
var languageKey = regexp.MustCompile(`^[a-z]{2}$`)

// ContentOptions lists what a content document offers.
type ContentOptions struct {
	AvailableLanguages []string
	ContentSections    []string
	ContentStyles      []string
}

// IsLanguageKey reports whether a top-level key names a language.
func IsLanguageKey(key string) bool {
	return languageKey.MatchString(key)
}

// Content scans the top-level keys of doc once. Only object values are
// classified: two-letter keys are languages, everything else except the
// reserved styles key is a content section. When no language is found the
// result falls back to currentLanguage so pickers always have an entry.
func Content(doc content.Document, currentLanguage string) ContentOptions {
	var opts ContentOptions

	for _, key := range doc.Keys() {
		if key == content.StylesKey {
			continue
		}
		if _, ok := doc.Object(key); !ok {
			continue
		}
		if IsLanguageKey(key) {
			opts.AvailableLanguages = append(opts.AvailableLanguages, key)
		} else {
			opts.ContentSections = append(opts.ContentSections, key)
		}
	}
	if len(opts.AvailableLanguages) == 0 {
		opts.AvailableLanguages = []string{currentLanguage}
	}

	for _, style := range doc.CustomStyles() {
		opts.ContentStyles = append(opts.ContentStyles, style.ID)
	}
	return opts
}
