// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageOption is a detected language code with human readable names.
type LanguageOption struct {
	Code string `json:"code"`
	// Name is the language name in the requested display language.
	Name string `json:"name"`
	// Native is the language name in the language itself.
	Native string `json:"native"`
}

// Languages attaches display names to language codes. Codes that are not
// valid BCP 47 tags keep the code as both names.
func Languages(codes []string, displayIn language.Tag) []LanguageOption {
	namer := display.Languages(displayIn)
	out := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		opt := LanguageOption{Code: code, Name: code, Native: code}
		if tag, err := language.Parse(code); err == nil {
			if name := namer.Name(tag); name != "" {
				opt.Name = name
			}
			if native := display.Self.Name(tag); native != "" {
				opt.Native = native
			}
		}
		out = append(out, opt)
	}
	return out
}
