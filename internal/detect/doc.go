// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect infers the themes, languages and content styles a UI can
// offer by scanning loaded documents instead of relying on hardcoded lists.
//
// Every function here is pure and single-pass. Output order follows the
// source order recorded on the documents; where none was recorded (injected
// documents) keys are sorted, so repeated calls always agree.
//
// # Key Types
//
//   - ThemeOptions: base theme names plus one ColorVariant per preset
//   - ContentOptions: languages, content sections and content style ids
//   - LanguageOption: a language code with display names
//
// # Usage
//
//	themes := detect.Themes(themeStore.Document())
//	for _, base := range themes.BaseThemes {
//		fmt.Println(base)
//	}
//
//	opts := detect.Content(contentStore.Document(), contentStore.State().Language)
//	langs := detect.Languages(opts.AvailableLanguages, language.English)
package detect
