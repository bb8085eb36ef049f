// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads thematic settings.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: the complete configuration
//   - ThemeConfig, ContentConfig: where documents live and what starts active
//   - LoaderConfig, GuardConfig, FetchConfig: smart loader behavior
//   - ValidateErrors: every problem found by Validate
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (THEMATIC_*)
//   - ~/.thematic/config.toml
//   - ~/.thematic/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Theme.Path, cfg.Content.Language)
package config
