// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the CLI and the stores.
//
// # Key Functions
//
// Display width:
//   - StringWidth: terminal column width (CJK aware, via go-runewidth)
//   - PadRight: pad to a column width for aligned tables
//   - TruncateWidth: cut to a column width with an ellipsis
//
// File Operations:
//   - AtomicWriteFile: crash-safe writes for exported CSS and config files
//
// # Usage
//
//	fmt.Println(util.PadRight(name, 18) + value)
//	err := util.AtomicWriteFile("theme.css", css, 0644)
package util
