// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the thematic command-line preview tool.
//
// Every command builds a provider from the resolved configuration, starts
// it, and renders one view of the result:
//
//   - themes: presets with color swatches
//   - css: the custom properties written for a preset
//   - content: detected languages, sections and styles, or one section
//   - load: a smart load with its cache status and trace
//   - watch: reload documents as they change on disk
//   - config: inspect and edit the configuration file
//
// Output is styled with lipgloss only when stdout is a terminal, and the
// --json flag switches every command to a JSONResponse envelope.
package cli
