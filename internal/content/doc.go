// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package content holds localized content keyed by language plus named
// content styles describing which sections a layout renders.
//
// A content document maps language codes to section trees. The reserved
// "styles" key holds custom content styles, which are appended after the
// built-in ones:
//
//	{
//	  "en": {"hero": {"title": "Hello"}},
//	  "es": {"hero": {"title": "Hola"}},
//	  "styles": {"minimal": {"name": "Minimal", "sections": ["hero"]}}
//	}
//
// Load failures are logged and yield an empty document. Invalid content
// style ids are rejected with a warning and leave the state unchanged;
// languages are never validated because they are discovered from the data.
package content
