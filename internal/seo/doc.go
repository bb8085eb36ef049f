// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package seo derives page metadata from whatever fields a content payload
// happens to carry. It performs no validation and makes no network calls.
//
// Recognized fields are title, description, image, url, keywords (a string
// or a list) and author. Missing fields take the values in Options.Defaults.
package seo
