// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fetch retrieves theme and content documents.
//
// A location is either an http(s) URL, a file:// URL or a plain filesystem
// path. HTTP responses are transparently decompressed (gzip, deflate,
// brotli). Documents are decoded as JSON, or YAML when the location ends in
// .yaml/.yml; KeyOrder recovers object key order, which Go maps discard and
// the detector needs for first-seen ordering.
//
//	client := fetch.New(fetch.Options{UserAgent: "thematic/1.0"})
//	data, err := client.Fetch(ctx, "https://cdn.example.com/theme.json")
package fetch
