// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache stores loaded content payloads keyed by content type.
//
// Freshness depends on the network: the TTL applied at lookup time comes
// from the last quality reported with SetQuality (excellent 5m, good 10m,
// poor 30m). Stale lets the fallback path reuse entries past their TTL up to
// MaxStaleAge. Entries older than that are removed lazily on Get.
//
// A Cache belongs to one loader. Lookups and writes are not combined into a
// single critical section, so concurrent misses for the same key will each
// fetch and the last Put wins.
package cache
