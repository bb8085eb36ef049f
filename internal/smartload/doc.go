// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package smartload wraps content fetches with network-aware caching, SEO
metadata and request screening.

Each Load walks one pass of a small state machine:

	Idle -> AssessingNetwork -> CheckingCache -> CacheHit -> Done
	                                          \-> Loading -> Enhancing -> Caching -> Done
	any failure after the gate:  Error -> FallbackLookup -> Done

The guard runs before anything touches the network; a rejection is the only
error Load returns. Every other failure goes through the fallback chain:
a stale cache entry up to an hour old, then the minimal payload, then an
empty object.

The fetch strategy depends only on the measured network tier:

	excellent  public and private payloads fetched concurrently
	good       public then private
	poor       essential payload, then additional payload on a best-effort basis

Payloads are JSON (or YAML) objects. When a strategy fetches more than one,
later payloads are merged over earlier ones.
*/
package smartload
