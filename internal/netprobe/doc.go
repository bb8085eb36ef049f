// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package netprobe classifies the current network into a quality tier.
//
// A Prober sends a HEAD request to measure latency and downloads a small
// probe resource to measure bandwidth. Both thresholds must hold for a tier:
//
//	excellent  latency < 100ms  and  bandwidth > 1 MB/s
//	good       latency < 300ms  and  bandwidth > 100 KB/s
//	poor       anything else, including any probe failure
//
// Callers then pick their most conservative loading strategy.
package netprobe
