// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard rejects content requests before any network work is done.
//
// A Gate applies two checks in order: a per-client rate limit and a
// user-agent keyword denylist. Both are heuristics rather than security
// boundaries.
//
// # Client identity
//
// Unless Options.StableClientID is set, every Check draws a fresh random
// client id. Each request therefore lands in its own window and the rate
// limit never trips. That stays the default until a stable identity source
// is chosen; set StableClientID (or pass Request.ClientID) to get real
// limiting.
//
// # Modes
//
//	fixed_window   Limit requests per Window, counter resets when the window ends
//	token_bucket   golang.org/x/time/rate limiter, Limit burst refilled over Window
package guard
