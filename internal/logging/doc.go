// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging wraps zerolog with the small API the stores and loaders use.
//
// Stores never surface load failures to callers; they log them here instead.
// A nil *Logger is valid and discards everything, so components can be built
// without wiring a logger in tests.
//
//	log, err := logging.New(logging.Options{Level: "debug", HumanReadable: true})
//	if err != nil {
//		return err
//	}
//	log.WithFields(map[string]any{"preset": "ocean"}).Warn("unknown preset")
package logging
