// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch reloads documents when their files change on disk.
//
// A Watcher watches the directory of every registered file rather than the
// file itself, so editors that save by writing a temp file and renaming it
// over the original are still seen. Bursts of events for one file are
// debounced into a single callback.
//
//	w, err := watch.New(watch.Options{Debounce: 200 * time.Millisecond})
//	if err != nil {
//		return err
//	}
//	_ = w.Add("theme.json", func(ctx context.Context) { themes.Reload(ctx) })
//	go w.Run(ctx)
package watch
