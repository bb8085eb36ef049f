// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package provider wires the theme store, the content store and the smart
loader into one object a front end can hold.

	p, err := provider.New(provider.Options{Config: cfg, Logger: log})
	if err != nil {
		return err
	}
	p.Start(ctx)

	unsubscribe := p.Subscribe(func(s provider.Snapshot) {
		render(s.Theme, s.Content)
	})
	defer unsubscribe()

	p.ApplyPreset("ocean")
	p.SetLanguage("es")

Subscribers are called after every change to either store with a snapshot
of both. Mutators pass straight through to the owning store, so the stores
remain the single writers of their state.
*/
package provider
