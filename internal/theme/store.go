// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"context"
	"errors"
	"sync"

	"github.com/jeranaias/thematic/internal/fetch"
	"github.com/jeranaias/thematic/internal/logging"
	"github.com/jeranaias/thematic/internal/util"
)

// ErrNoSource is logged when Load is called with an empty Source.
var ErrNoSource = errors.New("theme source has neither a location nor a document")

// =============================================================================
// STATE
// =============================================================================

// State is a snapshot of the active theme.
type State struct {
	// CurrentPreset is "" until a preset has been applied.
	CurrentPreset string
	IsDark        bool
	Colors        map[string]string
	Fonts         map[string]string
}

func (s State) clone() State {
	s.Colors = cloneStrings(s.Colors)
	s.Fonts = cloneStrings(s.Fonts)
	return s
}

// Source names where a theme document comes from: a fetchable location or
// an injected document.
type Source struct {
	Location string
	Document *Document
}

// FromLocation returns a Source that fetches location.
func FromLocation(location string) Source {
	return Source{Location: location}
}

// FromDocument returns a Source that passes doc through without fetching.
func FromDocument(doc Document) Source {
	return Source{Document: &doc}
}

// =============================================================================
// STORE
// =============================================================================

// Options configures a Store.
type Options struct {
	Fetcher fetch.Fetcher
	Root    StyleRoot
	Logger  *logging.Logger
}

// Store owns the theme document and the active theme state.
type Store struct {
	fetcher fetch.Fetcher
	root    StyleRoot
	log     *logging.Logger

	mu     sync.RWMutex
	doc    Document
	state  State
	source Source

	hub util.Hub[State]
}

// NewStore creates a Store holding the fallback document. Nothing is written
// to the root until the first Load.
func NewStore(opts Options) *Store {
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.New(fetch.Options{Logger: opts.Logger})
	}
	if opts.Root == nil {
		opts.Root = NewRoot()
	}
	doc := FallbackDocument()
	return &Store{
		fetcher: opts.Fetcher,
		root:    opts.Root,
		log:     opts.Logger.Component("theme"),
		doc:     doc,
		state:   State{IsDark: true, Colors: cloneStrings(doc.Colors), Fonts: cloneStrings(doc.Fonts)},
	}
}

// Root returns the style root the store writes to.
func (s *Store) Root() StyleRoot {
	return s.root
}

// Load fetches and installs a theme document. Failures are logged and the
// fallback document is installed instead; Load never fails.
func (s *Store) Load(ctx context.Context, src Source) Document {
	doc, err := s.resolve(ctx, src)
	if err != nil {
		s.log.With("location", src.Location).WarnErr(err, "theme load failed, using fallback theme")
		doc = FallbackDocument()
	}
	if missing := doc.normalize(); len(missing) > 0 {
		s.log.With("missing", missing).Debug("filled required colors from fallback theme")
	}

	s.mu.Lock()
	s.doc = doc
	s.source = src
	s.state = State{
		IsDark: true,
		Colors: cloneStrings(doc.Colors),
		Fonts:  cloneStrings(doc.Fonts),
	}
	snapshot := s.state.clone()
	s.mu.Unlock()

	s.publish(snapshot)
	return doc.Clone()
}

// Reload re-runs Load with the last source. Overlapping reloads are not
// sequenced; whichever finishes last wins.
func (s *Store) Reload(ctx context.Context) Document {
	s.mu.RLock()
	src := s.source
	s.mu.RUnlock()
	return s.Load(ctx, src)
}

func (s *Store) resolve(ctx context.Context, src Source) (Document, error) {
	if src.Document != nil {
		return src.Document.Clone(), nil
	}
	if src.Location == "" {
		return Document{}, ErrNoSource
	}

	data, err := s.fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := fetch.Decode(src.Location, data, &doc); err != nil {
		return Document{}, err
	}
	order, err := fetch.KeyOrder(src.Location, data, "presets")
	if err != nil {
		s.log.WarnErr(err, "could not read preset order, falling back to sorted names")
	}
	doc.PresetOrder = order
	return doc, nil
}

// ApplyPreset merges the named preset over the current resolved colors and
// fonts. Unknown names are logged and ignored. It reports whether the preset
// was applied.
func (s *Store) ApplyPreset(name string) bool {
	s.mu.Lock()
	preset, ok := s.doc.Presets[name]
	if !ok {
		s.mu.Unlock()
		s.log.With("preset", name).Warn("unknown theme preset, ignoring")
		return false
	}
	s.state.Colors = overlay(s.state.Colors, preset.Colors)
	s.state.Fonts = overlay(s.state.Fonts, preset.Fonts)
	s.state.CurrentPreset = name
	s.state.IsDark = !IsLight(name)
	snapshot := s.state.clone()
	s.mu.Unlock()

	s.log.With("preset", name).Debug("applied theme preset")
	s.publish(snapshot)
	return true
}

// ToggleDarkVariant switches between a preset and its light counterpart.
//
// With no active preset it starts from DefaultBaseName. When the counterpart
// does not exist it picks the first preset (in PresetNames order) on the
// requested side of the light/dark split, which may be unrelated to the
// current one. If there is none the state is unchanged.
func (s *Store) ToggleDarkVariant() {
	s.mu.RLock()
	current := s.state.CurrentPreset
	if current == "" {
		current = DefaultBaseName
	}
	target := Counterpart(current)
	_, ok := s.doc.Presets[target]
	names := s.doc.PresetNames()
	s.mu.RUnlock()

	if !ok {
		wantLight := !IsLight(current)
		target = ""
		for _, name := range names {
			if IsLight(name) == wantLight {
				target = name
				break
			}
		}
	}
	if target == "" {
		s.log.With("preset", current).Warn("no counterpart preset to toggle to")
		return
	}
	s.ApplyPreset(target)
}

// Color returns a resolved color, or "" when absent.
func (s *Store) Color(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Colors[name]
}

// Font returns a resolved font, or "" when absent.
func (s *Store) Font(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Fonts[name]
}

// State returns a snapshot of the active theme.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Document returns a copy of the loaded document.
func (s *Store) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Subscribe registers fn to receive the new state after every change.
func (s *Store) Subscribe(fn func(State)) func() {
	return s.hub.Subscribe(fn)
}

func (s *Store) publish(state State) {
	writeProperties(s.root, state.Colors, state.Fonts)
	s.hub.Publish(state)
}
