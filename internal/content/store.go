// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/jeranaias/thematic/internal/fetch"
	"github.com/jeranaias/thematic/internal/logging"
	"github.com/jeranaias/thematic/internal/util"
)

// ErrNoSource is logged when Load is called with an empty Source.
var ErrNoSource = errors.New("content source has neither a location nor a document")

// DefaultLanguage is the initial language of a new store.
const DefaultLanguage = "en"

// State is the active language and content style.
type State struct {
	Language string
	StyleID  string
}

// Source names where a content document comes from.
type Source struct {
	Location string
	Data     map[string]any
}

// FromLocation returns a Source that fetches location.
func FromLocation(location string) Source {
	return Source{Location: location}
}

// FromData returns a Source that passes data through without fetching.
func FromData(data map[string]any) Source {
	return Source{Data: data}
}

// LoadOptions optionally set the active language and style after a load.
// Empty fields leave the current value alone.
type LoadOptions struct {
	Language string
	StyleID  string
}

// Options configures a Store.
type Options struct {
	Fetcher  fetch.Fetcher
	Logger   *logging.Logger
	Language string
	StyleID  string
}

// Store owns a content document and the active language/style.
type Store struct {
	fetcher fetch.Fetcher
	log     *logging.Logger

	mu       sync.RWMutex
	doc      Document
	styles   []StylePreset
	state    State
	source   Source
	loadOpts LoadOptions

	hub util.Hub[State]
}

// NewStore creates an empty Store.
func NewStore(opts Options) *Store {
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.New(fetch.Options{Logger: opts.Logger})
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.StyleID == "" {
		opts.StyleID = DefaultStyleID
	}
	return &Store{
		fetcher: opts.Fetcher,
		log:     opts.Logger.Component("content"),
		doc:     NewDocument(nil),
		styles:  BuiltinStyles(),
		state:   State{Language: opts.Language, StyleID: opts.StyleID},
	}
}

// Load fetches and installs a content document. Failures are logged and an
// empty document is installed; Load never fails.
func (s *Store) Load(ctx context.Context, src Source, opts LoadOptions) Document {
	doc, err := s.resolve(ctx, src)
	if err != nil {
		s.log.With("location", src.Location).WarnErr(err, "content load failed, using empty content")
		doc = NewDocument(nil)
	}
	styles := append(BuiltinStyles(), doc.CustomStyles()...)

	s.mu.Lock()
	s.doc = doc
	s.styles = styles
	s.source = src
	s.loadOpts = opts
	if opts.Language != "" {
		s.state.Language = opts.Language
	}
	if opts.StyleID != "" {
		if _, ok := findStyle(styles, opts.StyleID); ok {
			s.state.StyleID = opts.StyleID
		} else {
			s.log.With("style", opts.StyleID).Warn("unknown content style in load options, ignoring")
		}
	}
	state := s.state
	s.mu.Unlock()

	s.hub.Publish(state)
	return doc
}

// Reload re-runs Load with the original source and options. Overlapping
// reloads are independent fetches and the last one to finish wins.
func (s *Store) Reload(ctx context.Context) {
	s.mu.RLock()
	src, opts := s.source, s.loadOpts
	s.mu.RUnlock()
	s.Load(ctx, src, opts)
}

func (s *Store) resolve(ctx context.Context, src Source) (Document, error) {
	if src.Data != nil {
		return NewDocument(maps.Clone(src.Data)), nil
	}
	if src.Location == "" {
		return Document{}, ErrNoSource
	}

	data, err := s.fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return Document{}, err
	}
	var raw map[string]any
	if err := fetch.Decode(src.Location, data, &raw); err != nil {
		return Document{}, err
	}
	if raw == nil {
		return Document{}, fmt.Errorf("content %s: document is not an object", src.Location)
	}

	doc := NewDocument(raw)
	if doc.Order, err = fetch.KeyOrder(src.Location, data); err != nil {
		s.log.WarnErr(err, "could not read content key order")
	}
	if doc.StyleOrder, err = fetch.KeyOrder(src.Location, data, StylesKey); err != nil {
		s.log.WarnErr(err, "could not read content style order")
	}
	return doc, nil
}

// Section returns the named section for the current language, falling back
// to a top-level section of the same name.
func (s *Store) Section(name string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if lang, ok := s.doc.Object(s.state.Language); ok {
		if section, ok := lang[name].(map[string]any); ok {
			return section, true
		}
	}
	if section, ok := s.doc.Object(name); ok {
		return section, true
	}
	return nil, false
}

// Text returns a string field of a section, or "" when absent.
func (s *Store) Text(section, field string) string {
	sec, ok := s.Section(section)
	if !ok {
		return ""
	}
	if v, ok := sec[field].(string); ok {
		return v
	}
	return ""
}

// SetLanguage switches the active language unconditionally.
func (s *Store) SetLanguage(code string) {
	s.mu.Lock()
	s.state.Language = code
	state := s.state
	s.mu.Unlock()

	s.hub.Publish(state)
}

// SetContentStyle switches the active content style. Unknown ids are logged
// and ignored. It reports whether the style was accepted.
func (s *Store) SetContentStyle(id string) bool {
	s.mu.Lock()
	if _, ok := findStyle(s.styles, id); !ok {
		s.mu.Unlock()
		s.log.With("style", id).Warn("unknown content style, ignoring")
		return false
	}
	s.state.StyleID = id
	state := s.state
	s.mu.Unlock()

	s.hub.Publish(state)
	return true
}

// State returns the active language and style.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Styles returns built-in styles followed by custom ones.
func (s *Store) Styles() []StylePreset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]StylePreset(nil), s.styles...)
}

// Style looks up a style by id; the first match wins.
func (s *Store) Style(id string) (StylePreset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findStyle(s.styles, id)
}

// CurrentStyle returns the active style preset.
func (s *Store) CurrentStyle() StylePreset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	style, _ := findStyle(s.styles, s.state.StyleID)
	return style
}

// Document returns the loaded document. The data map is shared; callers
// must not modify it.
func (s *Store) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Subscribe registers fn to receive the state after every change.
func (s *Store) Subscribe(fn func(State)) func() {
	return s.hub.Subscribe(fn)
}
