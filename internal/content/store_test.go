// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/thematic/internal/fetch"
)

const sampleContent = `{
  "es": {"hero": {"title": "Hola"}},
  "en": {"hero": {"title": "Hello"}, "about": {"body": "About us"}},
  "footer": {"copyright": "2025"},
  "styles": {
    "minimal": {"name": "Minimal", "description": "Just the hero", "sections": ["hero"], "metadata": {"grid": 1}},
    "default": {"name": "Shadowed default"}
  }
}`

func writeContent(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func loadedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(Options{})
	s.Load(context.Background(), FromLocation(writeContent(t, sampleContent)), LoadOptions{})
	return s
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoad_FailureYieldsEmptyDocument(t *testing.T) {
	s := NewStore(Options{})
	doc := s.Load(context.Background(), FromLocation(filepath.Join(t.TempDir(), "missing.json")), LoadOptions{})

	assert.Empty(t, doc.Data)
	_, ok := s.Section("hero")
	assert.False(t, ok)
	assert.Len(t, s.Styles(), len(BuiltinStyles()))
}

func TestLoad_NonObjectDocumentFails(t *testing.T) {
	s := NewStore(Options{})
	doc := s.Load(context.Background(), FromLocation(writeContent(t, `null`)), LoadOptions{})
	assert.Empty(t, doc.Data)
}

func TestLoad_RecordsKeyOrder(t *testing.T) {
	s := loadedStore(t)
	doc := s.Document()
	assert.Equal(t, []string{"es", "en", "footer", "styles"}, doc.Keys())
}

func TestLoad_OptionsSetState(t *testing.T) {
	s := NewStore(Options{})
	s.Load(context.Background(), FromLocation(writeContent(t, sampleContent)), LoadOptions{Language: "es", StyleID: "minimal"})

	assert.Equal(t, State{Language: "es", StyleID: "minimal"}, s.State())
	assert.Equal(t, "Hola", s.Text("hero", "title"))
}

func TestLoad_InvalidStyleOptionIgnored(t *testing.T) {
	s := NewStore(Options{})
	s.Load(context.Background(), FromData(map[string]any{}), LoadOptions{StyleID: "nope"})
	assert.Equal(t, DefaultStyleID, s.State().StyleID)
}

// =============================================================================
// SECTIONS
// =============================================================================

func TestSection_LanguageFirstThenTopLevel(t *testing.T) {
	s := loadedStore(t)

	hero, ok := s.Section("hero")
	require.True(t, ok)
	assert.Equal(t, "Hello", hero["title"])

	footer, ok := s.Section("footer")
	require.True(t, ok, "top-level sections are a fallback")
	assert.Equal(t, "2025", footer["copyright"])

	_, ok = s.Section("pricing")
	assert.False(t, ok)
}

func TestSection_FollowsLanguage(t *testing.T) {
	s := loadedStore(t)
	s.SetLanguage("es")
	assert.Equal(t, "Hola", s.Text("hero", "title"))

	// Spanish has no about section and there is no top-level one.
	_, ok := s.Section("about")
	assert.False(t, ok)
}

func TestSetLanguage_Unconditional(t *testing.T) {
	s := loadedStore(t)
	s.SetLanguage("zz")
	assert.Equal(t, "zz", s.State().Language)
	assert.Equal(t, "", s.Text("hero", "title"))
}

// =============================================================================
// STYLES
// =============================================================================

func TestStyles_BuiltinsThenCustom(t *testing.T) {
	s := loadedStore(t)
	styles := s.Styles()

	ids := make([]string, 0, len(styles))
	for _, st := range styles {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []string{"default", "marketing", "portfolio", "business", "minimal", "default"}, ids)

	minimal, ok := s.Style("minimal")
	require.True(t, ok)
	assert.Equal(t, []string{"hero"}, minimal.Sections)
	assert.Equal(t, float64(1), minimal.Metadata["grid"])

	// Duplicate ids are kept but the built-in shadows the custom one.
	def, _ := s.Style("default")
	assert.Equal(t, "Default", def.Name)
}

func TestSetContentStyle_InvalidRejected(t *testing.T) {
	s := loadedStore(t)
	require.True(t, s.SetContentStyle("marketing"))

	assert.NotPanics(t, func() {
		assert.False(t, s.SetContentStyle("doesnotexist"))
	})
	assert.Equal(t, "marketing", s.State().StyleID)
	assert.Equal(t, "Marketing", s.CurrentStyle().Name)
}

func TestSetContentStyle_Custom(t *testing.T) {
	s := loadedStore(t)
	assert.True(t, s.SetContentStyle("minimal"))
	assert.Equal(t, "Minimal", s.CurrentStyle().Name)
}

// =============================================================================
// RELOAD
// =============================================================================

func TestReload_ReplacesState(t *testing.T) {
	path := writeContent(t, `{"en": {"hero": {"title": "v1"}}}`)
	s := NewStore(Options{})
	s.Load(context.Background(), FromLocation(path), LoadOptions{})
	require.Equal(t, "v1", s.Text("hero", "title"))

	require.NoError(t, os.WriteFile(path, []byte(`{"en": {"hero": {"title": "v2"}}}`), 0644))
	s.Reload(context.Background())
	assert.Equal(t, "v2", s.Text("hero", "title"))
}

func TestReload_LastResponseWins(t *testing.T) {
	// The first fetch is held until the second has completed, so the older
	// request finishes last and its payload ends up installed.
	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})
	var calls atomic.Int32
	fetcher := fetch.Func(func(ctx context.Context, location string, opts ...fetch.Option) ([]byte, error) {
		switch calls.Add(1) {
		case 1:
			return []byte(`{"en": {"hero": {"title": "initial"}}}`), nil
		case 2:
			close(firstStarted)
			<-releaseFirst
			return []byte(`{"en": {"hero": {"title": "first reload"}}}`), nil
		default:
			return []byte(`{"en": {"hero": {"title": "second reload"}}}`), nil
		}
	})

	s := NewStore(Options{Fetcher: fetcher})
	s.Load(context.Background(), FromLocation("content.json"), LoadOptions{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Reload(context.Background())
	}()
	<-firstStarted
	s.Reload(context.Background())
	assert.Equal(t, "second reload", s.Text("hero", "title"))

	close(releaseFirst)
	wg.Wait()
	assert.Equal(t, "first reload", s.Text("hero", "title"))
}

func TestReload_FailureEmptiesDocument(t *testing.T) {
	fail := false
	fetcher := fetch.Func(func(ctx context.Context, location string, opts ...fetch.Option) ([]byte, error) {
		if fail {
			return nil, errors.New("offline")
		}
		return []byte(`{"en": {"hero": {}}}`), nil
	})
	s := NewStore(Options{Fetcher: fetcher})
	s.Load(context.Background(), FromLocation("content.json"), LoadOptions{})

	fail = true
	s.Reload(context.Background())
	_, ok := s.Section("hero")
	assert.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	s := loadedStore(t)
	var got []State
	s.Subscribe(func(st State) { got = append(got, st) })

	s.SetLanguage("es")
	s.SetContentStyle("nope")
	s.SetContentStyle("business")

	assert.Equal(t, []State{{"es", "default"}, {"es", "business"}}, got)
}
