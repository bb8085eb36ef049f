// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the home directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{
		"THEMATIC_THEME", "THEMATIC_PRESET", "THEMATIC_CONTENT", "THEMATIC_LANGUAGE",
		"THEMATIC_STYLE", "THEMATIC_BASE_URL", "THEMATIC_QUALITY", "THEMATIC_RATE_MODE",
		"THEMATIC_CLIENT_ID", "THEMATIC_WATCH", "THEMATIC_LOG_LEVEL",
	} {
		t.Setenv(env, "")
	}
	return home
}

// =============================================================================
// LOAD
// =============================================================================

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Content.Language)
	assert.Equal(t, "default", cfg.Content.StyleID)
	assert.Equal(t, "fixed_window", cfg.Guard.Mode)
	assert.Equal(t, 10, cfg.Guard.Limit)
	assert.Equal(t, time.Minute, cfg.GuardWindow())
	assert.Equal(t, time.Hour, cfg.MaxStaleAge())
	assert.Empty(t, cfg.Guard.StableClientID)
}

func TestLoad_TOMLFromHome(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".thematic")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[theme]
path = "themes/site.json"
initial_preset = "ocean"

[content]
language = "es"

[guard]
mode = "token_bucket"
stable_client_id = "kiosk-1"
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "themes/site.json", cfg.Theme.Path)
	assert.Equal(t, "ocean", cfg.Theme.InitialPreset)
	assert.Equal(t, "es", cfg.Content.Language)
	assert.Equal(t, "default", cfg.Content.StyleID, "unset fields keep defaults")
	assert.Equal(t, "token_bucket", cfg.Guard.Mode)
	assert.Equal(t, "kiosk-1", cfg.Guard.StableClientID)
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".thematic")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"content": {"path": "content.yaml", "style_id": "marketing"}}`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "content.yaml", cfg.Content.Path)
	assert.Equal(t, "marketing", cfg.Content.StyleID)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("THEMATIC_LANGUAGE", "fr")
	t.Setenv("THEMATIC_PRESET", "forest-light")
	t.Setenv("THEMATIC_WATCH", "true")
	t.Setenv("THEMATIC_QUALITY", "good")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Content.Language)
	assert.Equal(t, "forest-light", cfg.Theme.InitialPreset)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, "good", cfg.Loader.Quality)
}

func TestLoadFromPath_InvalidValues(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[content]
language = "english"

[guard]
mode = "leaky"
denylist = ["bot", " "]
`), 0o644))

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("content.language"), verrs.Error())
	assert.True(t, verrs.Has("guard.mode"), verrs.Error())
	assert.True(t, verrs.Has("guard.denylist[1]"), verrs.Error())
}

func TestLoadFromPath_Malformed(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[theme\npath ="), 0o644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

// =============================================================================
// VALIDATE
// =============================================================================

func TestValidate_Locations(t *testing.T) {
	tests := []struct {
		path string
		ok   bool
	}{
		{"themes/site.json", true},
		{"/srv/theme.yaml", true},
		{`C:\themes\site.json`, true},
		{"https://cdn.example.com/theme.json", true},
		{"file:///srv/theme.json", true},
		{"https://", false},
		{"ftp://example.com/theme.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			cfg := Default()
			cfg.Theme.Path = tt.path
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

// =============================================================================
// SAVE
// =============================================================================

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	cfg := Default()
	cfg.Theme.Path = "theme.json"
	cfg.Guard.Denylist = []string{"curl"}

	for _, name := range []string{"config.toml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(cfg, path))

			loaded, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

// =============================================================================
// GET / SET
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("content.language", "de"))
	require.NoError(t, cfg.Set("guard.limit", "25"))
	require.NoError(t, cfg.Set("watch.enabled", "yes"))
	require.NoError(t, cfg.Set("guard.denylist", "bot, spider"))
	require.NoError(t, cfg.Set("fetch.max_bytes", 2048))

	v, err := cfg.Get("content.language")
	require.NoError(t, err)
	assert.Equal(t, "de", v)
	assert.Equal(t, 25, cfg.Guard.Limit)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, []string{"bot", "spider"}, cfg.Guard.Denylist)
	assert.EqualValues(t, 2048, cfg.Fetch.MaxBytes)
}

func TestGetSet_Errors(t *testing.T) {
	cfg := Default()

	_, err := cfg.Get("")
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = cfg.Get("theme.nope")
	assert.Error(t, err)

	assert.Error(t, cfg.Set("theme", "x"))
	assert.Error(t, cfg.Set("guard.limit", "many"))
	assert.Error(t, cfg.Set("content.language.extra", "x"))
}

func TestSet_Bool(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"ON", true, false},
		{"1", true, false},
		{"false", false, false},
		{" no ", false, false},
		{"0", false, false},
		{"ture", false, true},
		{"", false, true},
		{"enabled", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := Default()
			cfg.Watch.Enabled = true
			err := cfg.Set("watch.enabled", tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, cfg.Watch.Enabled, "a rejected value must leave the field alone")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Watch.Enabled)
		})
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "theme.path")
	assert.Contains(t, keys, "guard.stable_client_id")
	assert.Contains(t, keys, "version")
	assert.NotContains(t, keys, "theme")
}

func TestClone(t *testing.T) {
	cfg := Default()
	cfg.Guard.Denylist = []string{"bot"}

	cp := cfg.Clone()
	cp.Guard.Denylist[0] = "changed"
	cp.Content.Language = "xx"

	assert.Equal(t, "bot", cfg.Guard.Denylist[0])
	assert.Equal(t, "en", cfg.Content.Language)
}
