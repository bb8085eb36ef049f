// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/thematic/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete thematic configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Theme   ThemeConfig   `toml:"theme" json:"theme"`
	Content ContentConfig `toml:"content" json:"content"`
	Loader  LoaderConfig  `toml:"loader" json:"loader"`
	Guard   GuardConfig   `toml:"guard" json:"guard"`
	Fetch   FetchConfig   `toml:"fetch" json:"fetch"`
	Watch   WatchConfig   `toml:"watch" json:"watch"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// ThemeConfig locates the theme document.
type ThemeConfig struct {
	// Path is a file path or http(s) URL. Empty uses the built-in fallback.
	Path string `toml:"path" json:"path" validate:"omitempty,location"`
	// InitialPreset is applied after the first load. Empty applies none.
	InitialPreset string `toml:"initial_preset" json:"initial_preset"`
	// FollowTerminal starts on the -light variant when the terminal has a
	// light background.
	FollowTerminal bool `toml:"follow_terminal" json:"follow_terminal"`
}

// ContentConfig locates the content document and the initial selection.
type ContentConfig struct {
	Path     string `toml:"path" json:"path" validate:"omitempty,location"`
	Language string `toml:"language" json:"language" validate:"required,language_code"`
	StyleID  string `toml:"style_id" json:"style_id" validate:"required"`
}

// LoaderConfig configures the smart content loader.
type LoaderConfig struct {
	BaseURL string `toml:"base_url" json:"base_url" validate:"omitempty,location"`
	// Endpoint templates; "{type}" is replaced with the content type.
	PublicPath     string `toml:"public_path" json:"public_path"`
	PrivatePath    string `toml:"private_path" json:"private_path"`
	EssentialPath  string `toml:"essential_path" json:"essential_path"`
	AdditionalPath string `toml:"additional_path" json:"additional_path"`
	MinimalPath    string `toml:"minimal_path" json:"minimal_path"`

	// ProbeURL is downloaded to measure bandwidth. Empty reports poor quality.
	ProbeURL         string `toml:"probe_url" json:"probe_url" validate:"omitempty,url"`
	PingURL          string `toml:"ping_url" json:"ping_url" validate:"omitempty,url"`
	ProbeTimeoutSecs int    `toml:"probe_timeout_secs" json:"probe_timeout_secs" validate:"min=1,max=60"`
	// Quality pins the network tier and skips probing when set.
	Quality string `toml:"quality" json:"quality" validate:"omitempty,oneof=excellent good poor"`

	MaxStaleMinutes int `toml:"max_stale_minutes" json:"max_stale_minutes" validate:"min=1"`

	SEO      bool   `toml:"seo" json:"seo"`
	SiteName string `toml:"site_name" json:"site_name"`
	Locale   string `toml:"locale" json:"locale"`
}

// GuardConfig configures request screening.
type GuardConfig struct {
	Mode       string `toml:"mode" json:"mode" validate:"oneof=fixed_window token_bucket"`
	Limit      int    `toml:"limit" json:"limit" validate:"min=1"`
	WindowSecs int    `toml:"window_secs" json:"window_secs" validate:"min=1"`
	// StableClientID enables effective rate limiting. Empty keeps the
	// per-request random id.
	StableClientID string   `toml:"stable_client_id" json:"stable_client_id"`
	Denylist       []string `toml:"denylist" json:"denylist"`
}

// FetchConfig configures document and payload fetching.
type FetchConfig struct {
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs" validate:"min=1,max=300"`
	MaxBytes    int64  `toml:"max_bytes" json:"max_bytes" validate:"min=0"`
	UserAgent   string `toml:"user_agent" json:"user_agent"`
}

// WatchConfig configures reload on file change.
type WatchConfig struct {
	Enabled        bool `toml:"enabled" json:"enabled"`
	DebounceMillis int  `toml:"debounce_millis" json:"debounce_millis" validate:"min=0,max=10000"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level         string `toml:"level" json:"level" validate:"oneof=debug info warn error"`
	HumanReadable bool   `toml:"human_readable" json:"human_readable"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Content: ContentConfig{
			Language: "en",
			StyleID:  "default",
		},
		Loader: LoaderConfig{
			PublicPath:       "/api/content/{type}",
			PrivatePath:      "/api/content/{type}/private",
			EssentialPath:    "/api/content/{type}/essential",
			AdditionalPath:   "/api/content/{type}/additional",
			MinimalPath:      "/api/content/minimal",
			ProbeTimeoutSecs: 5,
			MaxStaleMinutes:  60,
			SEO:              true,
		},
		Guard: GuardConfig{
			Mode:       "fixed_window",
			Limit:      10,
			WindowSecs: 60,
		},
		Fetch: FetchConfig{
			TimeoutSecs: 30,
			MaxBytes:    10 * 1024 * 1024,
		},
		Watch: WatchConfig{
			DebounceMillis: 200,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// FetchTimeout returns Fetch.TimeoutSecs as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSecs) * time.Second
}

// ProbeTimeout returns Loader.ProbeTimeoutSecs as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Loader.ProbeTimeoutSecs) * time.Second
}

// MaxStaleAge returns Loader.MaxStaleMinutes as a duration.
func (c *Config) MaxStaleAge() time.Duration {
	return time.Duration(c.Loader.MaxStaleMinutes) * time.Minute
}

// GuardWindow returns Guard.WindowSecs as a duration.
func (c *Config) GuardWindow() time.Duration {
	return time.Duration(c.Guard.WindowSecs) * time.Second
}

// WatchDebounce returns Watch.DebounceMillis as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMillis) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the thematic configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".thematic"), nil
}

// PathTOML returns the path to the TOML config file.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the path to the JSON config file.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default locations.
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){PathTOML, PathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}
	return finish(Default())
}

// LoadFromPath loads configuration from a specific file. Files ending in
// .json are JSON; anything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to load JSON config from %s: %w", path, err)
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills zero-value fields from Default.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Content.Language == "" {
		c.Content.Language = d.Content.Language
	}
	if c.Content.StyleID == "" {
		c.Content.StyleID = d.Content.StyleID
	}
	if c.Loader.PublicPath == "" {
		c.Loader.PublicPath = d.Loader.PublicPath
	}
	if c.Loader.PrivatePath == "" {
		c.Loader.PrivatePath = d.Loader.PrivatePath
	}
	if c.Loader.EssentialPath == "" {
		c.Loader.EssentialPath = d.Loader.EssentialPath
	}
	if c.Loader.AdditionalPath == "" {
		c.Loader.AdditionalPath = d.Loader.AdditionalPath
	}
	if c.Loader.MinimalPath == "" {
		c.Loader.MinimalPath = d.Loader.MinimalPath
	}
	if c.Loader.ProbeTimeoutSecs == 0 {
		c.Loader.ProbeTimeoutSecs = d.Loader.ProbeTimeoutSecs
	}
	if c.Loader.MaxStaleMinutes == 0 {
		c.Loader.MaxStaleMinutes = d.Loader.MaxStaleMinutes
	}
	if c.Guard.Mode == "" {
		c.Guard.Mode = d.Guard.Mode
	}
	if c.Guard.Limit == 0 {
		c.Guard.Limit = d.Guard.Limit
	}
	if c.Guard.WindowSecs == 0 {
		c.Guard.WindowSecs = d.Guard.WindowSecs
	}
	if c.Fetch.TimeoutSecs == 0 {
		c.Fetch.TimeoutSecs = d.Fetch.TimeoutSecs
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path as TOML, or JSON when path ends in .json.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	} else {
		buf.WriteString("# thematic configuration file\n\n")
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - THEMATIC_THEME: overrides theme.path
//   - THEMATIC_PRESET: overrides theme.initial_preset
//   - THEMATIC_CONTENT: overrides content.path
//   - THEMATIC_LANGUAGE: overrides content.language
//   - THEMATIC_STYLE: overrides content.style_id
//   - THEMATIC_BASE_URL: overrides loader.base_url
//   - THEMATIC_QUALITY: overrides loader.quality
//   - THEMATIC_RATE_MODE: overrides guard.mode
//   - THEMATIC_CLIENT_ID: overrides guard.stable_client_id
//   - THEMATIC_WATCH: set to "1" or "true" to enable watch.enabled
//   - THEMATIC_LOG_LEVEL: overrides logging.level
func (c *Config) ApplyEnvOverrides() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"THEMATIC_THEME", &c.Theme.Path},
		{"THEMATIC_PRESET", &c.Theme.InitialPreset},
		{"THEMATIC_CONTENT", &c.Content.Path},
		{"THEMATIC_LANGUAGE", &c.Content.Language},
		{"THEMATIC_STYLE", &c.Content.StyleID},
		{"THEMATIC_BASE_URL", &c.Loader.BaseURL},
		{"THEMATIC_QUALITY", &c.Loader.Quality},
		{"THEMATIC_RATE_MODE", &c.Guard.Mode},
		{"THEMATIC_CLIENT_ID", &c.Guard.StableClientID},
		{"THEMATIC_LOG_LEVEL", &c.Logging.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	if watch := os.Getenv("THEMATIC_WATCH"); watch != "" {
		c.Watch.Enabled = parseBool(watch)
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Guard.Denylist != nil {
		cp.Guard.Denylist = append([]string(nil), c.Guard.Denylist...)
	}
	return &cp
}

// String renders the config as TOML for display.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}

// ErrEmptyKey is returned by Get and Set for an empty key.
var ErrEmptyKey = errors.New("empty key")
