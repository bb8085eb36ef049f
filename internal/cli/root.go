// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/thematic/internal/config"
	"github.com/jeranaias/thematic/internal/logging"
	"github.com/jeranaias/thematic/internal/provider"
	"github.com/jeranaias/thematic/internal/theme"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath  string
	themePath   string
	contentPath string
	preset      string
	language    string
	style       string
	logLevel    string
	jsonOutput  bool

	// prefersLight replaces the terminal background query in tests.
	prefersLight func() bool
}

// NewRootCmd builds the thematic command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thematic",
		Short: "Preview themes and localized content",
		Long: "thematic loads a theme document and a content document, " +
			"and previews presets, CSS custom properties, languages and smart loads.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a TOML or JSON config file")
	flags.StringVar(&opts.themePath, "theme", "", "theme document path or URL")
	flags.StringVar(&opts.contentPath, "content", "", "content document path or URL")
	flags.StringVarP(&opts.preset, "preset", "p", "", "preset to apply after loading")
	flags.StringVarP(&opts.language, "lang", "l", "", "active content language")
	flags.StringVar(&opts.style, "style", "", "active content style")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	cmd.AddCommand(
		newThemesCmd(opts),
		newCSSCmd(opts),
		newContentCmd(opts),
		newLoadCmd(opts),
		newWatchCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, RenderConditional(ErrorStyle, "Error:"), err)
		return 1
	}
	return 0
}

// =============================================================================
// PROVIDER SETUP
// =============================================================================

// loadConfig reads the config file and layers the flags on top.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{o.themePath, &cfg.Theme.Path},
		{o.contentPath, &cfg.Content.Path},
		{o.preset, &cfg.Theme.InitialPreset},
		{o.language, &cfg.Content.Language},
		{o.style, &cfg.Content.StyleID},
		{o.logLevel, &cfg.Logging.Level},
	}
	changed := false
	for _, ov := range overrides {
		if ov.flag != "" {
			*ov.dst = ov.flag
			changed = true
		}
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// startProvider builds and starts a provider. Logs go to the command's
// stderr. root may be nil.
func (o *rootOptions) startProvider(cmd *cobra.Command, root theme.StyleRoot) (*provider.Provider, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(logging.Options{
		Level:         cfg.Logging.Level,
		HumanReadable: cfg.Logging.HumanReadable || isTerminal(cmd.ErrOrStderr()),
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	p, err := provider.New(provider.Options{
		Config:       cfg,
		Logger:       log,
		Root:         root,
		PrefersLight: o.prefersLight,
	})
	if err != nil {
		return nil, err
	}
	p.Start(cmd.Context())
	return p, nil
}
