// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/thematic/internal/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}
	cmd.AddCommand(
		newConfigShowCmd(opts),
		newConfigGetCmd(opts),
		newConfigSetCmd(opts),
		newConfigKeysCmd(opts),
		newConfigPathCmd(opts),
	)
	return cmd
}

// configFile is the file config set writes to.
func (o *rootOptions) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.PathTOML()
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), "config show", cfg, err)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), cfg.String())
			return err
		},
	}
}

func newConfigGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			var value any
			if err == nil {
				value, err = cfg.Get(args[0])
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), "config get", map[string]any{"key": args[0], "value": value}, err)
			}
			if err != nil {
				return err
			}
			if list, ok := value.([]string); ok {
				value = strings.Join(list, ",")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), value)
			return err
		},
	}
}

func newConfigSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value and save the file",
		Long: "set edits the configuration file directly. Environment overrides " +
			"are not applied, so they are never written back.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.configFile()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if strings.HasSuffix(strings.ToLower(path), ".json") {
				err = config.LoadJSON(cfg, path)
			} else {
				err = config.LoadTOML(cfg, path)
			}
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}

			if opts.jsonOutput {
				value, _ := cfg.Get(args[0])
				return writeJSON(cmd.OutOrStdout(), "config set", map[string]any{"key": args[0], "value": value, "path": path}, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s\n", SuccessStyle.Render("saved"), args[0], args[1])
			fmt.Fprintln(cmd.OutOrStdout(), DimStyle.Render(path))
			return nil
		},
	}
}

func newConfigKeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := config.Keys()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), "config keys", keys, nil)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(keys, "\n"))
			return err
		},
	}
}

func newConfigPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.configFile()
			if err != nil {
				return err
			}
			_, statErr := os.Stat(path)
			exists := statErr == nil
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), "config path", map[string]any{"path": path, "exists": exists}, nil)
			}
			if !exists {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", path, DimStyle.Render("(not created yet)"))
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}
