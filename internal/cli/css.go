// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/thematic/internal/theme"
)

type cssOptions struct {
	toggle bool
}

type cssData struct {
	Preset     string            `json:"preset"`
	IsDark     bool              `json:"is_dark"`
	Properties map[string]string `json:"properties"`
	CSS        string            `json:"css"`
}

func newCSSCmd(opts *rootOptions) *cobra.Command {
	cssOpts := &cssOptions{}
	cmd := &cobra.Command{
		Use:   "css [preset]",
		Short: "Print the CSS custom properties for a preset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := theme.NewRoot()
			p, err := opts.startProvider(cmd, root)
			if err != nil {
				return err
			}
			defer p.Close()

			if len(args) == 1 && !p.ApplyPreset(args[0]) {
				err := fmt.Errorf("unknown preset %q", args[0])
				if opts.jsonOutput {
					return writeJSON(cmd.OutOrStdout(), "css", nil, err)
				}
				return err
			}
			if cssOpts.toggle {
				p.ToggleDarkVariant()
			}

			state := p.Themes().State()
			data := cssData{
				Preset:     state.CurrentPreset,
				IsDark:     state.IsDark,
				Properties: root.Properties(),
				CSS:        root.CSS(),
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), "css", data, nil)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), data.CSS)
			return err
		},
	}
	cmd.Flags().BoolVarP(&cssOpts.toggle, "toggle", "t", false, "toggle to the dark or light counterpart first")
	return cmd
}
