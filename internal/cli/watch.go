// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/thematic/internal/provider"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload the theme and content documents when they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.startProvider(cmd, nil)
			if err != nil {
				return err
			}
			defer p.Close()

			out := cmd.OutOrStdout()
			printSnapshot(out, p.Snapshot())
			unsub := p.Subscribe(func(s provider.Snapshot) { printSnapshot(out, s) })
			defer unsub()

			err = p.Watch(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func printSnapshot(w io.Writer, s provider.Snapshot) {
	preset := s.Theme.CurrentPreset
	if preset == "" {
		preset = "(none)"
	}
	mode := "dark"
	if !s.Theme.IsDark {
		mode = "light"
	}
	fmt.Fprintf(w, "%s preset=%s mode=%s primary=%s language=%s style=%s\n",
		DimStyle.Render("update"),
		preset, mode, s.Theme.Colors["primary"],
		s.Content.Language, s.Content.StyleID)
}
