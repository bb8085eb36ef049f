// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/thematic/internal/smartload"
)

type loadOptions struct {
	userAgent string
	token     string
	clientID  string
	refresh   bool
	count     int
	trace     bool
	seoHTML   bool
}

type loadData struct {
	ContentType string         `json:"content_type"`
	CacheStatus string         `json:"cache_status"`
	Quality     string         `json:"quality"`
	Strategy    string         `json:"strategy,omitempty"`
	ETag        string         `json:"etag,omitempty"`
	Data        map[string]any `json:"data"`
	Trace       []string       `json:"trace"`
	MetaHTML    string         `json:"meta_html,omitempty"`
	Cause       string         `json:"cause,omitempty"`
}

func newLoadCmd(opts *rootOptions) *cobra.Command {
	loadOpts := &loadOptions{}
	cmd := &cobra.Command{
		Use:   "load <content-type>",
		Short: "Run the smart content loader",
		Long: "load assesses the network, consults the cache, fetches content with " +
			"the strategy for the measured quality, and falls back to stale or " +
			"minimal content when fetching fails.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if loadOpts.count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			p, err := opts.startProvider(cmd, nil)
			if err != nil {
				return err
			}
			defer p.Close()

			req := smartload.Request{
				ContentType: args[0],
				UserAgent:   loadOpts.userAgent,
				Token:       loadOpts.token,
				ClientID:    loadOpts.clientID,
			}

			var results []loadData
			for i := 0; i < loadOpts.count; i++ {
				var res smartload.Result
				if loadOpts.refresh {
					res, err = p.Loader().Refresh(cmd.Context(), req)
				} else {
					res, err = p.LoadContent(cmd.Context(), req)
				}
				if err != nil {
					break
				}
				data, convErr := newLoadData(res, loadOpts.seoHTML)
				if convErr != nil {
					err = convErr
					break
				}
				results = append(results, data)
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, "load", results, err)
			}
			for _, r := range results {
				if err := renderLoad(out, r, loadOpts.trace); err != nil {
					return err
				}
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&loadOpts.userAgent, "user-agent", "", "user agent presented to the request guard")
	flags.StringVar(&loadOpts.token, "token", "", "bearer token forwarded to the content API")
	flags.StringVar(&loadOpts.clientID, "client-id", "", "client id for rate limiting")
	flags.BoolVar(&loadOpts.refresh, "refresh", false, "bypass the cache")
	flags.IntVarP(&loadOpts.count, "count", "n", 1, "number of consecutive loads")
	flags.BoolVar(&loadOpts.trace, "trace", false, "print the state transitions")
	flags.BoolVar(&loadOpts.seoHTML, "meta", false, "print the generated SEO meta tags")
	return cmd
}

func newLoadData(res smartload.Result, withHTML bool) (loadData, error) {
	data := loadData{
		ContentType: res.ContentType,
		CacheStatus: string(res.CacheStatus),
		Quality:     res.Quality.String(),
		Strategy:    string(res.Strategy),
		ETag:        res.ETag,
		Data:        res.Data,
	}
	for _, s := range res.Trace {
		data.Trace = append(data.Trace, s.String())
	}
	if res.Cause != nil {
		data.Cause = res.Cause.Error()
	}
	if withHTML && res.Metadata != nil {
		html, err := res.Metadata.HTML()
		if err != nil {
			return loadData{}, fmt.Errorf("render meta tags: %w", err)
		}
		data.MetaHTML = html
	}
	return data, nil
}

func renderLoad(w io.Writer, r loadData, withTrace bool) error {
	fmt.Fprintln(w, TitleStyle.Render("Load "+r.ContentType))
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Cache"), RenderStatus(r.CacheStatus))
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Quality"), r.Quality)
	if r.Strategy != "" {
		fmt.Fprintf(w, "%s%s\n", RenderLabel("Strategy"), r.Strategy)
	}
	if r.ETag != "" {
		fmt.Fprintf(w, "%s%s\n", RenderLabel("ETag"), DimStyle.Render(r.ETag))
	}
	if r.Cause != "" {
		fmt.Fprintf(w, "%s%s\n", RenderLabel("Cause"), WarningStyle.Render(r.Cause))
	}
	if withTrace {
		fmt.Fprintf(w, "%s%s\n", RenderLabel("Trace"), strings.Join(r.Trace, " -> "))
	}

	body, err := json.MarshalIndent(r.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	fmt.Fprintln(w, string(body))
	if r.MetaHTML != "" {
		fmt.Fprintln(w, r.MetaHTML)
	}
	return nil
}
