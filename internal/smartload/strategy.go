// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package smartload

import (
	"context"
	"maps"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/thematic/internal/fetch"
	"github.com/jeranaias/thematic/internal/netprobe"
)

// Endpoints are location templates. "{type}" is replaced with the path
// escaped content type. Relative templates are joined to BaseURL.
type Endpoints struct {
	BaseURL    string
	Public     string
	Private    string
	Essential  string
	Additional string
	Minimal    string
}

// DefaultEndpoints is used for every empty template.
var DefaultEndpoints = Endpoints{
	Public:     "/api/content/{type}",
	Private:    "/api/content/{type}/private",
	Essential:  "/api/content/{type}/essential",
	Additional: "/api/content/{type}/additional",
	Minimal:    "/api/content/minimal",
}

func (e Endpoints) withDefaults() Endpoints {
	def := DefaultEndpoints
	if e.Public == "" {
		e.Public = def.Public
	}
	if e.Private == "" {
		e.Private = def.Private
	}
	if e.Essential == "" {
		e.Essential = def.Essential
	}
	if e.Additional == "" {
		e.Additional = def.Additional
	}
	if e.Minimal == "" {
		e.Minimal = def.Minimal
	}
	return e
}

// Resolve expands a template for a content type.
func (e Endpoints) Resolve(tpl, contentType string) string {
	loc := strings.ReplaceAll(tpl, "{type}", url.PathEscape(contentType))
	if e.BaseURL == "" || strings.Contains(loc, "://") {
		return loc
	}
	return strings.TrimRight(e.BaseURL, "/") + "/" + strings.TrimLeft(loc, "/")
}

func (l *Loader) fetchByQuality(ctx context.Context, q netprobe.Quality, req Request) (map[string]any, Strategy, error) {
	switch q {
	case netprobe.Excellent:
		data, err := l.fetchParallel(ctx, req)
		return data, StrategyParallel, err
	case netprobe.Good:
		data, err := l.fetchSequential(ctx, req)
		return data, StrategySequential, err
	default:
		data, err := l.fetchProgressive(ctx, req)
		return data, StrategyProgressive, err
	}
}

func (l *Loader) fetchParallel(ctx context.Context, req Request) (map[string]any, error) {
	var public, private map[string]any

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		public, err = l.fetchOne(gctx, l.endpoints.Public, req)
		return err
	})
	g.Go(func() error {
		var err error
		private, err = l.fetchOne(gctx, l.endpoints.Private, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mergePayloads(public, private), nil
}

func (l *Loader) fetchSequential(ctx context.Context, req Request) (map[string]any, error) {
	public, err := l.fetchOne(ctx, l.endpoints.Public, req)
	if err != nil {
		return nil, err
	}
	private, err := l.fetchOne(ctx, l.endpoints.Private, req)
	if err != nil {
		return nil, err
	}
	return mergePayloads(public, private), nil
}

func (l *Loader) fetchProgressive(ctx context.Context, req Request) (map[string]any, error) {
	essential, err := l.fetchOne(ctx, l.endpoints.Essential, req)
	if err != nil {
		return nil, err
	}
	additional, err := l.fetchOne(ctx, l.endpoints.Additional, req)
	if err != nil {
		l.log.WithFields(map[string]any{
			"content_type": req.ContentType,
			"error":        err.Error(),
		}).Debug("additional payload skipped")
		return essential, nil
	}
	return mergePayloads(essential, additional), nil
}

func (l *Loader) fetchOne(ctx context.Context, tpl string, req Request) (map[string]any, error) {
	loc := l.endpoints.Resolve(tpl, req.ContentType)

	var opts []fetch.Option
	if req.Token != "" {
		opts = append(opts, fetch.WithToken(req.Token))
	}
	if req.UserAgent != "" {
		opts = append(opts, fetch.WithHeader("X-Forwarded-User-Agent", req.UserAgent))
	}

	raw, err := l.fetcher.Fetch(ctx, loc, opts...)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := fetch.Decode(loc, raw, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func mergePayloads(payloads ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, p := range payloads {
		maps.Copy(out, p)
	}
	return out
}
