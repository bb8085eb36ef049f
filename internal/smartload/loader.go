// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package smartload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/thematic/internal/cache"
	"github.com/jeranaias/thematic/internal/fetch"
	"github.com/jeranaias/thematic/internal/guard"
	"github.com/jeranaias/thematic/internal/logging"
	"github.com/jeranaias/thematic/internal/netprobe"
	"github.com/jeranaias/thematic/internal/seo"
)

// ErrNoContentType is reported when a request has no content type.
var ErrNoContentType = errors.New("smartload: content type is required")

// =============================================================================
// TYPES
// =============================================================================

// Options configures a Loader. Nil collaborators get defaults.
type Options struct {
	Fetcher   fetch.Fetcher
	Assessor  netprobe.Assessor
	Cache     *cache.Cache
	Gate      *guard.Gate
	Endpoints Endpoints
	// SEO enables metadata synthesis when non-nil.
	SEO *seo.Options
	// MaxStaleAge bounds fallback reuse of expired entries.
	MaxStaleAge time.Duration
	Observer    func(Transition)
	Logger      *logging.Logger
}

// Request is one logical content request.
type Request struct {
	ContentType string
	UserAgent   string
	// Token is forwarded as a bearer token and never inspected.
	Token    string
	ClientID string
}

// Result is what Load returns.
type Result struct {
	ContentType string
	Data        map[string]any
	Metadata    *seo.Metadata
	ETag        string
	CacheStatus CacheStatus
	Quality     netprobe.Quality
	Strategy    Strategy
	Trace       []State
	// Cause is the failure that sent the load down the fallback chain.
	Cause error
}

// Loader runs smart loads. One Loader owns one cache.
type Loader struct {
	fetcher   fetch.Fetcher
	assessor  netprobe.Assessor
	cache     *cache.Cache
	gate      *guard.Gate
	endpoints Endpoints
	seo       *seo.Options
	maxStale  time.Duration
	observer  func(Transition)
	log       *logging.Logger
}

// New creates a Loader.
func New(opts Options) (*Loader, error) {
	l := &Loader{
		fetcher:   opts.Fetcher,
		assessor:  opts.Assessor,
		cache:     opts.Cache,
		gate:      opts.Gate,
		endpoints: opts.Endpoints.withDefaults(),
		seo:       opts.SEO,
		maxStale:  opts.MaxStaleAge,
		observer:  opts.Observer,
		log:       opts.Logger.Component("smartload"),
	}
	if l.fetcher == nil {
		l.fetcher = fetch.New(fetch.Options{Logger: opts.Logger})
	}
	if l.assessor == nil {
		l.assessor = netprobe.Fixed(netprobe.Poor)
	}
	if l.maxStale <= 0 {
		l.maxStale = cache.MaxStaleAge
	}
	if l.cache == nil {
		l.cache = cache.New(cache.Options{MaxStaleAge: l.maxStale})
	}
	l.cache.Retain(l.maxStale)
	if l.gate == nil {
		g, err := guard.New(guard.Options{Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		l.gate = g
	}
	return l, nil
}

// Cache returns the loader's cache.
func (l *Loader) Cache() *cache.Cache {
	return l.cache
}

// Quality returns the last observed network tier.
func (l *Loader) Quality() netprobe.Quality {
	return l.cache.Quality()
}

// ClearCache drops every cached payload.
func (l *Loader) ClearCache() {
	l.cache.Clear()
}

// =============================================================================
// LOAD
// =============================================================================

// Load returns content for req. The returned error is non-nil only when the
// guard rejects the request; it is then a *guard.RejectionError.
func (l *Loader) Load(ctx context.Context, req Request) (Result, error) {
	return l.run(ctx, req, true)
}

// Refresh is Load without the cache lookup. The fresh payload replaces the
// cached one.
func (l *Loader) Refresh(ctx context.Context, req Request) (Result, error) {
	return l.run(ctx, req, false)
}

func (l *Loader) run(ctx context.Context, req Request, useCache bool) (Result, error) {
	r := &run{loader: l, res: Result{ContentType: req.ContentType}}
	r.res.Trace = []State{Idle}
	log := l.log.With("content_type", req.ContentType)

	if err := l.gate.Check(guard.Request{UserAgent: req.UserAgent, ClientID: req.ClientID}); err != nil {
		return r.res, err
	}

	r.enter(AssessingNetwork)
	q := l.assessor.Assess(ctx)
	l.cache.SetQuality(q)
	r.res.Quality = q

	if req.ContentType == "" {
		return r.fallback(ctx, req, ErrNoContentType), nil
	}

	if useCache {
		r.enter(CheckingCache)
		if entry, ok := l.cache.Get(req.ContentType); ok {
			r.enter(CacheHit)
			r.res.Data = entry.Data
			r.res.ETag = entry.ETag
			r.res.CacheStatus = StatusHit
			r.res.Metadata = l.enhance(entry.Data)
			r.enter(Done)
			log.Debug("served from cache")
			return r.res, nil
		}
		r.res.CacheStatus = StatusMiss
	} else {
		r.res.CacheStatus = StatusBypass
	}

	r.enter(Loading)
	data, strategy, err := l.fetchByQuality(ctx, q, req)
	r.res.Strategy = strategy
	if err != nil {
		log.WarnErr(err, "content load failed, falling back")
		return r.fallback(ctx, req, err), nil
	}

	r.enter(Enhancing)
	r.res.Metadata = l.enhance(data)

	r.enter(Caching)
	entry := l.cache.Put(req.ContentType, data, etag(data))
	r.res.Data = entry.Data
	r.res.ETag = entry.ETag

	r.enter(Done)
	log.WithFields(map[string]any{
		"quality":  q.String(),
		"strategy": string(strategy),
	}).Debug("content loaded")
	return r.res, nil
}

// run tracks one pass through the state machine.
type run struct {
	loader *Loader
	res    Result
}

func (r *run) enter(s State) {
	from := r.res.Trace[len(r.res.Trace)-1]
	r.res.Trace = append(r.res.Trace, s)
	if r.loader.observer != nil {
		r.loader.observer(Transition{ContentType: r.res.ContentType, From: from, To: s})
	}
}

// fallback walks stale cache, minimal payload and empty object in order.
func (r *run) fallback(ctx context.Context, req Request, cause error) Result {
	l := r.loader
	r.res.Cause = cause
	r.enter(Error)
	r.enter(FallbackLookup)

	if req.ContentType != "" {
		if entry, ok := l.cache.Stale(req.ContentType, l.maxStale); ok {
			r.res.Data = entry.Data
			r.res.ETag = entry.ETag
			r.res.CacheStatus = StatusStale
			r.res.Metadata = l.enhance(entry.Data)
			r.enter(Done)
			return r.res
		}
	}

	data, err := l.fetchOne(ctx, l.endpoints.Minimal, req)
	if err == nil {
		r.res.Data = data
		r.res.CacheStatus = StatusFallback
		r.res.Metadata = l.enhance(data)
		r.enter(Done)
		return r.res
	}
	l.log.WarnErr(err, "minimal payload unavailable")

	r.res.Data = map[string]any{}
	r.res.CacheStatus = StatusEmpty
	r.enter(Done)
	return r.res
}

func (l *Loader) enhance(data map[string]any) *seo.Metadata {
	if l.seo == nil {
		return nil
	}
	meta := seo.Enhance(data, *l.seo)
	return &meta
}

// etag derives a stable tag from the payload; encoding/json sorts map keys.
func etag(data map[string]any) string {
	raw, err := json.Marshal(data)
	if err != nil {
		return uuid.NewString()
	}
	return fmt.Sprintf("%q", uuid.NewSHA1(uuid.NameSpaceURL, raw).String())
}
