// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/jeranaias/thematic/internal/cache"
	"github.com/jeranaias/thematic/internal/config"
	"github.com/jeranaias/thematic/internal/content"
	"github.com/jeranaias/thematic/internal/detect"
	"github.com/jeranaias/thematic/internal/fetch"
	"github.com/jeranaias/thematic/internal/guard"
	"github.com/jeranaias/thematic/internal/logging"
	"github.com/jeranaias/thematic/internal/netprobe"
	"github.com/jeranaias/thematic/internal/seo"
	"github.com/jeranaias/thematic/internal/smartload"
	"github.com/jeranaias/thematic/internal/theme"
	"github.com/jeranaias/thematic/internal/util"
	"github.com/jeranaias/thematic/internal/watch"
)

// ErrNothingToWatch is returned by Watch when neither document is a local file.
var ErrNothingToWatch = errors.New("no local documents to watch")

// Snapshot is the combined state of both stores.
type Snapshot struct {
	Theme   theme.State
	Content content.State
}

// Options configures a Provider. Only Config is required.
type Options struct {
	Config *config.Config
	Logger *logging.Logger

	// Fetcher replaces the fetcher built from Config.Fetch.
	Fetcher fetch.Fetcher
	// Assessor replaces the network assessor built from Config.Loader.
	Assessor netprobe.Assessor
	Root     theme.StyleRoot

	// ThemeDocument and ContentData are installed instead of fetching the
	// configured paths.
	ThemeDocument *theme.Document
	ContentData   map[string]any

	// PrefersLight reports the terminal background. Defaults to
	// theme.TerminalPrefersLight and is only consulted when
	// Config.Theme.FollowTerminal is set.
	PrefersLight func() bool
}

// Provider is the composition root.
type Provider struct {
	cfg     *config.Config
	log     *logging.Logger
	opts    Options
	themes  *theme.Store
	content *content.Store
	loader  *smartload.Loader

	hub    util.Hub[Snapshot]
	unsubs []func()
}

// New builds the stores and the loader. Nothing is fetched until Start.
func New(opts Options) (*Provider, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.New(fetch.Options{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.FetchTimeout(),
			MaxBytes:  cfg.Fetch.MaxBytes,
			Logger:    log,
		})
	}

	assessor := opts.Assessor
	if assessor == nil {
		var err error
		if assessor, err = newAssessor(cfg, log); err != nil {
			return nil, err
		}
	}

	gate, err := guard.New(guard.Options{
		Mode:           cfg.Guard.Mode,
		Limit:          cfg.Guard.Limit,
		Window:         cfg.GuardWindow(),
		Denylist:       cfg.Guard.Denylist,
		StableClientID: cfg.Guard.StableClientID,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}

	var seoOpts *seo.Options
	if cfg.Loader.SEO {
		seoOpts = &seo.Options{SiteName: cfg.Loader.SiteName, Locale: cfg.Loader.Locale}
	}

	loader, err := smartload.New(smartload.Options{
		Fetcher:  fetcher,
		Assessor: assessor,
		Cache:    cache.New(cache.Options{MaxStaleAge: cfg.MaxStaleAge()}),
		Gate:     gate,
		Endpoints: smartload.Endpoints{
			BaseURL:    cfg.Loader.BaseURL,
			Public:     cfg.Loader.PublicPath,
			Private:    cfg.Loader.PrivatePath,
			Essential:  cfg.Loader.EssentialPath,
			Additional: cfg.Loader.AdditionalPath,
			Minimal:    cfg.Loader.MinimalPath,
		},
		SEO:         seoOpts,
		MaxStaleAge: cfg.MaxStaleAge(),
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	p := &Provider{
		cfg:  cfg,
		log:  log.Component("provider"),
		opts: opts,
		themes: theme.NewStore(theme.Options{
			Fetcher: fetcher,
			Root:    opts.Root,
			Logger:  log,
		}),
		content: content.NewStore(content.Options{
			Fetcher:  fetcher,
			Logger:   log,
			Language: cfg.Content.Language,
			StyleID:  cfg.Content.StyleID,
		}),
		loader: loader,
	}
	if p.opts.PrefersLight == nil {
		p.opts.PrefersLight = theme.TerminalPrefersLight
	}

	p.unsubs = append(p.unsubs,
		p.themes.Subscribe(func(theme.State) { p.hub.Publish(p.Snapshot()) }),
		p.content.Subscribe(func(content.State) { p.hub.Publish(p.Snapshot()) }),
	)
	return p, nil
}

func newAssessor(cfg *config.Config, log *logging.Logger) (netprobe.Assessor, error) {
	if cfg.Loader.Quality != "" {
		q, err := netprobe.ParseQuality(cfg.Loader.Quality)
		if err != nil {
			return nil, err
		}
		return netprobe.Fixed(q), nil
	}
	if cfg.Loader.ProbeURL == "" {
		return netprobe.Fixed(netprobe.Poor), nil
	}
	return netprobe.New(netprobe.Options{
		PingURL:  cfg.Loader.PingURL,
		ProbeURL: cfg.Loader.ProbeURL,
		Timeout:  cfg.ProbeTimeout(),
		Logger:   log,
	}), nil
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start loads both documents and applies the initial preset. Load failures
// are absorbed by the stores, so Start cannot fail.
func (p *Provider) Start(ctx context.Context) {
	p.themes.Load(ctx, p.themeSource())
	p.content.Load(ctx, p.contentSource(), content.LoadOptions{
		Language: p.cfg.Content.Language,
		StyleID:  p.cfg.Content.StyleID,
	})

	if preset := p.initialPreset(); preset != "" {
		p.themes.ApplyPreset(preset)
	}
	p.log.With("preset", p.themes.State().CurrentPreset).Info("provider started")
}

// Close detaches the provider from its stores.
func (p *Provider) Close() {
	for _, fn := range p.unsubs {
		fn()
	}
	p.unsubs = nil
}

func (p *Provider) themeSource() theme.Source {
	switch {
	case p.opts.ThemeDocument != nil:
		return theme.FromDocument(*p.opts.ThemeDocument)
	case p.cfg.Theme.Path != "":
		return theme.FromLocation(p.cfg.Theme.Path)
	default:
		return theme.FromDocument(theme.FallbackDocument())
	}
}

func (p *Provider) contentSource() content.Source {
	switch {
	case p.opts.ContentData != nil:
		return content.FromData(p.opts.ContentData)
	case p.cfg.Content.Path != "":
		return content.FromLocation(p.cfg.Content.Path)
	default:
		return content.FromData(map[string]any{})
	}
}

// initialPreset resolves the configured preset, switching to its light
// variant when following a light terminal and that variant exists.
func (p *Provider) initialPreset() string {
	preset := p.cfg.Theme.InitialPreset
	if !p.cfg.Theme.FollowTerminal || !p.opts.PrefersLight() {
		return preset
	}
	base := preset
	if base == "" {
		base = theme.DefaultBaseName
	}
	light := theme.BaseName(base) + theme.LightSuffix
	if _, ok := p.themes.Document().Presets[light]; ok {
		return light
	}
	return preset
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Snapshot returns the current state of both stores.
func (p *Provider) Snapshot() Snapshot {
	return Snapshot{Theme: p.themes.State(), Content: p.content.State()}
}

// Subscribe registers fn for every change to either store.
func (p *Provider) Subscribe(fn func(Snapshot)) func() {
	return p.hub.Subscribe(fn)
}

// Themes returns the theme store.
func (p *Provider) Themes() *theme.Store { return p.themes }

// Content returns the content store.
func (p *Provider) Content() *content.Store { return p.content }

// Loader returns the smart loader.
func (p *Provider) Loader() *smartload.Loader { return p.loader }

// Config returns the configuration the provider was built with.
func (p *Provider) Config() *config.Config { return p.cfg }

// ThemeOptions runs theme detection on the loaded document.
func (p *Provider) ThemeOptions() detect.ThemeOptions {
	return detect.Themes(p.themes.Document())
}

// ContentOptions runs content detection on the loaded document.
func (p *Provider) ContentOptions() detect.ContentOptions {
	return detect.Content(p.content.Document(), p.content.State().Language)
}

// =============================================================================
// MUTATORS
// =============================================================================

// ApplyPreset passes through to the theme store.
func (p *Provider) ApplyPreset(name string) bool {
	return p.themes.ApplyPreset(name)
}

// ToggleDarkVariant passes through to the theme store.
func (p *Provider) ToggleDarkVariant() {
	p.themes.ToggleDarkVariant()
}

// SetLanguage passes through to the content store.
func (p *Provider) SetLanguage(code string) {
	p.content.SetLanguage(code)
}

// SetContentStyle passes through to the content store.
func (p *Provider) SetContentStyle(id string) bool {
	return p.content.SetContentStyle(id)
}

// LoadContent runs the smart loader.
func (p *Provider) LoadContent(ctx context.Context, req smartload.Request) (smartload.Result, error) {
	return p.loader.Load(ctx, req)
}

// =============================================================================
// WATCH
// =============================================================================

// Watch reloads the theme and content documents when their local files
// change. It blocks until ctx is cancelled.
func (p *Provider) Watch(ctx context.Context) error {
	w, err := watch.New(watch.Options{Debounce: p.cfg.WatchDebounce(), Logger: p.log})
	if err != nil {
		return err
	}
	defer w.Close()

	watched := 0
	if path, ok := localPath(p.cfg.Theme.Path); ok && p.opts.ThemeDocument == nil {
		if err := w.Add(path, func(ctx context.Context) { p.themes.Reload(ctx) }); err != nil {
			return err
		}
		watched++
	}
	if path, ok := localPath(p.cfg.Content.Path); ok && p.opts.ContentData == nil {
		if err := w.Add(path, func(ctx context.Context) { p.content.Reload(ctx) }); err != nil {
			return err
		}
		watched++
	}
	if watched == 0 {
		return ErrNothingToWatch
	}
	return w.Run(ctx)
}

// localPath returns the filesystem path for plain paths and file:// URLs.
func localPath(location string) (string, bool) {
	if location == "" {
		return "", false
	}
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.Contains(location, "://") {
		return "", false
	}
	return location, true
}
