// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/thematic/internal/logging"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrRateLimited means the client exhausted its request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrBotDetected means the user agent matched the denylist.
	ErrBotDetected = errors.New("automated client detected")
)

// RejectionError describes why a request was refused.
type RejectionError struct {
	Reason    error
	ClientID  string
	UserAgent string
}

func (e *RejectionError) Error() string {
	if errors.Is(e.Reason, ErrBotDetected) {
		return fmt.Sprintf("request rejected: %v (user agent %q)", e.Reason, e.UserAgent)
	}
	return fmt.Sprintf("request rejected: %v (client %s)", e.Reason, e.ClientID)
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

// IsRejection reports whether err came from a Gate.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// =============================================================================
// GATE
// =============================================================================

const (
	ModeFixedWindow = "fixed_window"
	ModeTokenBucket = "token_bucket"

	DefaultLimit  = 10
	DefaultWindow = 60 * time.Second
)

// DefaultDenylist holds the user-agent keywords rejected by default.
var DefaultDenylist = []string{"bot", "crawler", "headless", "phantomjs", "selenium"}

// Options configures a Gate.
type Options struct {
	Mode   string
	Limit  int
	Window time.Duration
	// Denylist replaces DefaultDenylist when non-nil.
	Denylist []string
	// StableClientID is used for every request that carries no ClientID.
	// Empty means a random id per request.
	StableClientID string
	Logger         *logging.Logger
	Now            func() time.Time
}

// Request is what the gate inspects.
type Request struct {
	UserAgent string
	ClientID  string
}

type window struct {
	start time.Time
	count int
}

// Gate applies rate limiting and user-agent screening.
type Gate struct {
	mode     string
	limit    int
	window   time.Duration
	stableID string
	denylist *regexp.Regexp
	now      func() time.Time
	log      *logging.Logger

	mu        sync.Mutex
	windows   map[string]*window
	limiters  map[string]*bucket
	lastPrune time.Time
}

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// New creates a Gate.
func New(opts Options) (*Gate, error) {
	g := &Gate{
		mode:     opts.Mode,
		limit:    opts.Limit,
		window:   opts.Window,
		stableID: opts.StableClientID,
		now:      opts.Now,
		log:      opts.Logger.Component("guard"),
		windows:  make(map[string]*window),
		limiters: make(map[string]*bucket),
	}
	if g.mode == "" {
		g.mode = ModeFixedWindow
	}
	if g.mode != ModeFixedWindow && g.mode != ModeTokenBucket {
		return nil, fmt.Errorf("unknown rate limit mode %q", opts.Mode)
	}
	if g.limit <= 0 {
		g.limit = DefaultLimit
	}
	if g.window <= 0 {
		g.window = DefaultWindow
	}
	if g.now == nil {
		g.now = time.Now
	}

	words := opts.Denylist
	if words == nil {
		words = DefaultDenylist
	}
	if len(words) > 0 {
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
		}
		g.denylist = regexp.MustCompile(strings.Join(quoted, "|"))
	}
	return g, nil
}

// Check returns a *RejectionError when the request must not proceed.
func (g *Gate) Check(req Request) error {
	id := g.clientID(req)

	if !g.allow(id) {
		g.log.With("client", id).Warn("rate limit exceeded")
		return &RejectionError{Reason: ErrRateLimited, ClientID: id, UserAgent: req.UserAgent}
	}
	if g.IsBot(req.UserAgent) {
		g.log.With("user_agent", req.UserAgent).Warn("automated client rejected")
		return &RejectionError{Reason: ErrBotDetected, ClientID: id, UserAgent: req.UserAgent}
	}
	return nil
}

// IsBot reports whether ua contains a denylisted keyword.
func (g *Gate) IsBot(ua string) bool {
	return g.denylist != nil && g.denylist.MatchString(strings.ToLower(ua))
}

// Clients returns how many client ids are currently tracked.
func (g *Gate) Clients() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.windows) + len(g.limiters)
}

func (g *Gate) clientID(req Request) string {
	switch {
	case req.ClientID != "":
		return req.ClientID
	case g.stableID != "":
		return g.stableID
	default:
		return uuid.NewString()
	}
}

func (g *Gate) allow(id string) bool {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if now.Sub(g.lastPrune) >= g.window {
		g.pruneLocked(now)
		g.lastPrune = now
	}
	if g.mode == ModeTokenBucket {
		return g.limiterLocked(id, now).AllowN(now, 1)
	}

	w, ok := g.windows[id]
	if !ok || now.Sub(w.start) >= g.window {
		g.windows[id] = &window{start: now, count: 1}
		return true
	}
	if w.count >= g.limit {
		return false
	}
	w.count++
	return true
}

func (g *Gate) limiterLocked(id string, now time.Time) *rate.Limiter {
	b, ok := g.limiters[id]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(g.window/time.Duration(g.limit)), g.limit)}
		g.limiters[id] = b
	}
	b.seen = now
	return b.limiter
}

// pruneLocked drops clients idle for a full window so random ids do not
// accumulate. allow runs it at most once per window. An idle bucket has refilled by then, so dropping it is
// equivalent to keeping it.
func (g *Gate) pruneLocked(now time.Time) {
	for id, w := range g.windows {
		if now.Sub(w.start) >= g.window {
			delete(g.windows, id)
		}
	}
	for id, b := range g.limiters {
		if now.Sub(b.seen) >= g.window {
			delete(g.limiters, id)
		}
	}
}
