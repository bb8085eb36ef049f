// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/jeranaias/thematic/internal/logging"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnsupportedScheme is returned for locations that are not http, https,
	// file or a bare path.
	ErrUnsupportedScheme = errors.New("only http, https and file locations are supported")

	// ErrResponseTooLarge is returned when a body exceeds Options.MaxBytes.
	ErrResponseTooLarge = errors.New("response body exceeds maximum size limit")
)

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// =============================================================================
// FETCHER
// =============================================================================

// Fetcher loads raw document bytes from a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string, opts ...Option) ([]byte, error)
}

// Func adapts a plain function to the Fetcher interface.
type Func func(ctx context.Context, location string, opts ...Option) ([]byte, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, location string, opts ...Option) ([]byte, error) {
	return f(ctx, location, opts...)
}

// Option adjusts a single fetch.
type Option func(*request)

type request struct {
	headers http.Header
}

// WithToken passes a bearer token through to the remote server. The token is
// forwarded as-is and never inspected.
func WithToken(token string) Option {
	return func(r *request) {
		if token != "" {
			r.headers.Set("Authorization", "Bearer "+token)
		}
	}
}

// WithHeader sets an arbitrary request header.
func WithHeader(key, value string) Option {
	return func(r *request) {
		r.headers.Set(key, value)
	}
}

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	Timeout    time.Duration
	// MaxBytes caps the decoded body size; 0 means no limit.
	MaxBytes int64
	Logger   *logging.Logger
}

// DefaultUserAgent is sent when Options.UserAgent is empty.
const DefaultUserAgent = "thematic/1.0"

// Client is the default Fetcher.
type Client struct {
	http      *http.Client
	userAgent string
	maxBytes  int64
	log       *logging.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return &Client{
		http:      hc,
		userAgent: ua,
		maxBytes:  opts.MaxBytes,
		log:       opts.Logger.Component("fetch"),
	}
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, location string, opts ...Option) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		// Not URL-shaped; treat as a filesystem path.
		return c.readFile(location)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return c.fetchHTTP(ctx, location, opts)
	case "file":
		return c.readFile(u.Path)
	case "":
		return c.readFile(location)
	default:
		// Windows drive letters parse as a one-letter scheme.
		if len(u.Scheme) == 1 {
			return c.readFile(location)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

func (c *Client) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}

func (c *Client) fetchHTTP(ctx context.Context, location string, opts []Option) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}

	r := request{headers: http.Header{}}
	for _, opt := range opts {
		opt(&r)
	}
	req.Header = r.headers
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: location, Code: resp.StatusCode}
	}

	body, err := c.decompress(resp)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var reader io.Reader = body
	if c.maxBytes > 0 {
		reader = io.LimitReader(body, c.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}

// decompress wraps the body according to Content-Encoding. Setting
// Accept-Encoding ourselves disables net/http's transparent gzip handling.
func (c *Client) decompress(resp *http.Response) (io.ReadCloser, error) {
	encoding := strings.ToLower(resp.Header.Get("Content-Encoding"))
	switch encoding {
	case "":
		return io.NopCloser(resp.Body), nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		return zr, nil
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		c.log.With("encoding", encoding).Debug("unknown content encoding, returning raw body")
		return io.NopCloser(resp.Body), nil
	}
}

// =============================================================================
// COUNTING
// =============================================================================

// Counting wraps a Fetcher and counts calls, including failed ones.
type Counting struct {
	Next  Fetcher
	calls atomic.Int64
}

// Fetch implements Fetcher.
func (c *Counting) Fetch(ctx context.Context, location string, opts ...Option) ([]byte, error) {
	c.calls.Add(1)
	return c.Next.Fetch(ctx, location, opts...)
}

// Calls returns the number of Fetch invocations so far.
func (c *Counting) Calls() int64 {
	return c.calls.Load()
}
