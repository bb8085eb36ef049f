// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package netprobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jeranaias/thematic/internal/logging"
)

// ErrNoProbeURL is returned by Measure when the prober has no target.
var ErrNoProbeURL = errors.New("netprobe: no probe url configured")

// DefaultTimeout bounds the whole assessment.
const DefaultTimeout = 5 * time.Second

// Options configures a Prober.
type Options struct {
	// PingURL receives the HEAD request. Defaults to ProbeURL.
	PingURL string
	// ProbeURL is downloaded to measure bandwidth.
	ProbeURL   string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *logging.Logger

	// Now is the clock used for measurements.
	Now func() time.Time
}

// Measurement is the raw result of one assessment.
type Measurement struct {
	Latency   time.Duration
	Bytes     int64
	Elapsed   time.Duration
	Bandwidth float64
}

// Prober measures latency and bandwidth over HTTP.
type Prober struct {
	ping    string
	probe   string
	client  *http.Client
	timeout time.Duration
	now     func() time.Time
	log     *logging.Logger
}

// New creates a Prober.
func New(opts Options) *Prober {
	p := &Prober{
		ping:    opts.PingURL,
		probe:   opts.ProbeURL,
		client:  opts.HTTPClient,
		timeout: opts.Timeout,
		now:     opts.Now,
		log:     opts.Logger.Component("netprobe"),
	}
	if p.ping == "" {
		p.ping = p.probe
	}
	if p.client == nil {
		p.client = http.DefaultClient
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Assess implements Assessor. Any measurement failure yields Poor.
func (p *Prober) Assess(ctx context.Context) Quality {
	m, err := p.Measure(ctx)
	if err != nil {
		p.log.WarnErr(err, "network probe failed, assuming poor")
		return Poor
	}
	q := Classify(m.Latency, m.Bandwidth)
	p.log.WithFields(map[string]any{
		"latency_ms": m.Latency.Milliseconds(),
		"bandwidth":  int64(m.Bandwidth),
		"quality":    q.String(),
	}).Debug("network assessed")
	return q
}

// Measure runs the HEAD and download probes.
func (p *Prober) Measure(ctx context.Context) (Measurement, error) {
	if p.probe == "" {
		return Measurement{}, ErrNoProbeURL
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var m Measurement

	start := p.now()
	if err := p.do(ctx, http.MethodHead, p.ping, nil); err != nil {
		return m, fmt.Errorf("latency probe: %w", err)
	}
	m.Latency = p.now().Sub(start)

	start = p.now()
	if err := p.do(ctx, http.MethodGet, p.probe, &m.Bytes); err != nil {
		return m, fmt.Errorf("bandwidth probe: %w", err)
	}
	m.Elapsed = p.now().Sub(start)

	if m.Elapsed > 0 {
		m.Bandwidth = float64(m.Bytes) / m.Elapsed.Seconds()
	} else if m.Bytes > 0 {
		m.Bandwidth = float64(m.Bytes) * float64(time.Second)
	}
	return m, nil
}

func (p *Prober) do(ctx context.Context, method, url string, n *int64) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}
	read, err := io.Copy(io.Discard, resp.Body)
	if n != nil {
		*n = read
	}
	return err
}
