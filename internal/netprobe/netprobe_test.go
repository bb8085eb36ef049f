// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package netprobe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns base+offsets[i] on the i-th call.
func stepClock(offsets ...time.Duration) func() time.Time {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	return func() time.Time {
		if i >= len(offsets) {
			return base.Add(offsets[len(offsets)-1])
		}
		t := base.Add(offsets[i])
		i++
		return t
	}
}

func probeServer(t *testing.T, size int) *httptest.Server {
	t.Helper()
	body := strings.Repeat("x", size)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// =============================================================================
// CLASSIFY
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		latency   time.Duration
		bandwidth float64
		want      Quality
	}{
		{"fast and wide", 50 * time.Millisecond, 2 * ExcellentBandwidth, Excellent},
		{"fast but narrow", 50 * time.Millisecond, 200 * 1024, Good},
		{"slow but wide", 200 * time.Millisecond, 2 * ExcellentBandwidth, Good},
		{"latency boundary", ExcellentLatency, 2 * ExcellentBandwidth, Good},
		{"bandwidth boundary", 50 * time.Millisecond, ExcellentBandwidth, Good},
		{"too slow", 400 * time.Millisecond, 2 * ExcellentBandwidth, Poor},
		{"too narrow", 50 * time.Millisecond, 50 * 1024, Poor},
		{"good boundary", GoodLatency, 2 * GoodBandwidth, Poor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.latency, tt.bandwidth))
		})
	}
}

func TestParseQuality(t *testing.T) {
	for _, q := range []Quality{Poor, Good, Excellent} {
		parsed, err := ParseQuality(q.String())
		require.NoError(t, err)
		assert.Equal(t, q, parsed)
	}

	_, err := ParseQuality("blazing")
	assert.Error(t, err)
}

// =============================================================================
// PROBER
// =============================================================================

func TestAssess_Excellent(t *testing.T) {
	srv := probeServer(t, 512*1024)
	p := New(Options{
		ProbeURL: srv.URL,
		Now:      stepClock(0, 20*time.Millisecond, 20*time.Millisecond, 220*time.Millisecond),
	})

	m, err := p.Measure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, m.Latency)
	assert.EqualValues(t, 512*1024, m.Bytes)
	assert.InDelta(t, 512*1024/0.2, m.Bandwidth, 1)

	p = New(Options{
		ProbeURL: srv.URL,
		Now:      stepClock(0, 20*time.Millisecond, 20*time.Millisecond, 220*time.Millisecond),
	})
	assert.Equal(t, Excellent, p.Assess(context.Background()))
}

func TestAssess_Good(t *testing.T) {
	srv := probeServer(t, 64*1024)
	p := New(Options{
		ProbeURL: srv.URL,
		Now:      stepClock(0, 150*time.Millisecond, 150*time.Millisecond, 550*time.Millisecond),
	})

	assert.Equal(t, Good, p.Assess(context.Background()))
}

func TestAssess_FailureIsPoor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := New(Options{ProbeURL: srv.URL})
	assert.Equal(t, Poor, p.Assess(context.Background()))
}

func TestAssess_NoURLIsPoor(t *testing.T) {
	p := New(Options{})

	_, err := p.Measure(context.Background())
	assert.ErrorIs(t, err, ErrNoProbeURL)
	assert.Equal(t, Poor, p.Assess(context.Background()))
}

func TestAssess_SeparatePingURL(t *testing.T) {
	var heads int
	ping := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			heads++
		}
	}))
	defer ping.Close()
	probe := probeServer(t, 1024)

	p := New(Options{PingURL: ping.URL, ProbeURL: probe.URL})
	_, err := p.Measure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, heads)
}

func TestFixed(t *testing.T) {
	assert.Equal(t, Good, Fixed(Good).Assess(context.Background()))
}
