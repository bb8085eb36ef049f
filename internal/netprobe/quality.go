// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package netprobe

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Quality is a network tier.
type Quality int

const (
	Poor Quality = iota
	Good
	Excellent
)

// String returns the lowercase tier name.
func (q Quality) String() string {
	switch q {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	default:
		return "poor"
	}
}

// ParseQuality is the inverse of String.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "excellent":
		return Excellent, nil
	case "good":
		return Good, nil
	case "poor":
		return Poor, nil
	}
	return Poor, fmt.Errorf("unknown network quality %q", s)
}

// Thresholds
const (
	ExcellentLatency   = 100 * time.Millisecond
	GoodLatency        = 300 * time.Millisecond
	ExcellentBandwidth = 1024 * 1024 // bytes/sec
	GoodBandwidth      = 100 * 1024
)

// Classify maps a measured latency and bandwidth (bytes per second) to a tier.
func Classify(latency time.Duration, bandwidth float64) Quality {
	switch {
	case latency < ExcellentLatency && bandwidth > ExcellentBandwidth:
		return Excellent
	case latency < GoodLatency && bandwidth > GoodBandwidth:
		return Good
	default:
		return Poor
	}
}

// Assessor reports the current network quality.
type Assessor interface {
	Assess(ctx context.Context) Quality
}

// Fixed is an Assessor that always reports the same tier.
type Fixed Quality

// Assess implements Assessor.
func (f Fixed) Assess(context.Context) Quality {
	return Quality(f)
}
