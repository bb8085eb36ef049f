// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package smartload

// State is a step of a single load.
type State int

const (
	Idle State = iota
	AssessingNetwork
	CheckingCache
	CacheHit
	Loading
	Enhancing
	Caching
	Done
	Error
	FallbackLookup
)

var stateNames = [...]string{
	Idle:             "idle",
	AssessingNetwork: "assessing_network",
	CheckingCache:    "checking_cache",
	CacheHit:         "cache_hit",
	Loading:          "loading",
	Enhancing:        "enhancing",
	Caching:          "caching",
	Done:             "done",
	Error:            "error",
	FallbackLookup:   "fallback_lookup",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Transition is reported to Options.Observer on every state change.
type Transition struct {
	ContentType string
	From        State
	To          State
}

// CacheStatus says where a result's data came from.
type CacheStatus string

const (
	StatusHit      CacheStatus = "hit"
	StatusMiss     CacheStatus = "miss"
	StatusBypass   CacheStatus = "bypass"
	StatusStale    CacheStatus = "stale"
	StatusFallback CacheStatus = "fallback"
	StatusEmpty    CacheStatus = "empty"
)

// Strategy names the fetch plan chosen for a network tier.
type Strategy string

const (
	StrategyNone        Strategy = ""
	StrategyParallel    Strategy = "parallel"
	StrategySequential  Strategy = "sequential"
	StrategyProgressive Strategy = "progressive"
)
