// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type logEntry map[string]any

func TestLoggerWarnWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Component("theme").WithFields(map[string]any{"preset": "ocean"}).Warn("unknown preset")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "unknown preset", entry["message"])
	require.Equal(t, "ocean", entry["preset"])
	require.Equal(t, "theme", entry["component"])
	require.Equal(t, "warn", entry["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Debug("hidden")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerWarnErrIncludesError(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	log.WarnErr(errors.New("connection refused"), "theme load failed")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "connection refused", entry["error"])
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	require.NotPanics(t, func() {
		log.Warn("ignored")
		log.With("k", "v").Error(nil, "ignored")
		log.Component("x").Info("ignored")
	})
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}
