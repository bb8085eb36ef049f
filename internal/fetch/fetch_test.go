// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const themeJSON = `{"colors":{"primary":"#000"}}`

func TestClient_FetchHTTPPlain(t *testing.T) {
	var gotUA, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(themeJSON))
	}))
	defer srv.Close()

	c := New(Options{})
	data, err := c.Fetch(context.Background(), srv.URL+"/theme.json", WithToken("abc"))
	require.NoError(t, err)
	assert.Equal(t, themeJSON, string(data))
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestClient_FetchHTTPGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(themeJSON))
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	data, err := New(Options{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, themeJSON, string(data))
}

func TestClient_FetchHTTPBrotli(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, _ = bw.Write([]byte(themeJSON))
	require.NoError(t, bw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	data, err := New(Options{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, themeJSON, string(data))
}

func TestClient_FetchHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(Options{}).Fetch(context.Background(), srv.URL)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestClient_FetchHTTPTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer srv.Close()

	_, err := New(Options{MaxBytes: 10}).Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrResponseTooLarge)
}

func TestClient_FetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.json")
	require.NoError(t, os.WriteFile(path, []byte(themeJSON), 0644))

	c := New(Options{})
	data, err := c.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, themeJSON, string(data))

	data, err = c.Fetch(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, themeJSON, string(data))
}

func TestClient_FetchMissingFile(t *testing.T) {
	_, err := New(Options{}).Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestClient_UnsupportedScheme(t *testing.T) {
	_, err := New(Options{}).Fetch(context.Background(), "ftp://example.com/theme.json")
	require.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestCounting(t *testing.T) {
	failing := Func(func(ctx context.Context, location string, opts ...Option) ([]byte, error) {
		return nil, errors.New("offline")
	})
	c := &Counting{Next: failing}

	_, _ = c.Fetch(context.Background(), "a")
	_, _ = c.Fetch(context.Background(), "b")
	assert.Equal(t, int64(2), c.Calls())
}

// =============================================================================
// DECODE
// =============================================================================

func TestDecode_JSONAndYAML(t *testing.T) {
	var fromJSON map[string]any
	require.NoError(t, Decode("theme.json", []byte(themeJSON), &fromJSON))

	var fromYAML map[string]any
	require.NoError(t, Decode("https://x/theme.yaml?v=2", []byte("colors:\n  primary: \"#000\"\n"), &fromYAML))

	assert.Equal(t, fromJSON, fromYAML)
}

func TestDecode_Invalid(t *testing.T) {
	var v map[string]any
	require.Error(t, Decode("theme.json", []byte("{"), &v))
}

func TestKeyOrder_JSON(t *testing.T) {
	doc := []byte(`{"colors":{},"presets":{"green":{},"green-light":{"colors":{"a":"b"}},"blue":{}}}`)

	keys, err := KeyOrder("theme.json", doc, "presets")
	require.NoError(t, err)
	assert.Equal(t, []string{"green", "green-light", "blue"}, keys)

	top, err := KeyOrder("theme.json", doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"colors", "presets"}, top)

	missing, err := KeyOrder("theme.json", doc, "fonts")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestKeyOrder_YAML(t *testing.T) {
	doc := []byte("es:\n  hero: {}\nen:\n  hero: {}\nstyles:\n  minimal: {}\n")

	keys, err := KeyOrder("content.yml", doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"es", "en", "styles"}, keys)

	_, err = KeyOrder("content.yml", []byte("- a\n- b\n"))
	require.ErrorIs(t, err, ErrNotObject)
}
