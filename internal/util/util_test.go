// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "theme.css")
	data := []byte(":root {\n  --color-primary: #000;\n}\n")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dist", "css", "theme.css")

	if err := AtomicWriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.css")

	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("got %q, want %q", content, "updated")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

// =============================================================================
// WIDTH TESTS
// =============================================================================

func TestStringWidth(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"primary", 7},
		{"日本", 4},
		{"español", 7},
	}
	for _, tt := range tests {
		if got := StringWidth(tt.input); got != tt.want {
			t.Errorf("StringWidth(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight ascii = %q", got)
	}
	if got := PadRight("日本", 6); got != "日本  " {
		t.Errorf("PadRight wide = %q", got)
	}
	if got := PadRight("toolong", 3); got != "toolong" {
		t.Errorf("PadRight overflow = %q", got)
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"background", 20, "background"},
		{"background", 7, "back..."},
		{"background", 3, "bac"},
		{"background", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateWidth(tt.input, tt.width); got != tt.want {
			t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}

// =============================================================================
// HUB TESTS
// =============================================================================

func TestHub_PublishInOrder(t *testing.T) {
	var h Hub[string]
	var got []string

	h.Subscribe(func(v string) { got = append(got, "a:"+v) })
	unsub := h.Subscribe(func(v string) { got = append(got, "b:"+v) })
	h.Subscribe(func(v string) { got = append(got, "c:"+v) })

	h.Publish("1")
	unsub()
	unsub()
	h.Publish("2")

	want := []string{"a:1", "b:1", "c:1", "a:2", "c:2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHub_SubscribeDuringPublish(t *testing.T) {
	var h Hub[int]
	calls := 0
	h.Subscribe(func(int) {
		calls++
		h.Subscribe(func(int) { calls++ })
	})

	h.Publish(1)
	if calls != 1 {
		t.Errorf("calls after first publish = %d, want 1", calls)
	}
}
