package main

import (
	"path/filepath"
	"testing"
)

func TestAppStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := newAppState(path)
	if err := s.Load(); err != nil {
		t.Fatalf("load of missing file should be fine: %v", err)
	}
	if err := s.SetLastServer("12345"); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded := newAppState(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.LastServer(); got != "12345" {
		t.Fatalf("last server lost across restart: %q", got)
	}

	if err := reloaded.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	again := newAppState(path)
	again.Load()
	if again.LastServer() != "" {
		t.Fatalf("clear did not persist")
	}
}
