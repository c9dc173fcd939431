package store

import (
	"path/filepath"
	"testing"
)

func TestOpenAssignsStableInstallID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	first := s.InstallID()
	if first == "" {
		t.Fatal("install id is empty")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if s.InstallID() != first {
		t.Fatalf("install id changed across opens: %s != %s", s.InstallID(), first)
	}
}

func TestDisplayModeRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	mode, err := s.DisplayMode()
	if err != nil {
		t.Fatalf("DisplayMode: %v", err)
	}
	if mode != "" {
		t.Fatalf("unset display mode = %q, want empty", mode)
	}

	if err := s.SetDisplayMode("team"); err != nil {
		t.Fatalf("SetDisplayMode: %v", err)
	}
	if err := s.SetDisplayMode("paygo"); err != nil {
		t.Fatalf("SetDisplayMode overwrite: %v", err)
	}

	mode, err = s.DisplayMode()
	if err != nil {
		t.Fatalf("DisplayMode: %v", err)
	}
	if mode != "paygo" {
		t.Fatalf("display mode = %q, want paygo", mode)
	}
}
