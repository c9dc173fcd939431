package secret

import (
	"errors"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := s.Retrieve(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Retrieve on empty store: err = %v, want ErrNotFound", err)
	}

	if err := s.Save("  yc-abc123  \n"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	key, err := s.Retrieve()
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if key != "yc-abc123" {
		t.Fatalf("key = %q, want trimmed yc-abc123", key)
	}

	if err := s.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Retrieve(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Retrieve after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
}

func TestSaveRejectsEmptyKey(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if err := s.Save("   "); err == nil {
		t.Fatal("Save of blank key succeeded")
	}
}

func TestResolveOrder(t *testing.T) {
	s := NewFileStore(t.TempDir())

	if _, err := Resolve(s, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve with nothing set: err = %v, want ErrNotFound", err)
	}

	key, err := Resolve(s, "from-config")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if key != "from-config" {
		t.Fatalf("key = %q, want config fallback", key)
	}

	if err := s.Save("from-store"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if key, _ = Resolve(s, "from-config"); key != "from-store" {
		t.Fatalf("key = %q, want store to shadow config", key)
	}

	t.Setenv(EnvAPIKey, "from-env")
	if key, _ = Resolve(s, "from-config"); key != "from-env" {
		t.Fatalf("key = %q, want env to win", key)
	}
}
