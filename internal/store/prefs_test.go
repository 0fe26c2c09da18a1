package store

import (
	"path/filepath"
	"testing"
)

func TestPrefStorePersistsLastCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	s, err := NewPrefStore(path)
	if err != nil {
		t.Fatalf("NewPrefStore() error = %v", err)
	}
	if got := s.LastCamera(); got != "" {
		t.Errorf("LastCamera() on fresh store = %q, want empty", got)
	}
	if err := s.SetLastCamera("/dev/video2"); err != nil {
		t.Fatalf("SetLastCamera() error = %v", err)
	}
	if got := s.LastCamera(); got != "/dev/video2" {
		t.Errorf("LastCamera() = %q", got)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewPrefStore(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if got := reopened.LastCamera(); got != "/dev/video2" {
		t.Errorf("LastCamera() after reopen = %q, want /dev/video2", got)
	}
}

func TestPrefStoreMemoryOnly(t *testing.T) {
	s, err := NewPrefStore("")
	if err != nil {
		t.Fatalf("NewPrefStore() error = %v", err)
	}
	defer s.Close()

	if err := s.SetLastCamera("front"); err != nil {
		t.Fatalf("SetLastCamera() error = %v", err)
	}
	if err := s.SetLastCamera("back"); err != nil {
		t.Fatalf("SetLastCamera() error = %v", err)
	}
	if got := s.LastCamera(); got != "back" {
		t.Errorf("LastCamera() = %q, want back", got)
	}
}
