package adapter

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSaverNumbersDuplicates(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSaver(dir, nil)

	want := []string{"qscan-qr.png", "qscan-qr (1).png", "qscan-qr (2).png"}
	for i, name := range want {
		path, err := s.Save("qscan-qr.png", []byte{byte(i)})
		if err != nil {
			t.Fatalf("Save() #%d error = %v", i+1, err)
		}
		if path != filepath.Join(dir, name) {
			t.Errorf("Save() #%d path = %q, want %q", i+1, path, name)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "qscan-qr.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 1 || data[0] != 0 {
		t.Errorf("first file was overwritten: %v", data)
	}
}

func TestFileSaverStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	s := NewFileSaver(filepath.Join(dir, "out"), nil)

	path, err := s.Save("../../escape.png", []byte("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if path != filepath.Join(dir, "out", "escape.png") {
		t.Errorf("path = %q", path)
	}
}
