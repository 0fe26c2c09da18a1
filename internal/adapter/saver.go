package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// maxNameAttempts bounds the "name (n).ext" search
const maxNameAttempts = 1000

// FileSaver saves downloads into a directory without overwriting,
// numbering duplicates the way browsers do: "qscan-qr (1).png".
type FileSaver struct {
	dir    string
	logger *slog.Logger
}

// NewFileSaver creates a saver rooted at dir
func NewFileSaver(dir string, logger *slog.Logger) *FileSaver {
	if logger == nil {
		logger = slog.Default()
	}
	if dir == "" {
		dir = "."
	}
	return &FileSaver{dir: dir, logger: logger}
}

// Save writes data under the first free variant of filename
func (s *FileSaver) Save(filename string, data []byte) (string, error) {
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for n := 0; n < maxNameAttempts; n++ {
		name := filename
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", path, err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to close %s: %w", path, err)
		}

		s.logger.Debug("file saved", "path", path, "bytes", len(data))
		return path, nil
	}

	return "", fmt.Errorf("no free filename for %s in %s", filename, s.dir)
}
