// Package camera provides capture backends for the scanner.
package camera

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/qscan/internal/config"
	"github.com/mmcdole/qscan/internal/domain"
)

// New creates the camera backend selected in the config.
func New(cfg *config.CameraConfig, logger *slog.Logger) (domain.Camera, error) {
	if cfg == nil {
		return nil, fmt.Errorf("camera config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case config.CameraBackendFrames, "":
		if cfg.FramesDir == "" {
			return nil, fmt.Errorf("frames backend requires camera.frames_dir")
		}
		return NewFrameCamera(cfg.FramesDir, logger), nil

	case config.CameraBackendV4L:
		return NewV4LCamera(cfg.MaxProbe, logger), nil

	default:
		return nil, fmt.Errorf("unknown camera backend: %s", cfg.Backend)
	}
}

// claims tracks which device IDs currently have a live track
type claims struct {
	mu   sync.Mutex
	held map[string]bool
}

func (c *claims) claim(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.held == nil {
		c.held = make(map[string]bool)
	}
	if c.held[id] {
		return fmt.Errorf("%w: %s is already in use", domain.ErrCameraAccess, id)
	}
	c.held[id] = true
	return nil
}

func (c *claims) release(id string) {
	c.mu.Lock()
	delete(c.held, id)
	c.mu.Unlock()
}
