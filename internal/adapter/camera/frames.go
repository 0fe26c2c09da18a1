package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/mmcdole/qscan/internal/domain"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// torchMarker is a file whose presence gives a frames device a torch
const torchMarker = "torch"

var frameExts = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// FrameCamera replays still images as camera frames. Every sub-directory of
// the root is one device, labelled by its name; its images are returned in
// lexical order and looped.
type FrameCamera struct {
	root   string
	logger *slog.Logger
	claims claims
}

// NewFrameCamera creates a frames backend rooted at dir
func NewFrameCamera(dir string, logger *slog.Logger) *FrameCamera {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrameCamera{root: dir, logger: logger}
}

// ListDevices returns one device per sub-directory. A missing root means no cameras.
func (c *FrameCamera) ListDevices(ctx context.Context) ([]domain.CameraDevice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.root)
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug("frames directory missing", "dir", c.root)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCameraAccess, err)
	}

	var devices []domain.CameraDevice
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		devices = append(devices, domain.CameraDevice{
			ID:    filepath.Join(c.root, e.Name()),
			Label: e.Name(),
		})
	}
	return devices, nil
}

// Acquire opens a device for replay
func (c *FrameCamera) Acquire(ctx context.Context, device domain.CameraDevice) (domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(device.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCameraAccess, err)
	}

	var frames []string
	torch := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if e.Name() == torchMarker {
			torch = true
			continue
		}
		if slices.Contains(frameExts, strings.ToLower(filepath.Ext(e.Name()))) {
			frames = append(frames, filepath.Join(device.ID, e.Name()))
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s has no frames", domain.ErrCameraAccess, device.DisplayName())
	}

	if err := c.claims.claim(device.ID); err != nil {
		return nil, err
	}

	c.logger.Debug("frames device acquired", "device", device.ID, "frames", len(frames), "torch", torch)
	return &frameTrack{
		id:     device.ID,
		paths:  frames,
		cache:  make(map[int]image.Image),
		torch:  torch,
		owner:  c,
		logger: c.logger,
	}, nil
}

type frameTrack struct {
	id     string
	paths  []string
	torch  bool
	owner  *FrameCamera
	logger *slog.Logger

	mu       sync.Mutex
	next     int
	cache    map[int]image.Image
	torchOn  bool
	released bool
}

func (t *frameTrack) ReadFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return nil, fmt.Errorf("%w: track released", domain.ErrCameraAccess)
	}

	i := t.next
	t.next = (t.next + 1) % len(t.paths)

	if img, ok := t.cache[i]; ok {
		return img, nil
	}
	img, err := decodeFrame(t.paths[i])
	if err != nil {
		return nil, err
	}
	t.cache[i] = img
	return img, nil
}

func (t *frameTrack) TorchSupported() bool {
	return t.torch
}

func (t *frameTrack) SetTorch(on bool) error {
	if !t.torch {
		return domain.ErrTorchUnsupported
	}
	t.mu.Lock()
	t.torchOn = on
	t.mu.Unlock()
	t.logger.Debug("frames torch", "device", t.id, "on", on)
	return nil
}

func (t *frameTrack) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return nil
	}
	t.released = true
	t.cache = nil
	t.owner.claims.release(t.id)
	return nil
}

func decodeFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
