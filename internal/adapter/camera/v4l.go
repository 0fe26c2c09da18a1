package camera

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mmcdole/qscan/internal/domain"
)

const defaultMaxProbe = 10

// V4LCamera enumerates Video4Linux capture nodes and opens them through
// OpenCV when built with the gocv tag.
type V4LCamera struct {
	maxProbe int
	devDir   string
	sysDir   string
	logger   *slog.Logger
	claims   claims
	open     func(index int) (domain.Track, error)
}

// NewV4LCamera creates a backend probing /dev/video0 up to /dev/video<maxProbe-1>
func NewV4LCamera(maxProbe int, logger *slog.Logger) *V4LCamera {
	if maxProbe <= 0 {
		maxProbe = defaultMaxProbe
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &V4LCamera{
		maxProbe: maxProbe,
		devDir:   "/dev",
		sysDir:   "/sys/class/video4linux",
		logger:   logger,
		open:     openCapture,
	}
}

// ListDevices returns capture nodes. Metadata nodes, which share a name with
// their capture node but report a non-zero index, are skipped.
func (c *V4LCamera) ListDevices(ctx context.Context) ([]domain.CameraDevice, error) {
	var devices []domain.CameraDevice
	for i := 0; i < c.maxProbe; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node := "video" + strconv.Itoa(i)
		path := filepath.Join(c.devDir, node)
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				c.logger.Debug("probe failed", "device", path, "error", err)
			}
			continue
		}

		if idx := c.sysAttr(node, "index"); idx != "" && idx != "0" {
			continue
		}

		devices = append(devices, domain.CameraDevice{
			ID:    path,
			Label: c.sysAttr(node, "name"),
		})
	}
	return devices, nil
}

// Acquire opens the device through the capture driver
func (c *V4LCamera) Acquire(ctx context.Context, device domain.CameraDevice) (domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index, err := deviceIndex(device.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCameraAccess, err)
	}

	if err := c.claims.claim(device.ID); err != nil {
		return nil, err
	}

	track, err := c.open(index)
	if err != nil {
		c.claims.release(device.ID)
		return nil, err
	}

	c.logger.Debug("v4l device acquired", "device", device.ID, "label", device.Label)
	return &claimedTrack{Track: track, release: func() { c.claims.release(device.ID) }}, nil
}

func (c *V4LCamera) sysAttr(node, attr string) string {
	data, err := os.ReadFile(filepath.Join(c.sysDir, node, attr))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// deviceIndex extracts N from a /dev/videoN path
func deviceIndex(id string) (int, error) {
	base := filepath.Base(id)
	n, ok := strings.CutPrefix(base, "video")
	if !ok {
		return 0, fmt.Errorf("not a video device: %s", id)
	}
	return strconv.Atoi(n)
}

// claimedTrack drops the device claim once the driver track is released
type claimedTrack struct {
	domain.Track
	release func()
}

func (t *claimedTrack) Release() error {
	err := t.Track.Release()
	if t.release != nil {
		t.release()
		t.release = nil
	}
	return err
}
