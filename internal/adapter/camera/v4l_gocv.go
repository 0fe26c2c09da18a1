//go:build gocv

package camera

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/mmcdole/qscan/internal/domain"
	"gocv.io/x/gocv"
)

func openCapture(index int) (domain.Track, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCameraAccess, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: device %d could not be opened", domain.ErrCameraAccess, index)
	}
	return &gocvTrack{vc: vc, mat: gocv.NewMat()}, nil
}

type gocvTrack struct {
	mu       sync.Mutex
	vc       *gocv.VideoCapture
	mat      gocv.Mat
	released bool
}

func (t *gocvTrack) ReadFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return nil, fmt.Errorf("%w: track released", domain.ErrCameraAccess)
	}
	if ok := t.vc.Read(&t.mat); !ok || t.mat.Empty() {
		return nil, fmt.Errorf("%w: no frame", domain.ErrCameraAccess)
	}
	return t.mat.ToImage()
}

// OpenCV exposes no torch control for V4L devices
func (t *gocvTrack) TorchSupported() bool { return false }

func (t *gocvTrack) SetTorch(bool) error { return domain.ErrTorchUnsupported }

func (t *gocvTrack) Release() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return nil
	}
	t.released = true
	t.mat.Close()
	return t.vc.Close()
}
