package domain

import (
	"context"
	"image"
)

// CameraDevice is a capture device as reported by the camera backend.
// Devices are enumerated each time scanning starts and never persisted.
type CameraDevice struct {
	ID    string // Opaque backend identifier
	Label string // Human-readable name, may be empty
}

// DisplayName returns the label, falling back to the ID for unlabeled devices
func (d CameraDevice) DisplayName() string {
	if d.Label != "" {
		return d.Label
	}
	return d.ID
}

// Camera enumerates and acquires capture devices.
type Camera interface {
	// ListDevices returns the available devices. An empty slice means none.
	ListDevices(ctx context.Context) ([]CameraDevice, error)

	// Acquire opens a device for exclusive capture. The returned track must be
	// released before the same device can be acquired again.
	Acquire(ctx context.Context, device CameraDevice) (Track, error)
}

// Track is an acquired camera stream.
type Track interface {
	// ReadFrame blocks until the next frame is available
	ReadFrame(ctx context.Context) (image.Image, error)

	// TorchSupported reports whether the track exposes a torch capability
	TorchSupported() bool

	// SetTorch applies the torch constraint
	SetTorch(on bool) error

	// Release frees the underlying hardware handle
	Release() error
}
