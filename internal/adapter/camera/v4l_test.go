package camera

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/qscan/internal/domain"
)

type stubTrack struct{ released int }

func (s *stubTrack) ReadFrame(context.Context) (image.Image, error) { return nil, nil }
func (s *stubTrack) TorchSupported() bool                            { return false }
func (s *stubTrack) SetTorch(bool) error                             { return domain.ErrTorchUnsupported }
func (s *stubTrack) Release() error                                  { s.released++; return nil }

func fakeV4L(t *testing.T) *V4LCamera {
	t.Helper()
	dev := t.TempDir()
	sys := t.TempDir()

	nodes := map[string][2]string{
		"video0": {"Integrated Camera", "0"},
		"video1": {"Integrated Camera", "1"}, // metadata node
		"video2": {"USB Rear Camera", "0"},
		"video4": {"", ""},
	}
	for node, attrs := range nodes {
		if err := os.WriteFile(filepath.Join(dev, node), nil, 0644); err != nil {
			t.Fatal(err)
		}
		dir := filepath.Join(sys, node)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if attrs[0] != "" {
			os.WriteFile(filepath.Join(dir, "name"), []byte(attrs[0]+"\n"), 0644)
		}
		if attrs[1] != "" {
			os.WriteFile(filepath.Join(dir, "index"), []byte(attrs[1]+"\n"), 0644)
		}
	}

	cam := NewV4LCamera(0, nil)
	cam.devDir = dev
	cam.sysDir = sys
	return cam
}

func TestV4LListDevices(t *testing.T) {
	cam := fakeV4L(t)

	devices, err := cam.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices() error = %v", err)
	}

	want := []domain.CameraDevice{
		{ID: filepath.Join(cam.devDir, "video0"), Label: "Integrated Camera"},
		{ID: filepath.Join(cam.devDir, "video2"), Label: "USB Rear Camera"},
		{ID: filepath.Join(cam.devDir, "video4"), Label: ""},
	}
	if len(devices) != len(want) {
		t.Fatalf("got %+v, want %+v", devices, want)
	}
	for i := range want {
		if devices[i] != want[i] {
			t.Errorf("devices[%d] = %+v, want %+v", i, devices[i], want[i])
		}
	}
	if devices[2].DisplayName() != devices[2].ID {
		t.Errorf("unlabelled device should display its ID")
	}
}

func TestV4LAcquireClaims(t *testing.T) {
	ctx := context.Background()
	cam := fakeV4L(t)

	var opened []int
	stub := &stubTrack{}
	cam.open = func(index int) (domain.Track, error) {
		opened = append(opened, index)
		return stub, nil
	}

	dev := domain.CameraDevice{ID: filepath.Join(cam.devDir, "video2")}
	track, err := cam.Acquire(ctx, dev)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if len(opened) != 1 || opened[0] != 2 {
		t.Errorf("opened = %v, want [2]", opened)
	}

	if _, err := cam.Acquire(ctx, dev); !errors.Is(err, domain.ErrCameraAccess) {
		t.Errorf("second Acquire() error = %v, want ErrCameraAccess", err)
	}

	track.Release()
	if stub.released != 1 {
		t.Errorf("driver released %d times, want 1", stub.released)
	}
	if _, err := cam.Acquire(ctx, dev); err != nil {
		t.Errorf("Acquire() after release error = %v", err)
	}
}

func TestV4LAcquireOpenFailure(t *testing.T) {
	ctx := context.Background()
	cam := fakeV4L(t)
	cam.open = func(int) (domain.Track, error) {
		return nil, errors.New("permission denied")
	}

	dev := domain.CameraDevice{ID: filepath.Join(cam.devDir, "video0")}
	if _, err := cam.Acquire(ctx, dev); err == nil {
		t.Fatal("expected error")
	}
	// The claim is dropped so a retry reaches the driver again
	if err := cam.claims.claim(dev.ID); err != nil {
		t.Errorf("claim after failed open: %v", err)
	}
}

func TestDeviceIndex(t *testing.T) {
	tests := []struct {
		id      string
		want    int
		wantErr bool
	}{
		{"/dev/video0", 0, false},
		{"/dev/video12", 12, false},
		{"/dev/media0", 0, true},
		{"/dev/videoX", 0, true},
	}
	for _, tt := range tests {
		got, err := deviceIndex(tt.id)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("deviceIndex(%q) = %d, %v", tt.id, got, err)
		}
	}
}
