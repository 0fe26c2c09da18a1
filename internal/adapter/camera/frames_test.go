package camera

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/qscan/internal/config"
	"github.com/mmcdole/qscan/internal/domain"
)

func writePNG(t *testing.T, path string, shade uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func setupFrames(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	back := filepath.Join(root, "Back Camera")
	front := filepath.Join(root, "Front Camera")
	empty := filepath.Join(root, "Broken")
	for _, d := range []string{back, front, empty, filepath.Join(root, ".hidden")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	writePNG(t, filepath.Join(back, "001.png"), 0x10)
	writePNG(t, filepath.Join(back, "002.png"), 0x20)
	if err := os.WriteFile(filepath.Join(back, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(back, torchMarker), nil, 0644); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(front, "frame.png"), 0x30)

	return root
}

func TestFrameCameraListDevices(t *testing.T) {
	cam := NewFrameCamera(setupFrames(t), nil)

	devices, err := cam.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices() error = %v", err)
	}

	want := []string{"Back Camera", "Broken", "Front Camera"}
	if len(devices) != len(want) {
		t.Fatalf("got %d devices, want %d: %+v", len(devices), len(want), devices)
	}
	for i, d := range devices {
		if d.Label != want[i] {
			t.Errorf("devices[%d].Label = %q, want %q", i, d.Label, want[i])
		}
	}
}

func TestFrameCameraMissingRoot(t *testing.T) {
	cam := NewFrameCamera(filepath.Join(t.TempDir(), "nope"), nil)

	devices, err := cam.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices() error = %v", err)
	}
	if len(devices) != 0 {
		t.Errorf("got %d devices, want none", len(devices))
	}
}

func TestFrameTrackReplaysFrames(t *testing.T) {
	ctx := context.Background()
	cam := NewFrameCamera(setupFrames(t), nil)
	devices, _ := cam.ListDevices(ctx)

	track, err := cam.Acquire(ctx, devices[0])
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer track.Release()

	shades := []uint8{0x10, 0x20, 0x10}
	for i, want := range shades {
		img, err := track.ReadFrame(ctx)
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		if got := color.GrayModel.Convert(img.At(0, 0)).(color.Gray).Y; got != want {
			t.Errorf("frame %d shade = %#x, want %#x", i, got, want)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := track.ReadFrame(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadFrame() with cancelled ctx error = %v", err)
	}
}

func TestFrameCameraExclusiveAcquire(t *testing.T) {
	ctx := context.Background()
	cam := NewFrameCamera(setupFrames(t), nil)
	devices, _ := cam.ListDevices(ctx)

	first, err := cam.Acquire(ctx, devices[0])
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if _, err := cam.Acquire(ctx, devices[0]); !errors.Is(err, domain.ErrCameraAccess) {
		t.Errorf("second Acquire() error = %v, want ErrCameraAccess", err)
	}

	// Other devices stay available
	other, err := cam.Acquire(ctx, devices[2])
	if err != nil {
		t.Fatalf("Acquire(front) error = %v", err)
	}
	other.Release()

	if err := first.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := first.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
	if _, err := first.ReadFrame(ctx); !errors.Is(err, domain.ErrCameraAccess) {
		t.Errorf("ReadFrame() after release error = %v", err)
	}

	again, err := cam.Acquire(ctx, devices[0])
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	again.Release()
}

func TestFrameCameraNoFrames(t *testing.T) {
	ctx := context.Background()
	cam := NewFrameCamera(setupFrames(t), nil)
	devices, _ := cam.ListDevices(ctx)

	if _, err := cam.Acquire(ctx, devices[1]); !errors.Is(err, domain.ErrCameraAccess) {
		t.Errorf("Acquire(empty) error = %v, want ErrCameraAccess", err)
	}

	// A failed acquire must not hold the claim
	if err := cam.claims.claim(devices[1].ID); err != nil {
		t.Errorf("claim after failed acquire: %v", err)
	}
}

func TestFrameTrackTorch(t *testing.T) {
	ctx := context.Background()
	cam := NewFrameCamera(setupFrames(t), nil)
	devices, _ := cam.ListDevices(ctx)

	back, _ := cam.Acquire(ctx, devices[0])
	defer back.Release()
	if !back.TorchSupported() {
		t.Error("back camera should report torch")
	}
	if err := back.SetTorch(true); err != nil {
		t.Errorf("SetTorch() error = %v", err)
	}

	front, _ := cam.Acquire(ctx, devices[2])
	defer front.Release()
	if front.TorchSupported() {
		t.Error("front camera should not report torch")
	}
	if err := front.SetTorch(true); !errors.Is(err, domain.ErrTorchUnsupported) {
		t.Errorf("SetTorch() error = %v, want ErrTorchUnsupported", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.CameraConfig
		want    string
		wantErr bool
	}{
		{"nil", nil, "", true},
		{"frames", &config.CameraConfig{Backend: config.CameraBackendFrames, FramesDir: "/tmp/x"}, "*camera.FrameCamera", false},
		{"frames without dir", &config.CameraConfig{Backend: config.CameraBackendFrames}, "", true},
		{"v4l", &config.CameraConfig{Backend: config.CameraBackendV4L}, "*camera.V4LCamera", false},
		{"unknown", &config.CameraConfig{Backend: "webrtc"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam, err := New(tt.cfg, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch cam.(type) {
			case *FrameCamera:
				if tt.want != "*camera.FrameCamera" {
					t.Errorf("got FrameCamera, want %s", tt.want)
				}
			case *V4LCamera:
				if tt.want != "*camera.V4LCamera" {
					t.Errorf("got V4LCamera, want %s", tt.want)
				}
			}
		})
	}
}
