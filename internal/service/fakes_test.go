package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/mmcdole/qscan/internal/domain"
)

// fakeCamera counts acquisitions and refuses to hand out a device twice
type fakeCamera struct {
	mu         sync.Mutex
	devices    []domain.CameraDevice
	listErr    error
	acquireErr error
	block      chan struct{} // ListDevices waits on it when set
	torch      bool

	acquired int
	released int
	inUse    map[string]bool
	order    []string // acquire/release events, e.g. "acquire:a"
}

func newFakeCamera(devices ...domain.CameraDevice) *fakeCamera {
	return &fakeCamera{devices: devices, inUse: make(map[string]bool)}
}

func (c *fakeCamera) ListDevices(ctx context.Context) ([]domain.CameraDevice, error) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	return append([]domain.CameraDevice(nil), c.devices...), nil
}

func (c *fakeCamera) Acquire(ctx context.Context, device domain.CameraDevice) (domain.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.acquireErr != nil {
		return nil, c.acquireErr
	}
	if len(c.inUse) > 0 {
		return nil, fmt.Errorf("device already in use")
	}
	c.inUse[device.ID] = true
	c.acquired++
	c.order = append(c.order, "acquire:"+device.ID)
	return &fakeTrack{camera: c, id: device.ID, torch: c.torch}, nil
}

func (c *fakeCamera) release(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inUse[id] {
		return fmt.Errorf("device %s not acquired", id)
	}
	delete(c.inUse, id)
	c.released++
	c.order = append(c.order, "release:"+id)
	return nil
}

func (c *fakeCamera) counts() (acquired, released int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquired, c.released
}

func (c *fakeCamera) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

type fakeTrack struct {
	camera *fakeCamera
	id     string
	torch  bool

	mu      sync.Mutex
	torchOn bool
}

func (t *fakeTrack) ReadFrame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	img.SetGray(0, 0, color.Gray{Y: 255})
	return img, nil
}

func (t *fakeTrack) TorchSupported() bool { return t.torch }

func (t *fakeTrack) SetTorch(on bool) error {
	t.mu.Lock()
	t.torchOn = on
	t.mu.Unlock()
	return nil
}

func (t *fakeTrack) Release() error { return t.camera.release(t.id) }

// fakeDecoder returns sym for every image, or ErrDecodeFailure when empty
type fakeDecoder struct {
	mu  sync.Mutex
	sym domain.Symbol
	err error
}

func (d *fakeDecoder) Decode(img image.Image) (domain.Symbol, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return domain.Symbol{}, d.err
	}
	if d.sym.Text == "" {
		return domain.Symbol{}, domain.ErrDecodeFailure
	}
	return d.sym, nil
}

func (d *fakeDecoder) set(sym domain.Symbol) {
	d.mu.Lock()
	d.sym = sym
	d.mu.Unlock()
}

type chanObserver chan domain.DecodedResult

func (o chanObserver) OnResult(r domain.DecodedResult) {
	select {
	case o <- r:
	default:
	}
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeOpener struct{ opened []string }

func (o *fakeOpener) Open(url string) error {
	o.opened = append(o.opened, url)
	return nil
}

type memPrefs struct{ last string }

func (p *memPrefs) LastCamera() string { return p.last }

func (p *memPrefs) SetLastCamera(id string) error {
	p.last = id
	return nil
}

type fakeEncoder struct{ err error }

func (e fakeEncoder) Encode(text string, cfg domain.RenderConfig) (image.Image, error) {
	if e.err != nil {
		return nil, e.err
	}
	return image.NewGray(image.Rect(0, 0, cfg.Width, cfg.Width)), nil
}

type memSaver struct {
	files map[string][]byte
	err   error
}

func (s *memSaver) Save(filename string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[filename] = data
	return "/tmp/" + filename, nil
}

var errPermission = errors.New("permission denied")
