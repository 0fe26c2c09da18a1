package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/qscan/internal/domain"
)

const defaultFPS = 15

// prefStore remembers the last camera used (consumer-defined interface)
type prefStore interface {
	LastCamera() string
	SetLastCamera(id string) error
}

// ScanDeps are the collaborators of the scan controller.
// Clipboard, Opener and Prefs may be nil.
type ScanDeps struct {
	Camera    domain.Camera
	Decoder   domain.Decoder
	Clipboard domain.Clipboard
	Opener    domain.LinkOpener
	Prefs     prefStore
}

// ScanService owns the camera lifecycle and the current decoded result.
// Only one session transition (start, stop, flip, select) runs at a time;
// a transition requested while another is pending returns domain.ErrBusy.
type ScanService struct {
	deps   ScanDeps
	cfg    domain.ScanConfig
	logger *slog.Logger

	mu       sync.Mutex
	busy     bool
	closed   bool
	session  domain.ScanSession
	track    domain.Track
	stopLoop context.CancelFunc
	loopDone chan struct{}
	observer domain.ResultObserver
	result   *domain.DecodedResult
}

// NewScanService creates a scan controller in the Idle state
func NewScanService(deps ScanDeps, cfg domain.ScanConfig, logger *slog.Logger) *ScanService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = defaultFPS
	}
	return &ScanService{
		deps:   deps,
		cfg:    cfg,
		logger: logger,
		session: domain.ScanSession{
			State:             domain.ScanIdle,
			ActiveCameraIndex: domain.NoCamera,
		},
	}
}

// SetObserver registers the sink for live scan results
func (s *ScanService) SetObserver(o domain.ResultObserver) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
}

// Session returns a snapshot of the current session
func (s *ScanService) Session() domain.ScanSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.session
	snap.Devices = append([]domain.CameraDevice(nil), s.session.Devices...)
	return snap
}

// Result returns the most recent decoded result
func (s *ScanService) Result() (domain.DecodedResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return domain.DecodedResult{}, false
	}
	return *s.result, true
}

// CanCopy reports whether a result is available to copy
func (s *ScanService) CanCopy() bool {
	_, ok := s.Result()
	return ok
}

// CanOpen reports whether the current result is a link
func (s *ScanService) CanOpen() bool {
	r, ok := s.Result()
	return ok && r.IsLink
}

// CanToggleTorch reports whether the active track exposes a torch
func (s *ScanService) CanToggleTorch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track != nil && s.track.TorchSupported()
}

// Start enumerates cameras, picks one and attaches the frame loop.
// It is a no-op while already scanning.
func (s *ScanService) Start(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	if !s.session.State.CanStart() {
		s.mu.Unlock()
		return nil
	}
	prev := s.session.State
	if prev == domain.ScanError {
		prev = domain.ScanIdle
	}
	s.session.State = domain.ScanStarting
	s.session.ID = uuid.NewString()
	sessionID := s.session.ID
	s.mu.Unlock()

	s.logger.Info("starting scan session", "session", sessionID)

	devices, err := s.deps.Camera.ListDevices(ctx)
	if err != nil {
		s.logger.Error("camera enumeration failed", "session", sessionID, "error", err)
		s.setState(prev)
		return wrapAccess(err)
	}

	if len(devices) == 0 {
		s.mu.Lock()
		s.session.State = domain.ScanError
		s.session.Devices = nil
		s.session.ActiveCameraIndex = domain.NoCamera
		s.mu.Unlock()
		s.logger.Warn("no cameras available", "session", sessionID)
		return domain.ErrNoCamera
	}

	idx := domain.SelectCamera(devices, s.cfg, s.lastCamera())

	s.mu.Lock()
	s.session.Devices = devices
	s.session.ActiveCameraIndex = idx
	s.mu.Unlock()

	if err := s.attach(ctx, devices[idx]); err != nil {
		s.setState(prev)
		return err
	}

	s.setState(domain.ScanScanning)
	return nil
}

// Stop releases the camera track and waits for the frame loop to exit.
func (s *ScanService) Stop() error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	state := s.session.State
	s.mu.Unlock()
	if state != domain.ScanScanning {
		return nil
	}

	s.detach()
	s.setState(domain.ScanStopped)
	s.logger.Info("scan session stopped", "session", s.Session().ID)
	return nil
}

// Flip switches to the next enumerated camera, wrapping around.
func (s *ScanService) Flip(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	if s.session.State != domain.ScanScanning {
		s.mu.Unlock()
		return domain.ErrNotScanning
	}
	next := domain.NextCameraIndex(s.session.ActiveCameraIndex, len(s.session.Devices))
	s.mu.Unlock()

	return s.switchTo(ctx, next)
}

// UseCamera switches to the device at index. From Stopped it restarts
// scanning on that device without re-enumerating.
func (s *ScanService) UseCamera(ctx context.Context, index int) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	state := s.session.State
	count := len(s.session.Devices)
	s.mu.Unlock()

	if index < 0 || index >= count {
		return fmt.Errorf("camera index %d out of range (%d devices)", index, count)
	}

	switch state {
	case domain.ScanScanning:
		return s.switchTo(ctx, index)
	case domain.ScanStopped:
		s.mu.Lock()
		s.session.State = domain.ScanStarting
		s.session.ActiveCameraIndex = index
		device := s.session.Devices[index]
		s.mu.Unlock()

		if err := s.attach(ctx, device); err != nil {
			s.setState(domain.ScanStopped)
			return err
		}
		s.setState(domain.ScanScanning)
		return nil
	default:
		return domain.ErrNotScanning
	}
}

// ToggleTorch flips the torch on the active track and returns the new state.
func (s *ScanService) ToggleTorch() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return s.session.TorchEnabled, domain.ErrBusy
	}
	if s.track == nil {
		return false, domain.ErrNotScanning
	}
	if !s.track.TorchSupported() {
		return s.session.TorchEnabled, domain.ErrTorchUnsupported
	}

	next := !s.session.TorchEnabled
	if err := s.track.SetTorch(next); err != nil {
		s.logger.Error("failed to apply torch", "session", s.session.ID, "error", err)
		return s.session.TorchEnabled, wrapAccess(err)
	}
	s.session.TorchEnabled = next
	s.logger.Debug("torch toggled", "session", s.session.ID, "on", next)
	return next, nil
}

// DecodeImage runs a single-shot decode on a still image. A failure leaves
// the session and the previous result untouched.
func (s *ScanService) DecodeImage(img image.Image) (domain.DecodedResult, error) {
	sym, err := s.deps.Decoder.Decode(img)
	if err != nil {
		s.logger.Info("image decode failed", "error", err)
		if !errors.Is(err, domain.ErrDecodeFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
		}
		return domain.DecodedResult{}, err
	}

	r := domain.NewDecodedResult(sym, domain.SourceFile)
	s.mu.Lock()
	s.result = &r
	s.mu.Unlock()

	s.logger.Info("decoded image", "format", r.Format, "isLink", r.IsLink)
	return r, nil
}

// CopyResult writes the current payload to the clipboard
func (s *ScanService) CopyResult() error {
	r, ok := s.Result()
	if !ok {
		return domain.ErrNoResult
	}
	if s.deps.Clipboard == nil {
		return errors.New("clipboard unavailable")
	}
	if err := s.deps.Clipboard.WriteText(r.Payload); err != nil {
		s.logger.Warn("clipboard write failed", "error", err)
		return err
	}
	return nil
}

// OpenResult opens the current payload when it is a link
func (s *ScanService) OpenResult() error {
	r, ok := s.Result()
	if !ok {
		return domain.ErrNoResult
	}
	if !r.IsLink {
		return domain.ErrNotLink
	}
	if s.deps.Opener == nil {
		return errors.New("no link opener configured")
	}
	if err := s.deps.Opener.Open(r.Payload); err != nil {
		s.logger.Error("failed to open link", "url", r.Payload, "error", err)
		return err
	}
	return nil
}

// Close releases the camera regardless of pending transitions.
// Any acquisition that completes afterwards is released immediately.
func (s *ScanService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if s.detach() {
		s.setState(domain.ScanStopped)
	}
}

// begin claims the single in-flight transition slot
func (s *ScanService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.ErrBusy
	}
	s.busy = true
	return nil
}

func (s *ScanService) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *ScanService) setState(state domain.ScanState) {
	s.mu.Lock()
	s.session.State = state
	s.mu.Unlock()
}

// switchTo detaches the current track and attaches the device at index.
// The previous track is released before the next is acquired.
func (s *ScanService) switchTo(ctx context.Context, index int) error {
	s.detach()

	s.mu.Lock()
	s.session.ActiveCameraIndex = index
	device := s.session.Devices[index]
	sessionID := s.session.ID
	s.mu.Unlock()

	s.logger.Info("switching camera", "session", sessionID, "index", index, "camera", device.DisplayName())

	if err := s.attach(ctx, device); err != nil {
		s.setState(domain.ScanStopped)
		return err
	}
	return nil
}

// attach acquires device and starts the frame loop on it
func (s *ScanService) attach(ctx context.Context, device domain.CameraDevice) error {
	track, err := s.deps.Camera.Acquire(ctx, device)
	if err != nil {
		s.logger.Error("camera acquisition failed", "camera", device.DisplayName(), "error", err)
		return wrapAccess(err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		track.Release()
		return fmt.Errorf("%w: scanner closed", domain.ErrCameraAccess)
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.track = track
	s.stopLoop = cancel
	s.loopDone = done
	s.session.TorchEnabled = false
	sessionID := s.session.ID
	s.mu.Unlock()

	go s.frameLoop(loopCtx, track, done)

	s.logger.Info("camera attached", "session", sessionID, "camera", device.DisplayName(),
		"torch", track.TorchSupported())
	s.rememberCamera(device)
	return nil
}

// detach stops the frame loop, waits for it, then releases the track.
// It reports whether a track was attached.
func (s *ScanService) detach() bool {
	s.mu.Lock()
	track, cancel, done := s.track, s.stopLoop, s.loopDone
	s.track = nil
	s.stopLoop = nil
	s.loopDone = nil
	s.session.TorchEnabled = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	if track == nil {
		return false
	}
	if err := track.Release(); err != nil {
		s.logger.Warn("camera release failed", "error", err)
	}
	return true
}

// frameLoop decodes frames at the configured rate until ctx is cancelled.
// Frames without a symbol are skipped silently.
func (s *ScanService) frameLoop(ctx context.Context, track domain.Track, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := track.ReadFrame(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			if failures == 1 {
				s.logger.Warn("frame read failed", "error", err)
			}
			continue
		}
		failures = 0

		sym, err := s.deps.Decoder.Decode(scanRegion(frame, s.cfg.QRBox))
		if err != nil {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		s.publish(domain.NewDecodedResult(sym, domain.SourceCamera))
	}
}

func (s *ScanService) publish(r domain.DecodedResult) {
	s.mu.Lock()
	s.result = &r
	obs := s.observer
	s.mu.Unlock()

	s.logger.Debug("decoded frame", "format", r.Format, "isLink", r.IsLink)
	if obs != nil {
		obs.OnResult(r)
	}
}

func (s *ScanService) lastCamera() string {
	if s.deps.Prefs == nil {
		return ""
	}
	return s.deps.Prefs.LastCamera()
}

func (s *ScanService) rememberCamera(device domain.CameraDevice) {
	if s.deps.Prefs == nil {
		return
	}
	if err := s.deps.Prefs.SetLastCamera(device.ID); err != nil {
		s.logger.Warn("failed to remember camera", "camera", device.ID, "error", err)
	}
}

func wrapAccess(err error) error {
	if errors.Is(err, domain.ErrCameraAccess) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCameraAccess, err)
}
