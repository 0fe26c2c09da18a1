package service

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/qscan/internal/domain"
)

// DefaultFilename is the name offered when saving a generated code
const DefaultFilename = "qscan-qr.png"

// GenerateService turns text into a code image and saves it on request
type GenerateService struct {
	encoder  domain.Encoder
	saver    domain.ImageSaver
	cfg      domain.RenderConfig
	filename string
	logger   *slog.Logger

	mu      sync.Mutex
	current *domain.GeneratedImage
}

// NewGenerateService creates a generator with a fixed render configuration
func NewGenerateService(
	encoder domain.Encoder,
	saver domain.ImageSaver,
	cfg domain.RenderConfig,
	filename string,
	logger *slog.Logger,
) *GenerateService {
	if logger == nil {
		logger = slog.Default()
	}
	if filename == "" {
		filename = DefaultFilename
	}
	return &GenerateService{
		encoder:  encoder,
		saver:    saver,
		cfg:      cfg,
		filename: filename,
		logger:   logger,
	}
}

// Generate encodes text. Blank input and encoder failures clear the current
// image so download stays disabled.
func (s *GenerateService) Generate(text string) (domain.GeneratedImage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.clear()
		return domain.GeneratedImage{}, domain.ErrEmptyText
	}

	img, err := s.encoder.Encode(text, s.cfg)
	if err != nil {
		s.clear()
		s.logger.Warn("encode failed", "length", len(text), "symbology", s.cfg.Symbology, "error", err)
		if !errors.Is(err, domain.ErrEncodeFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrEncodeFailure, err)
		}
		return domain.GeneratedImage{}, err
	}

	gen := domain.GeneratedImage{SourceText: text, Image: img}
	s.mu.Lock()
	s.current = &gen
	s.mu.Unlock()

	s.logger.Info("generated code", "length", len(text), "symbology", s.cfg.Symbology)
	return gen, nil
}

// Current returns the last generated image
func (s *GenerateService) Current() (domain.GeneratedImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.GeneratedImage{}, false
	}
	return *s.current, true
}

// CanDownload reports whether there is an image to save
func (s *GenerateService) CanDownload() bool {
	_, ok := s.Current()
	return ok
}

// Download PNG-encodes the current image and saves it, returning the path
func (s *GenerateService) Download() (string, error) {
	gen, ok := s.Current()
	if !ok {
		return "", domain.ErrNoImage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, gen.Image); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}

	path, err := s.saver.Save(s.filename, buf.Bytes())
	if err != nil {
		s.logger.Error("failed to save image", "filename", s.filename, "error", err)
		return "", err
	}

	s.logger.Info("saved image", "path", path, "bytes", buf.Len())
	return path, nil
}

func (s *GenerateService) clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
