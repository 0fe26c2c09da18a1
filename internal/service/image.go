package service

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/mmcdole/qscan/internal/domain"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DecodeFile loads an image from disk and decodes it like an upload.
// Unreadable files and files without a symbol both report ErrDecodeFailure.
func (s *ScanService) DecodeFile(path string) (domain.DecodedResult, error) {
	f, err := os.Open(path)
	if err != nil {
		s.logger.Warn("failed to open image", "path", path, "error", err)
		return domain.DecodedResult{}, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	defer f.Close()

	s.logger.Info("decoding file", "path", path)
	return s.DecodeReader(f)
}

// DecodeReader decodes any registered image format from r
func (s *ScanService) DecodeReader(r io.Reader) (domain.DecodedResult, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		s.logger.Warn("unsupported or corrupt image", "error", err)
		return domain.DecodedResult{}, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}
	s.logger.Debug("image loaded", "format", format, "bounds", img.Bounds().String())
	return s.DecodeImage(img)
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// scanRegion returns the centred box-by-box square of img, or img itself
// when box is zero, larger than the frame, or the image cannot be cropped.
func scanRegion(img image.Image, box int) image.Image {
	b := img.Bounds()
	if box <= 0 || box >= b.Dx() || box >= b.Dy() {
		return img
	}
	sub, ok := img.(subImager)
	if !ok {
		return img
	}

	x0 := b.Min.X + (b.Dx()-box)/2
	y0 := b.Min.Y + (b.Dy()-box)/2
	return sub.SubImage(image.Rect(x0, y0, x0+box, y0+box))
}
