package codec

import (
	"fmt"
	"image"
	"sync"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/mmcdole/qscan/internal/domain"
	"golang.org/x/image/draw"
)

// maxDecodeSide bounds the longer side of images handed to the readers
const maxDecodeSide = 1600

// formatNames maps normalized config names to symbologies
var formatNames = map[string]gozxing.BarcodeFormat{
	"qr":         gozxing.BarcodeFormat_QR_CODE,
	"qrcode":     gozxing.BarcodeFormat_QR_CODE,
	"datamatrix": gozxing.BarcodeFormat_DATA_MATRIX,
	"ean13":      gozxing.BarcodeFormat_EAN_13,
	"ean8":       gozxing.BarcodeFormat_EAN_8,
	"upca":       gozxing.BarcodeFormat_UPC_A,
	"upce":       gozxing.BarcodeFormat_UPC_E,
	"code128":    gozxing.BarcodeFormat_CODE_128,
	"code39":     gozxing.BarcodeFormat_CODE_39,
	"code93":     gozxing.BarcodeFormat_CODE_93,
	"codabar":    gozxing.BarcodeFormat_CODABAR,
	"itf":        gozxing.BarcodeFormat_ITF,
}

// ZXingDecoder decodes QR, Data Matrix and linear barcodes with gozxing.
// Readers carry state, so calls are serialised.
type ZXingDecoder struct {
	mu      sync.Mutex
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

// NewZXingDecoder builds readers for the formats in cfg (all when empty)
func NewZXingDecoder(cfg domain.ScanConfig) (*ZXingDecoder, error) {
	formats, err := parseFormats(cfg.Formats)
	if err != nil {
		return nil, err
	}

	hints := make(map[gozxing.DecodeHintType]interface{})
	if cfg.TryHarder {
		hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if len(formats) > 0 {
		hints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = formats
	}

	wants := func(f gozxing.BarcodeFormat) bool {
		if len(formats) == 0 {
			return true
		}
		for _, want := range formats {
			if want == f {
				return true
			}
		}
		return false
	}

	var readers []gozxing.Reader
	if wants(gozxing.BarcodeFormat_QR_CODE) {
		readers = append(readers, zxqr.NewQRCodeReader())
	}
	if wants(gozxing.BarcodeFormat_DATA_MATRIX) {
		readers = append(readers, datamatrix.NewDataMatrixReader())
	}
	for _, f := range formats {
		if f != gozxing.BarcodeFormat_QR_CODE && f != gozxing.BarcodeFormat_DATA_MATRIX {
			readers = append(readers, oned.NewMultiFormatOneDReader(hints))
			break
		}
	}
	if len(formats) == 0 {
		readers = append(readers, oned.NewMultiFormatOneDReader(hints))
	}

	return &ZXingDecoder{readers: readers, hints: hints}, nil
}

// Decode implements domain.Decoder
func (d *ZXingDecoder) Decode(img image.Image) (domain.Symbol, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(fitForDecode(img))
	if err != nil {
		return domain.Symbol{}, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range d.readers {
		result, err := r.Decode(bmp, d.hints)
		r.Reset()
		if err != nil {
			continue
		}
		return domain.Symbol{
			Text:   result.GetText(),
			Format: result.GetBarcodeFormat().String(),
		}, nil
	}
	return domain.Symbol{}, domain.ErrDecodeFailure
}

func parseFormats(names []string) ([]gozxing.BarcodeFormat, error) {
	var formats []gozxing.BarcodeFormat
	seen := make(map[gozxing.BarcodeFormat]bool)
	for _, name := range names {
		f, ok := formatNames[normalizeFormat(name)]
		if !ok {
			return nil, fmt.Errorf("unsupported barcode format %q", name)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// fitForDecode downsamples very large photos; binarisation cost grows with area
func fitForDecode(img image.Image) image.Image {
	b := img.Bounds()
	side := max(b.Dx(), b.Dy())
	if side <= maxDecodeSide {
		return img
	}

	w := b.Dx() * maxDecodeSide / side
	h := b.Dy() * maxDecodeSide / side
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
