package codec

import (
	"fmt"
	"image"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
	"github.com/mmcdole/qscan/internal/domain"
	"github.com/skip2/go-qrcode"
)

// Encode engines
const (
	EngineGoQRCode = "go-qrcode"
	EngineZXing    = "zxing"
)

// NewEncoder returns the encode engine named by engine.
// This factory keeps engine choice a configuration decision.
func NewEncoder(engine string) (domain.Encoder, error) {
	switch strings.ToLower(engine) {
	case "", EngineGoQRCode:
		return QREncoder{}, nil
	case EngineZXing:
		return ZXingEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown encode engine: %s", engine)
	}
}

// QREncoder renders QR codes with skip2/go-qrcode
type QREncoder struct{}

// Encode implements domain.Encoder
func (QREncoder) Encode(text string, cfg domain.RenderConfig) (image.Image, error) {
	if sym := normalizeFormat(cfg.Symbology); sym != "" && sym != "qr" && sym != "qrcode" {
		return nil, fmt.Errorf("%w: %s engine only renders QR codes, not %q",
			domain.ErrEncodeFailure, EngineGoQRCode, cfg.Symbology)
	}

	q, err := qrcode.New(text, recoveryLevel(cfg.Recovery))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncodeFailure, err)
	}
	q.DisableBorder = true

	return renderMatrix(q.Bitmap(), cfg)
}

func recoveryLevel(s string) qrcode.RecoveryLevel {
	switch strings.ToUpper(s) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// ZXingEncoder renders QR codes and linear barcodes with gozxing
type ZXingEncoder struct{}

// Encode implements domain.Encoder
func (ZXingEncoder) Encode(text string, cfg domain.RenderConfig) (image.Image, error) {
	format, writer, err := zxingWriter(cfg.Symbology)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncodeFailure, err)
	}

	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_MARGIN: 0,
	}
	if format == gozxing.BarcodeFormat_QR_CODE {
		hints[gozxing.EncodeHintType_ERROR_CORRECTION] = zxingRecovery(cfg.Recovery)
	}

	// Zero size yields one pixel per module; renderMatrix does the scaling
	matrix, err := writer.Encode(text, format, 0, 0, hints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncodeFailure, err)
	}

	return renderMatrix(bitMatrixModules(matrix), cfg)
}

func zxingWriter(symbology string) (gozxing.BarcodeFormat, gozxing.Writer, error) {
	switch normalizeFormat(symbology) {
	case "", "qr", "qrcode":
		return gozxing.BarcodeFormat_QR_CODE, zxqr.NewQRCodeWriter(), nil
	case "code128":
		return gozxing.BarcodeFormat_CODE_128, oned.NewCode128Writer(), nil
	case "code39":
		return gozxing.BarcodeFormat_CODE_39, oned.NewCode39Writer(), nil
	case "ean13":
		return gozxing.BarcodeFormat_EAN_13, oned.NewEAN13Writer(), nil
	case "ean8":
		return gozxing.BarcodeFormat_EAN_8, oned.NewEAN8Writer(), nil
	case "upca":
		return gozxing.BarcodeFormat_UPC_A, oned.NewUPCAWriter(), nil
	default:
		return 0, nil, fmt.Errorf("unsupported symbology %q", symbology)
	}
}

func zxingRecovery(s string) decoder.ErrorCorrectionLevel {
	switch strings.ToUpper(s) {
	case "L":
		return decoder.ErrorCorrectionLevel_L
	case "Q":
		return decoder.ErrorCorrectionLevel_Q
	case "H":
		return decoder.ErrorCorrectionLevel_H
	default:
		return decoder.ErrorCorrectionLevel_M
	}
}

func bitMatrixModules(m *gozxing.BitMatrix) [][]bool {
	w, h := m.GetWidth(), m.GetHeight()
	modules := make([][]bool, h)
	for y := 0; y < h; y++ {
		modules[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			modules[y][x] = m.Get(x, y)
		}
	}
	return modules
}

// normalizeFormat folds "QR_CODE", "qr-code" and "qrcode" to "qrcode"
func normalizeFormat(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
