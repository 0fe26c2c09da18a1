package codec

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/mmcdole/qscan/internal/domain"
)

func defaultRender() domain.RenderConfig {
	return domain.RenderConfig{
		Width:      260,
		Margin:     4,
		Foreground: "#000000",
		Background: "#ffffff",
		Recovery:   "M",
		Symbology:  "qr",
	}
}

func newTestDecoder(t *testing.T, formats ...string) *ZXingDecoder {
	t.Helper()
	d, err := NewZXingDecoder(domain.ScanConfig{Formats: formats, TryHarder: true})
	if err != nil {
		t.Fatalf("NewZXingDecoder() error = %v", err)
	}
	return d
}

func TestEncodeDecodeQR(t *testing.T) {
	dec := newTestDecoder(t)

	for _, engine := range []string{EngineGoQRCode, EngineZXing} {
		t.Run(engine, func(t *testing.T) {
			enc, err := NewEncoder(engine)
			if err != nil {
				t.Fatalf("NewEncoder() error = %v", err)
			}

			for _, text := range []string{"hello", "https://Example.com/path?q=1"} {
				img, err := enc.Encode(text, defaultRender())
				if err != nil {
					t.Fatalf("Encode(%q) error = %v", text, err)
				}
				if img.Bounds().Dx() != 260 || img.Bounds().Dy() != 260 {
					t.Errorf("bounds = %v, want 260x260", img.Bounds())
				}

				sym, err := dec.Decode(img)
				if err != nil {
					t.Fatalf("Decode() error = %v", err)
				}
				if sym.Text != text {
					t.Errorf("decoded %q, want %q", sym.Text, text)
				}
				if sym.Format != "QR_CODE" {
					t.Errorf("format = %q, want QR_CODE", sym.Format)
				}
			}
		})
	}
}

func TestEncodeDecodeCode128(t *testing.T) {
	cfg := defaultRender()
	cfg.Symbology = "code128"
	cfg.Margin = 10
	cfg.Width = 640

	img, err := ZXingEncoder{}.Encode("QSCAN-0042", cfg)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if img.Bounds().Dy() >= img.Bounds().Dx() {
		t.Errorf("linear code should be wider than tall, got %v", img.Bounds())
	}

	sym, err := newTestDecoder(t, "code_128").Decode(img)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if sym.Text != "QSCAN-0042" || sym.Format != "CODE_128" {
		t.Errorf("decoded %+v", sym)
	}
}

func TestEncodeFailures(t *testing.T) {
	long := strings.Repeat("x", 8000)

	tests := []struct {
		name string
		enc  domain.Encoder
		text string
		cfg  func(*domain.RenderConfig)
	}{
		{"go-qrcode over capacity", QREncoder{}, long, nil},
		{"zxing over capacity", ZXingEncoder{}, long, nil},
		{"go-qrcode cannot do code128", QREncoder{}, "abc", func(c *domain.RenderConfig) { c.Symbology = "code128" }},
		{"zxing unknown symbology", ZXingEncoder{}, "abc", func(c *domain.RenderConfig) { c.Symbology = "maxicode" }},
		{"ean13 rejects letters", ZXingEncoder{}, "not-digits", func(c *domain.RenderConfig) { c.Symbology = "ean13" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultRender()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			_, err := tt.enc.Encode(tt.text, cfg)
			if !errors.Is(err, domain.ErrEncodeFailure) {
				t.Errorf("Encode() error = %v, want ErrEncodeFailure", err)
			}
		})
	}
}

func TestNewEncoderUnknownEngine(t *testing.T) {
	if _, err := NewEncoder("qrious"); err == nil {
		t.Error("NewEncoder() should reject unknown engines")
	}
}

func TestDecodeBlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	if _, err := newTestDecoder(t).Decode(img); !errors.Is(err, domain.ErrDecodeFailure) {
		t.Errorf("Decode() error = %v, want ErrDecodeFailure", err)
	}
}

func TestNewZXingDecoderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewZXingDecoder(domain.ScanConfig{Formats: []string{"qr_code", "hologram"}}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRenderMatrixColoursAndMargin(t *testing.T) {
	modules := [][]bool{
		{true, false},
		{false, true},
	}
	cfg := domain.RenderConfig{Width: 60, Margin: 1, Foreground: "#ff0000", Background: "#00ff00"}

	img, err := renderMatrix(modules, cfg)
	if err != nil {
		t.Fatalf("renderMatrix() error = %v", err)
	}
	// 4 modules wide at 15px each
	if img.Bounds() != image.Rect(0, 0, 60, 60) {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	assertColour := func(x, y int, want color.RGBA) {
		t.Helper()
		r, g, b, _ := img.At(x, y).RGBA()
		got := color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0xff}
		if got != want {
			t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
		}
	}
	red := color.RGBA{0xff, 0, 0, 0xff}
	green := color.RGBA{0, 0xff, 0, 0xff}

	assertColour(5, 5, green)   // quiet zone
	assertColour(20, 20, red)   // module (0,0)
	assertColour(35, 20, green) // module (1,0)
	assertColour(35, 35, red)   // module (1,1)

	if _, err := renderMatrix(modules, domain.RenderConfig{Width: 10, Foreground: "blue"}); err == nil {
		t.Error("expected error for invalid colour")
	}
}

func TestFitForDecode(t *testing.T) {
	small := image.NewGray(image.Rect(0, 0, 800, 600))
	if fitForDecode(small) != image.Image(small) {
		t.Error("small images should pass through")
	}

	big := image.NewGray(image.Rect(0, 0, 4000, 3000))
	got := fitForDecode(big).Bounds()
	if got.Dx() != maxDecodeSide || got.Dy() != 1200 {
		t.Errorf("bounds = %v, want %dx1200", got, maxDecodeSide)
	}
}
