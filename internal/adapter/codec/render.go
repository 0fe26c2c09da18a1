package codec

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mmcdole/qscan/internal/domain"
	"golang.org/x/image/draw"
)

// linearAspect is the bar height of linear codes as a fraction of their width
const linearAspect = 4

// renderMatrix draws modules (true = dark) inside a quiet zone of cfg.Margin
// modules, scaled by a whole factor and centred on a canvas cfg.Width wide.
// Single-row matrices are linear codes and are stretched into bars.
func renderMatrix(modules [][]bool, cfg domain.RenderConfig) (image.Image, error) {
	if len(modules) == 0 || len(modules[0]) == 0 {
		return nil, fmt.Errorf("%w: empty symbol", domain.ErrEncodeFailure)
	}

	fg, err := parseColor(cfg.Foreground, color.Black)
	if err != nil {
		return nil, err
	}
	bg, err := parseColor(cfg.Background, color.White)
	if err != nil {
		return nil, err
	}

	margin := max(cfg.Margin, 0)
	cols := len(modules[0])
	rows := len(modules)
	linear := rows == 1
	if linear {
		rows = max(cols/linearAspect, 1)
	}

	// One pixel per module; index 0 is background
	src := image.NewPaletted(image.Rect(0, 0, cols+2*margin, rows+2*margin), color.Palette{bg, fg})
	for y := 0; y < rows; y++ {
		row := modules[0]
		if !linear {
			row = modules[y]
		}
		for x, dark := range row {
			if dark {
				src.SetColorIndex(x+margin, y+margin, 1)
			}
		}
	}

	srcW, srcH := src.Bounds().Dx(), src.Bounds().Dy()
	scale := max(cfg.Width/srcW, 1)
	outW := max(cfg.Width, srcW*scale)
	outH := srcH * scale
	padX := (outW - srcW*scale) / 2
	padY := 0
	if srcW == srcH {
		outH = outW
		padY = padX
	}

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	target := image.Rect(padX, padY, padX+srcW*scale, padY+srcH*scale)
	draw.NearestNeighbor.Scale(dst, target, src, src.Bounds(), draw.Src, nil)

	return dst, nil
}

// parseColor parses a "#rrggbb" colour, using def when s is empty
func parseColor(s string, def color.Color) (color.Color, error) {
	if s == "" {
		return def, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}
