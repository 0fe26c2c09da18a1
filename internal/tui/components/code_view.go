package components

import (
	"image"
	"image/color"
	"strings"

	"github.com/mmcdole/qscan/internal/tui/styles"
)

// RenderCode draws img with half-block characters so that one text cell
// covers two vertically stacked samples. The result fits in maxCols by
// maxRows cells.
func RenderCode(img image.Image, maxCols, maxRows int) string {
	if img == nil || maxCols <= 0 || maxRows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Empty() {
		return ""
	}

	cols := min(b.Dx(), maxCols)
	// Samples per row are square in pixels; each text row holds two
	if rows := (b.Dy()*cols/b.Dx() + 1) / 2; rows > maxRows {
		cols = max(maxRows*2*b.Dx()/b.Dy(), 1)
	}
	sampleRows := max(b.Dy()*cols/b.Dx(), 1)

	dark := func(sx, sy int) bool {
		if sy >= sampleRows {
			return false
		}
		x := b.Min.X + (2*sx+1)*b.Dx()/(2*cols)
		y := b.Min.Y + (2*sy+1)*b.Dy()/(2*sampleRows)
		return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 0x80
	}

	lines := make([]string, 0, (sampleRows+1)/2)
	var sb strings.Builder
	for sy := 0; sy < sampleRows; sy += 2 {
		sb.Reset()
		for sx := 0; sx < cols; sx++ {
			top, bottom := dark(sx, sy), dark(sx, sy+1)
			switch {
			case top && bottom:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bottom:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
		lines = append(lines, styles.CodeStyle.Render(sb.String()))
	}
	return strings.Join(lines, "\n")
}
