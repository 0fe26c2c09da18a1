//go:build !gocv

package camera

import (
	"fmt"

	"github.com/mmcdole/qscan/internal/domain"
)

func openCapture(index int) (domain.Track, error) {
	return nil, fmt.Errorf("%w: video%d: built without gocv, rebuild with -tags gocv", domain.ErrCameraAccess, index)
}
