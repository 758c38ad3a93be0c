package icons

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/draw"
)

// ErrEmptyImage is returned when there is nothing to scale.
var ErrEmptyImage = errors.New("empty image")

// Scale resizes img to a size x size square with bilinear filtering.
// Images already at the requested size are returned unchanged.
func Scale(img image.Image, size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid icon size %d", size)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	src := img.Bounds()
	if src.Dx() == size && src.Dy() == size {
		return img, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst, nil
}

// ScaleOrKeep is Scale for rendering paths: on failure it logs and returns
// the unscaled image.
func ScaleOrKeep(img image.Image, size int, logger *slog.Logger) image.Image {
	scaled, err := Scale(img, size)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("icon scaling failed; using original", "size", size, "error", err)
		return img
	}
	return scaled
}
