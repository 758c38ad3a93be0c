package icons

import "image"

// FromARGB converts _NET_WM_ICON pixel data (one 0xAARRGGBB value per pixel,
// row-major) into an image. It returns nil when the data is too short for
// the given dimensions.
func FromARGB(width, height int, data []uint) *image.NRGBA {
	if width <= 0 || height <= 0 || len(data) < width*height {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		p := data[i]
		o := i * 4
		img.Pix[o] = uint8(p >> 16)
		img.Pix[o+1] = uint8(p >> 8)
		img.Pix[o+2] = uint8(p)
		img.Pix[o+3] = uint8(p >> 24)
	}
	return img
}
