package icons

import (
	"hash/fnv"
	"image"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var placeholderPalette = []color.NRGBA{
	{R: 0x5e, G: 0x81, B: 0xac, A: 0xff},
	{R: 0xbf, G: 0x61, B: 0x6a, A: 0xff},
	{R: 0xa3, G: 0xbe, B: 0x8c, A: 0xff},
	{R: 0xd0, G: 0x87, B: 0x70, A: 0xff},
	{R: 0xb4, G: 0x8e, B: 0xad, A: 0xff},
	{R: 0x88, G: 0xc0, B: 0xd0, A: 0xff},
}

// Placeholder draws a generic icon: a tile colored by appID with its first
// letter in the middle. The same appID always yields the same tile.
func Placeholder(appID string, size int) image.Image {
	if size <= 0 {
		size = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(appID)))
	bg := placeholderPalette[h.Sum32()%uint32(len(placeholderPalette))]
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	letter := placeholderLetter(appID)
	face := basicfont.Face7x13
	width := font.MeasureString(face, letter).Ceil()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((size - width) / 2),
			Y: fixed.I((size + face.Ascent - face.Descent) / 2),
		},
	}
	d.DrawString(letter)
	return img
}

func placeholderLetter(appID string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(appID))
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return "?"
	}
	r = unicode.ToUpper(r)
	if r > unicode.MaxASCII {
		// basicfont only covers ASCII.
		return "?"
	}
	return string(r)
}
