package icons

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePNG(t *testing.T, path string, size int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestFromARGB(t *testing.T) {
	img := FromARGB(2, 1, []uint{0xff102030, 0x80ffffff})
	require.NotNil(t, img)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}, img.NRGBAAt(1, 0))
}

func TestFromARGB_ShortData(t *testing.T) {
	assert.Nil(t, FromARGB(2, 2, []uint{1, 2, 3}))
	assert.Nil(t, FromARGB(0, 2, nil))
}

func TestScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	got, err := Scale(src, 30)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 30), got.Bounds())

	same, err := Scale(src, 64)
	require.NoError(t, err)
	assert.Same(t, src, same.(*image.NRGBA))
}

func TestScale_Errors(t *testing.T) {
	_, err := Scale(nil, 30)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Scale(image.NewNRGBA(image.Rect(0, 0, 4, 4)), 0)
	assert.Error(t, err)
}

func TestScaleOrKeep_FallsBackToOriginal(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	got := ScaleOrKeep(src, -1, discardLogger())
	assert.Same(t, src, got.(*image.NRGBA))
}

func TestPlaceholder(t *testing.T) {
	a := Placeholder("firefox", 22)
	b := Placeholder("firefox", 22)
	assert.Equal(t, image.Rect(0, 0, 22, 22), a.Bounds())
	assert.Equal(t, a, b)

	assert.NotNil(t, Placeholder("", 16))
	assert.Equal(t, "?", placeholderLetter("ñandu"))
	assert.Equal(t, "K", placeholderLetter("kitty"))
}

func TestResolver_FindsThemeIcon(t *testing.T) {
	dir := t.TempDir()
	red := color.NRGBA{R: 0xff, A: 0xff}
	writePNG(t, filepath.Join(dir, "icons", "hicolor", "48x48", "apps", "kitty.png"), 48, red)

	r := NewResolver([]string{dir}, discardLogger())
	img := r.Lookup("Kitty", 24)
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 24, 24), img.Bounds())

	rr, gg, bb, _ := img.At(12, 12).RGBA()
	assert.Greater(t, rr, uint32(0xf000))
	assert.Zero(t, gg)
	assert.Zero(t, bb)
}

func TestResolver_PixmapsAndAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "pixmaps", "xterm.png"), 32, color.Black)
	abs := filepath.Join(dir, "custom", "thing.png")
	writePNG(t, abs, 16, color.White)

	r := NewResolver([]string{dir}, discardLogger())
	assert.Equal(t, image.Rect(0, 0, 32, 32), r.Lookup("xterm", 32).Bounds())
	assert.Equal(t, image.Rect(0, 0, 16, 16), r.LookupIcon("whatever", abs, 16).Bounds())
}

func TestResolver_UnknownGetsPlaceholder(t *testing.T) {
	r := NewResolver([]string{t.TempDir()}, discardLogger())
	img := r.Lookup("does-not-exist", 30)
	require.NotNil(t, img)
	assert.Equal(t, Placeholder("does-not-exist", 30), img)
}

func TestResolver_Caches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pixmaps", "app.png")
	writePNG(t, path, 8, color.White)

	r := NewResolver([]string{dir}, discardLogger())
	first := r.Lookup("app", 8)
	require.NoError(t, os.Remove(path))
	assert.Equal(t, first, r.Lookup("app", 8))

	r.Purge()
	assert.Equal(t, Placeholder("app", 8), r.Lookup("app", 8))
}

func TestCandidateNames(t *testing.T) {
	assert.Equal(t,
		[]string{"org.gnome.Nautilus", "org.gnome.nautilus", "nautilus"},
		candidateNames("org.gnome.Nautilus", ""))
	assert.Equal(t,
		[]string{"code", "Visual Studio", "visual studio", "visual-studio"},
		candidateNames("Visual Studio", "code.png"))
}
