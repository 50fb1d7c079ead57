package background

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, w, h int, fill func(x, y int) color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill(x, y))
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadAndResizeIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	writeTestPNG(t, path, 4, 4, func(x, y int) color.RGBA {
		return color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255}
	})

	dst := make([]uint8, 4*4*3)
	require.NoError(t, LoadAndResize(path, dst, 4, 4))

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i := (y*4 + x) * 3
			assert.Equal(t, uint8(x*60), dst[i+0])
			assert.Equal(t, uint8(y*60), dst[i+1])
			assert.Equal(t, uint8(128), dst[i+2])
		}
	}
}

func TestLoadAndResizeScalesDown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	writeTestPNG(t, path, 8, 8, func(x, y int) color.RGBA {
		return color.RGBA{R: 200, G: 100, B: 50, A: 255}
	})

	dst := make([]uint8, 2*2*3)
	require.NoError(t, LoadAndResize(path, dst, 2, 2))

	for i := 0; i < len(dst); i += 3 {
		assert.Equal(t, uint8(200), dst[i+0])
		assert.Equal(t, uint8(100), dst[i+1])
		assert.Equal(t, uint8(50), dst[i+2])
	}
}

func TestLoadAndResizeMissingFileErrors(t *testing.T) {
	err := LoadAndResize(filepath.Join(t.TempDir(), "missing.png"), make([]uint8, 12), 2, 2)
	assert.Error(t, err)
}
