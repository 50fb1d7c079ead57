// Package background loads the static background image used by Image mode.
package background

import (
	"fmt"
	"image/png"
	"os"

	"github.com/ranjodhsingh/spotlight/internal/imgproc"
)

// LoadAndResize decodes a PNG file and bilinearly resizes it into dst, an
// already-allocated interleaved RGB buffer of outW*outH*3 bytes.
func LoadAndResize(path string, dst []uint8, outW, outH int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("background: decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	inW, inH := bounds.Dx(), bounds.Dy()
	src := make([]uint8, 3*inW*inH)
	for y := 0; y < inH; y++ {
		for x := 0; x < inW; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*inW + x) * 3
			src[i+0] = uint8(r >> 8)
			src[i+1] = uint8(g >> 8)
			src[i+2] = uint8(b >> 8)
		}
	}

	imgproc.ResizeBilinear(src, inW, inH, dst, outW, outH, 3)
	return nil
}
