package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// MJPEG decodes/encodes one JPEG frame per call, following the teacher's own
// MJPEG-over-HTTP precedent (internal/output's stdlib image/jpeg usage) in
// place of the reference implementation's turbojpeg binding.
type MJPEG struct {
	Quality int
}

func (c *MJPEG) Decode(wire []byte, rgb []byte, width, height int) error {
	img, err := jpeg.Decode(bytes.NewReader(wire))
	if err != nil {
		return fmt.Errorf("mjpeg: decode: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		return fmt.Errorf("mjpeg: decoded %dx%d, expected %dx%d", bounds.Dx(), bounds.Dy(), width, height)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*width + x) * 3
			rgb[i+0] = uint8(r >> 8)
			rgb[i+1] = uint8(g >> 8)
			rgb[i+2] = uint8(b >> 8)
		}
	}
	return nil
}

func (c *MJPEG) Encode(rgb []byte, wire []byte, width, height int) (int, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			o := img.PixOffset(x, y)
			img.Pix[o+0] = rgb[i+0]
			img.Pix[o+1] = rgb[i+1]
			img.Pix[o+2] = rgb[i+2]
			img.Pix[o+3] = 255
		}
	}

	var buf bytes.Buffer
	quality := c.Quality
	if quality <= 0 {
		quality = 95
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return 0, fmt.Errorf("mjpeg: encode: %w", err)
	}
	if buf.Len() > len(wire) {
		return 0, fmt.Errorf("mjpeg: encoded frame (%d bytes) exceeds buffer (%d bytes)", buf.Len(), len(wire))
	}
	copy(wire, buf.Bytes())
	return buf.Len(), nil
}
