package codec

import (
	"fmt"
	"image/color"
)

// YUYV decodes/encodes the YUYV (YUY2) packed 4:2:2 format two pixels at a
// time, following the same image/color.YCbCr conversion tables the stdlib
// ships, in place of the reference implementation's libyuv binding.
type YUYV struct{}

func (c *YUYV) Decode(wire []byte, rgb []byte, width, height int) error {
	need := width * height * 2
	if len(wire) < need {
		return fmt.Errorf("yuyv: short frame: have %d want %d", len(wire), need)
	}

	for i := 0; i < width*height; i += 2 {
		o := i * 2
		y0, u, y1, v := wire[o], wire[o+1], wire[o+2], wire[o+3]

		r0, g0, b0 := color.YCbCrToRGB(y0, u, v)
		r1, g1, b1 := color.YCbCrToRGB(y1, u, v)

		d := i * 3
		rgb[d+0], rgb[d+1], rgb[d+2] = r0, g0, b0
		rgb[d+3], rgb[d+4], rgb[d+5] = r1, g1, b1
	}
	return nil
}

func (c *YUYV) Encode(rgb []byte, wire []byte, width, height int) (int, error) {
	need := width * height * 2
	if len(wire) < need {
		return 0, fmt.Errorf("yuyv: destination too small: have %d want %d", len(wire), need)
	}

	for i := 0; i < width*height; i += 2 {
		s := i * 3
		y0, u0, v0 := color.RGBToYCbCr(rgb[s+0], rgb[s+1], rgb[s+2])
		y1, u1, v1 := color.RGBToYCbCr(rgb[s+3], rgb[s+4], rgb[s+5])

		o := i * 2
		wire[o+0] = y0
		wire[o+1] = avg8(u0, u1)
		wire[o+2] = y1
		wire[o+3] = avg8(v0, v1)
	}
	return need, nil
}

func avg8(a, b uint8) uint8 { return uint8((uint16(a) + uint16(b)) / 2) }
