package codec

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranjodhsingh/spotlight/internal/config"
)

func TestForFourCCResolvesKnownFormats(t *testing.T) {
	mjpg, _ := config.ParseFourCC("MJPG")
	c, err := ForFourCC(mjpg, 90)
	require.NoError(t, err)
	_, ok := c.(*MJPEG)
	assert.True(t, ok)

	yuyv, _ := config.ParseFourCC("YUYV")
	c, err = ForFourCC(yuyv, 90)
	require.NoError(t, err)
	_, ok = c.(*YUYV)
	assert.True(t, ok)
}

func TestForFourCCRejectsUnknown(t *testing.T) {
	rgb3, _ := config.ParseFourCC("RGB3")
	_, err := ForFourCC(rgb3, 90)
	require.Error(t, err)
	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestYUYVRoundTripApproximatesOriginal(t *testing.T) {
	// Give each horizontal pixel pair identical color so 4:2:2 chroma
	// averaging introduces no additional loss beyond the YCbCr<->RGB
	// conversion's own rounding.
	const w, h = 4, 2
	rgb := make([]byte, w*h*3)
	colors := [][3]byte{{200, 40, 90}, {10, 220, 60}}
	for py := 0; py < h; py++ {
		for px := 0; px < w; px += 2 {
			c := colors[(py*w+px)/2%len(colors)]
			for k := 0; k < 2; k++ {
				i := (py*w + px + k) * 3
				rgb[i+0], rgb[i+1], rgb[i+2] = c[0], c[1], c[2]
			}
		}
	}

	y := &YUYV{}
	wire := make([]byte, w*h*2)
	n, err := y.Encode(rgb, wire, w, h)
	require.NoError(t, err)
	assert.Equal(t, w*h*2, n)

	out := make([]byte, w*h*3)
	require.NoError(t, y.Decode(wire, out, w, h))

	for i := range out {
		assert.InDelta(t, rgb[i], out[i], 8, "byte %d diverged under YCbCr round-trip", i)
	}
}

func TestYUYVDecodeRejectsShortFrame(t *testing.T) {
	y := &YUYV{}
	err := y.Decode([]byte{1, 2, 3}, make([]byte, 100), 4, 4)
	assert.Error(t, err)
}

func TestMJPEGEncodeDecodeRoundTrip(t *testing.T) {
	const w, h = 8, 8
	rgb := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			rgb[i+0] = byte(x * 16)
			rgb[i+1] = byte(y * 16)
			rgb[i+2] = 128
		}
	}

	m := &MJPEG{Quality: 95}
	wire := make([]byte, 64*1024)
	n, err := m.Encode(rgb, wire, w, h)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	// Sanity check the encoded bytes really are a decodable JPEG of the
	// right size, independent of our own Decode path.
	img, err := jpeg.Decode(bytes.NewReader(wire[:n]))
	require.NoError(t, err)
	assert.Equal(t, w, img.Bounds().Dx())
	assert.Equal(t, h, img.Bounds().Dy())

	out := make([]byte, w*h*3)
	require.NoError(t, m.Decode(wire[:n], out, w, h))
	// Lossy; just check the signal survived roughly.
	for i := range out {
		assert.InDelta(t, rgb[i], out[i], 40)
	}
}

func TestMJPEGDecodeRejectsSizeMismatch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	m := &MJPEG{}
	err := m.Decode(buf.Bytes(), make([]byte, 100*100*3), 100, 100)
	assert.Error(t, err)
}

func TestMJPEGEncodeRejectsUndersizedBuffer(t *testing.T) {
	const w, h = 32, 32
	rgb := make([]byte, w*h*3)
	m := &MJPEG{Quality: 95}
	_, err := m.Encode(rgb, make([]byte, 4), w, h)
	assert.Error(t, err)
}
