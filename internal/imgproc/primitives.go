// Package imgproc implements the pipeline's image primitives: elementwise
// scale, colour conversion, resampling, blending and the shared edge-reflect
// indexing rule used by every filter in internal/filters.
package imgproc

// Numeric is the set of pixel element types the pipeline operates over.
type Numeric interface {
	~uint8 | ~float32
}

// Reflect maps index i against limit L using edge-reflect-without-repetition:
// a displacement of magnitude < L reflects exactly once.
func Reflect(i, limit int) int {
	if i < 0 {
		return -i - 1
	}
	if i >= limit {
		return 2*limit - i - 1
	}
	return i
}

// ConvertU8ToF32 widens an 8-bit buffer into a float32 buffer of the same
// length, values unchanged.
func ConvertU8ToF32(in []uint8, out []float32) {
	for i, v := range in {
		out[i] = float32(v)
	}
}

// ConvertF32ToU8 narrows a float32 buffer into 8-bit, rounding half-up and
// clamping to [0,255].
func ConvertF32ToU8(in []float32, out []uint8) {
	for i, v := range in {
		out[i] = saturateU8(v)
	}
}

func saturateU8(v float32) uint8 {
	r := v + 0.5
	if r <= 0 {
		return 0
	}
	if r >= 255 {
		return 255
	}
	return uint8(r)
}

// Scale computes out[i] = alpha*in[i] + beta elementwise. When T is uint8 the
// result is rounded half-up and clamped to [0,255]; for float32 it is exact.
func Scale[T Numeric](in []T, out []T, alpha, beta float32) {
	for i, v := range in {
		r := alpha*float32(v) + beta
		out[i] = fromFloat[T](r)
	}
}

// ScaleInPlace applies Scale with in and out as the same buffer.
func ScaleInPlace[T Numeric](buf []T, alpha, beta float32) {
	Scale(buf, buf, alpha, beta)
}

func fromFloat[T Numeric](v float32) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(saturateU8(v))
	default:
		return T(v)
	}
}

// Rgb2Gray converts an interleaved RGB buffer of W*H pixels to a single-
// channel gray buffer using the BT.601-ish weights y = .299R + .587G + .114B.
func Rgb2Gray[T Numeric](in []T, out []T, w, h int) {
	for i := 0; i < w*h; i++ {
		r := float32(in[3*i+0])
		g := float32(in[3*i+1])
		b := float32(in[3*i+2])
		y := 0.299*r + 0.587*g + 0.114*b
		out[i] = fromFloat[T](y)
	}
}

// Gray2Rgb broadcasts a single-channel buffer to three interleaved channels.
func Gray2Rgb[T Numeric](in []T, out []T, w, h int) {
	for i := 0; i < w*h; i++ {
		v := in[i]
		out[3*i+0] = v
		out[3*i+1] = v
		out[3*i+2] = v
	}
}

// ResizeNN performs nearest-neighbour resampling with no half-pixel offset:
// out(x,y) = in(floor(x*sx), floor(y*sy)).
func ResizeNN[T Numeric](in []T, inW, inH int, out []T, outW, outH, c int) {
	sx := float64(inW) / float64(outW)
	sy := float64(inH) / float64(outH)
	for y := 0; y < outH; y++ {
		sy0 := int(float64(y) * sy)
		if sy0 >= inH {
			sy0 = inH - 1
		}
		for x := 0; x < outW; x++ {
			sx0 := int(float64(x) * sx)
			if sx0 >= inW {
				sx0 = inW - 1
			}
			srcBase := (sy0*inW + sx0) * c
			dstBase := (y*outW + x) * c
			for ch := 0; ch < c; ch++ {
				out[dstBase+ch] = in[srcBase+ch]
			}
		}
	}
}

type bilinearTap struct {
	x0, x1 int
	frac   float64
}

func precomputeTaps(inN, outN int) []bilinearTap {
	taps := make([]bilinearTap, outN)
	var scale float64
	if outN > 1 {
		scale = float64(inN-1) / float64(outN-1)
	}
	for i := range taps {
		pos := float64(i) * scale
		x0 := int(pos)
		x1 := x0 + 1
		if x1 > inN-1 {
			x1 = inN - 1
		}
		taps[i] = bilinearTap{x0: x0, x1: x1, frac: pos - float64(x0)}
	}
	return taps
}

// ResizeBilinear resamples using 4-tap bilinear interpolation. Scale factors
// are (in-1)/(out-1) when out>1, else 0, so out_W==in_W && out_H==in_H is the
// identity transform. In and Out element types may differ (e.g. an 8-bit
// frame resized directly into a float32 scratch buffer).
func ResizeBilinear[TIn, TOut Numeric](in []TIn, inW, inH int, out []TOut, outW, outH, c int) {
	xTaps := precomputeTaps(inW, outW)
	yTaps := precomputeTaps(inH, outH)

	for y := 0; y < outH; y++ {
		yt := yTaps[y]
		for x := 0; x < outW; x++ {
			xt := xTaps[x]
			dstBase := (y*outW + x) * c
			for ch := 0; ch < c; ch++ {
				v00 := float64(in[(yt.x0*inW+xt.x0)*c+ch])
				v01 := float64(in[(yt.x0*inW+xt.x1)*c+ch])
				v10 := float64(in[(yt.x1*inW+xt.x0)*c+ch])
				v11 := float64(in[(yt.x1*inW+xt.x1)*c+ch])
				top := v00 + (v01-v00)*xt.frac
				bot := v10 + (v11-v10)*xt.frac
				val := top + (bot-top)*yt.frac
				out[dstBase+ch] = fromFloat[TOut](float32(val))
			}
		}
	}
}

// AlphaBlend computes out[i,c] = m*fg[i,c] + (1-m)*bg[i,c], mask shared
// across channels. mask=1 reproduces fg exactly; mask=0 reproduces bg exactly.
func AlphaBlend[T Numeric](fg, bg []T, out []T, mask []float32, w, h, c int) {
	for i := 0; i < w*h; i++ {
		m := mask[i]
		base := i * c
		for ch := 0; ch < c; ch++ {
			if m >= 1 {
				out[base+ch] = fg[base+ch]
				continue
			}
			if m <= 0 {
				out[base+ch] = bg[base+ch]
				continue
			}
			v := m*float32(fg[base+ch]) + (1-m)*float32(bg[base+ch])
			out[base+ch] = fromFloat[T](v)
		}
	}
}

// LightWrap re-introduces background spill at detected edges:
// out = (1-e)*(m*fg + (1-m)*bg) + e*bg.
func LightWrap[T Numeric](fg, bg []T, out []T, edge, mask []float32, w, h, c int) {
	for i := 0; i < w*h; i++ {
		m := mask[i]
		e := edge[i]
		base := i * c
		for ch := 0; ch < c; ch++ {
			blended := m*float32(fg[base+ch]) + (1-m)*float32(bg[base+ch])
			v := (1-e)*blended + e*float32(bg[base+ch])
			out[base+ch] = fromFloat[T](v)
		}
	}
}
