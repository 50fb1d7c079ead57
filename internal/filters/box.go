package filters

import "github.com/ranjodhsingh/spotlight/internal/imgproc"

// Box is a uniform k*k average filter, k = 2*radius+1, non-separable direct
// convolution with edge-reflect boundary handling.
type Box struct {
	radius         int
	width, height  int
	channels       int
	kernelValue    float32
}

func NewBox(radius, width, height, channels int) *Box {
	k := 2*radius + 1
	return &Box{
		radius:      radius,
		width:       width,
		height:      height,
		channels:    channels,
		kernelValue: 1.0 / float32(k*k),
	}
}

// Invoke filters the in buffer (W*H*C float32) into out (same shape).
func (f *Box) Invoke(in, out []float32) {
	f.InvokeFunc(
		func(i int) float32 { return in[i] },
		func(i int, v float32) { out[i] = v },
	)
}

// InvokeFunc is the functional overload used by the guided filter to box-
// filter a product (I*I, I*P) without materializing it.
func (f *Box) InvokeFunc(get func(i int) float32, set func(i int, v float32)) {
	w, h, c := f.width, f.height, f.channels
	r := f.radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				var sum float32
				for dy := -r; dy <= r; dy++ {
					sy := imgproc.Reflect(y+dy, h)
					for dx := -r; dx <= r; dx++ {
						sx := imgproc.Reflect(x+dx, w)
						sum += get((sy*w+sx)*c + ch)
					}
				}
				set((y*w+x)*c+ch, sum*f.kernelValue)
			}
		}
	}
}
