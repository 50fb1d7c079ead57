package filters

import (
	"math"

	"github.com/ranjodhsingh/spotlight/internal/imgproc"
)

// DiscBokehParam is one row of the fixed triangular parameter table indexed
// by param_offset = components*(components-1)/2.
type DiscBokehParam struct {
	A, B, WeightA, WeightB float32
}

// discBokehParams is the full 21-row table (component counts 1..6),
// reproduced bit-for-bit from the reference implementation.
var discBokehParams = []DiscBokehParam{
	{0.862325, 1.624835, 0.767583, 1.862321},

	{0.886528, 5.268909, 0.411259, -0.548794},
	{1.960518, 1.558213, 0.513282, 4.56111},

	{2.17649, 5.043495, 1.621035, -2.105439},
	{1.019306, 9.027613, -0.28086, -0.162882},
	{2.81511, 1.597273, -0.366471, 10.300301},

	{4.338459, 1.553635, -5.767909, 46.164397},
	{3.839993, 4.693183, 9.795391, -15.227561},
	{2.79188, 8.178137, -3.048324, 0.302959},
	{1.34219, 12.328289, 0.010001, 0.24465},

	{4.892608, 1.685979, -22.356787, 85.91246},
	{4.71187, 4.998496, 35.918936, -28.875618},
	{4.052795, 8.244168, -13.212253, -1.578428},
	{2.929212, 11.900859, 0.507991, 1.816328},
	{1.512961, 16.116382, 0.138051, -0.01},

	{5.143778, 2.079813, -82.326596, 111.231024},
	{5.612426, 6.153387, 113.878661, 58.004879},
	{5.982921, 9.802895, 39.479083, -162.028887},
	{6.505167, 11.059237, -71.286026, 95.027069},
	{3.869579, 14.81052, 1.405746, -3.704914},
	{2.201904, 19.032909, -0.152784, -0.107988},
}

// DiscBokeh is the complex sum-of-Gaussians disc-bokeh ("lens") filter. It
// is a masked, two-pass separable convolution: the mask substitutes the
// center pixel for foreground neighbours so foreground colour never bleeds
// into the blurred background.
type DiscBokeh struct {
	radius        int
	components    int
	width, height int
	channels      int

	paramOffset int
	kernels     []Complex // kernel_size * components
	tmp         []Complex // width*height*channels*components
	acc         []Complex
}

func NewDiscBokeh(radius, components int, transition float32, width, height, channels int) *DiscBokeh {
	f := &DiscBokeh{
		radius:      radius,
		components:  components,
		width:       width,
		height:      height,
		channels:    channels,
		paramOffset: components * (components - 1) / 2,
	}
	kernelSize := 2*radius + 1
	f.kernels = make([]Complex, kernelSize*components)
	f.tmp = make([]Complex, width*height*channels*components)
	f.acc = make([]Complex, components)

	f.generateNormalizedKernels(transition)
	return f
}

func (f *DiscBokeh) params(c int) DiscBokehParam {
	return discBokehParams[f.paramOffset+c]
}

func (f *DiscBokeh) generateNormalizedKernels(transition float32) {
	kernelSize := 2*f.radius + 1
	scale := (1 + transition) / float32(f.radius)

	kIdx := 0
	for i := -f.radius; i <= f.radius; i++ {
		for c := 0; c < f.components; c++ {
			p := f.params(c)
			f.kernels[kIdx] = ComplexGaussianTap(scale*float32(i), p.A, p.B)
			kIdx++
		}
	}

	var sum float64
	for i := 0; i < kernelSize; i++ {
		for j := 0; j < kernelSize; j++ {
			for c := 0; c < f.components; c++ {
				p := f.params(c)
				product := f.kernels[i*f.components+c].Mul(f.kernels[j*f.components+c])
				sum += float64(p.WeightA)*float64(product.Re) + float64(p.WeightB)*float64(product.Im)
			}
		}
	}

	norm := float32(1.0 / math.Sqrt(sum))
	for i := range f.kernels {
		f.kernels[i] = f.kernels[i].Scale(norm)
	}
}

// Invoke runs the masked horizontal then vertical pass, writing an output
// buffer of W*H*C float32 clamped to [0,255]. mask is the foreground mask at
// this filter's resolution (length W*H); mask>0.5 marks foreground.
func (f *DiscBokeh) Invoke(input, output, mask []float32) {
	f.horizontalPass(input, mask)
	f.verticalPass(output, mask)
}

func (f *DiscBokeh) horizontalPass(input, mask []float32) {
	w, h, c, r, comps := f.width, f.height, f.channels, f.radius, f.components
	idx := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idxc := y*w + x
			for ch := 0; ch < c; ch++ {
				for i := range f.acc {
					f.acc[i] = Complex{}
				}

				kIdx := 0
				for i := -r; i <= r; i++ {
					sx := imgproc.Reflect(x+i, w)
					idxn := y*w + sx
					idxcC := idxc*c + ch
					idxnC := idxn*c + ch

					srcIdx := idxnC
					if mask[idxn] > 0.5 {
						srcIdx = idxcC
					}
					v := input[srcIdx]

					for k := 0; k < comps; k++ {
						f.acc[k].AddAssign(f.kernels[kIdx].Scale(v))
						kIdx++
					}
				}

				for k := 0; k < comps; k++ {
					f.tmp[idx] = f.acc[k]
					idx++
				}
			}
		}
	}
}

func (f *DiscBokeh) verticalPass(output, mask []float32) {
	w, h, c, r, comps := f.width, f.height, f.channels, f.radius, f.components
	idx := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idxc := y*w + x
			for ch := 0; ch < c; ch++ {
				for i := range f.acc {
					f.acc[i] = Complex{}
				}

				kIdx := 0
				for i := -r; i <= r; i++ {
					sy := imgproc.Reflect(y+i, h)
					idxn := sy*w + x
					idxcC := idxc*c + ch
					idxnC := idxn*c + ch

					bufIdx := idxnC
					if mask[idxn] > 0.5 {
						bufIdx = idxcC
					}
					src := f.tmp[bufIdx*comps : bufIdx*comps+comps]

					for k := 0; k < comps; k++ {
						f.acc[k].AddAssign(f.kernels[kIdx].Mul(src[k]))
						kIdx++
					}
				}

				var sum float64
				for k := 0; k < comps; k++ {
					p := f.params(k)
					sum += float64(p.WeightA)*float64(f.acc[k].Re) + float64(p.WeightB)*float64(f.acc[k].Im)
				}
				if sum < 0 {
					sum = 0
				} else if sum > 255 {
					sum = 255
				}
				output[idx] = float32(sum)
				idx++
			}
		}
	}
}

// KernelNormSq returns the double sum used to normalize the kernel, for test
// fixtures that check it resolves to 1.0 after the construction-time scaling.
func (f *DiscBokeh) KernelNormSq() float64 {
	kernelSize := 2*f.radius + 1
	var sum float64
	for i := 0; i < kernelSize; i++ {
		for j := 0; j < kernelSize; j++ {
			for c := 0; c < f.components; c++ {
				p := f.params(c)
				product := f.kernels[i*f.components+c].Mul(f.kernels[j*f.components+c])
				sum += float64(p.WeightA)*float64(product.Re) + float64(p.WeightB)*float64(product.Im)
			}
		}
	}
	return sum
}
