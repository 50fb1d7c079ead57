package filters

import (
	"math"

	"github.com/ranjodhsingh/spotlight/internal/imgproc"
)

// Gaussian is a separable 2-D Gaussian blur: a 1-D horizontal pass into a
// scratch buffer, then a 1-D vertical pass into the output. sigma = r/3;
// the kernel is L1-normalized after construction.
//
// This resolves an open question left in the original two-pass
// implementation, whose horizontal pass reflected the vertical (row)
// coordinate. Each pass here reflects only its own axis, which is the
// correct separable decomposition.
type Gaussian struct {
	radius        int
	width, height int
	channels      int
	kernel        []float32
	scratch       []float32
}

func NewGaussian(radius, width, height, channels int) *Gaussian {
	sigma := float32(radius) / 3
	k := 2*radius + 1
	kernel := make([]float32, k)
	var sum float32
	for i := -radius; i <= radius; i++ {
		w := float32(math.Exp(-float64(i*i) / (2 * float64(sigma*sigma))))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return &Gaussian{
		radius:   radius,
		width:    width,
		height:   height,
		channels: channels,
		kernel:   kernel,
		scratch:  make([]float32, width*height*channels),
	}
}

func (f *Gaussian) Invoke(in, out []float32) {
	w, h, c, r := f.width, f.height, f.channels, f.radius

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				var sum float32
				for dx := -r; dx <= r; dx++ {
					sx := imgproc.Reflect(x+dx, w)
					sum += in[(y*w+sx)*c+ch] * f.kernel[dx+r]
				}
				f.scratch[(y*w+x)*c+ch] = sum
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				var sum float32
				for dy := -r; dy <= r; dy++ {
					sy := imgproc.Reflect(y+dy, h)
					sum += f.scratch[(sy*w+x)*c+ch] * f.kernel[dy+r]
				}
				out[(y*w+x)*c+ch] = sum
			}
		}
	}
}

// Kernel exposes the normalized 1-D weights for test fixtures that verify
// the separable product against a direct 2-D evaluation.
func (f *Gaussian) Kernel() []float32 { return f.kernel }
