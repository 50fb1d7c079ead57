package filters

import (
	"math"

	"github.com/ranjodhsingh/spotlight/internal/imgproc"
)

// LoG is the Laplacian-of-Gaussian edge operator: non-separable, single-pass,
// mean-subtracted so the kernel sums to zero.
type LoG struct {
	radius        int
	width, height int
	channels      int
	kernel        [][]float32
	ClampLo       float32
	ClampHi       float32
}

func NewLoG(radius, width, height, channels int) *LoG {
	sigma := float32(radius) / 3
	scaleA := 1 / (2 * sigma * sigma)
	scaleB := 1 / (math.Pi * float64(sigma*sigma*sigma*sigma))

	k := 2*radius + 1
	kernel := make([][]float32, k)
	var sum float32
	for yi := -radius; yi <= radius; yi++ {
		row := make([]float32, k)
		for xi := -radius; xi <= radius; xi++ {
			r2 := float32(xi*xi+yi*yi) * scaleA
			val := float32(scaleB) * (r2 - 1) * float32(math.Exp(-float64(r2)))
			row[xi+radius] = val
			sum += val
		}
		kernel[yi+radius] = row
	}
	mean := sum / float32(k*k)
	for _, row := range kernel {
		for i := range row {
			row[i] -= mean
		}
	}

	return &LoG{radius: radius, width: width, height: height, channels: channels, kernel: kernel, ClampLo: 0, ClampHi: 1}
}

func (f *LoG) Invoke(in, out []float32) {
	w, h, c, r := f.width, f.height, f.channels, f.radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				var sum float32
				for dy := -r; dy <= r; dy++ {
					sy := imgproc.Reflect(y+dy, h)
					for dx := -r; dx <= r; dx++ {
						sx := imgproc.Reflect(x+dx, w)
						sum += in[(sy*w+sx)*c+ch] * f.kernel[dy+r][dx+r]
					}
				}
				if sum < f.ClampLo {
					sum = f.ClampLo
				} else if sum > f.ClampHi {
					sum = f.ClampHi
				}
				out[(y*w+x)*c+ch] = sum
			}
		}
	}
}

// KernelSum returns the sum of all kernel taps, expected to be ~0 after the
// mean-subtraction performed at construction.
func (f *LoG) KernelSum() float32 {
	var sum float32
	for _, row := range f.kernel {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}
