package filters

import "github.com/ranjodhsingh/spotlight/internal/imgproc"

var laplacianKernel = [3][3]float32{
	{-1, -1, -1},
	{-1, 8, -1},
	{-1, -1, -1},
}

// Laplacian is a fixed 3x3 edge operator, output clamped to [ClampLo,ClampHi].
type Laplacian struct {
	width, height int
	channels      int
	ClampLo       float32
	ClampHi       float32
}

func NewLaplacian(width, height, channels int) *Laplacian {
	return &Laplacian{width: width, height: height, channels: channels, ClampLo: 0, ClampHi: 1}
}

func (f *Laplacian) Invoke(in, out []float32) {
	w, h, c := f.width, f.height, f.channels
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				var sum float32
				for dy := -1; dy <= 1; dy++ {
					sy := imgproc.Reflect(y+dy, h)
					for dx := -1; dx <= 1; dx++ {
						sx := imgproc.Reflect(x+dx, w)
						sum += in[(sy*w+sx)*c+ch] * laplacianKernel[dy+1][dx+1]
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
