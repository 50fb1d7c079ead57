package filters

import (
	"math"

	"github.com/ranjodhsingh/spotlight/internal/imgproc"
)

// JointBilateral smooths an image while preserving edges present in a guide
// image. The spatial kernel is a 2-D Gaussian of radius ceil(3*sigmaS); the
// range weight is looked up from a 256-entry LUT indexed by the guide's
// per-channel absolute difference.
type JointBilateral struct {
	radius        int
	width, height int
	channels      int
	spatial       [][]float32
	rangeLUT      [256]float32
}

func NewJointBilateral(sigmaS, sigmaR float32, width, height, channels int) *JointBilateral {
	radius := int(math.Ceil(float64(3 * sigmaS)))
	k := 2*radius + 1
	spatial := make([][]float32, k)
	for yi := -radius; yi <= radius; yi++ {
		row := make([]float32, k)
		for xi := -radius; xi <= radius; xi++ {
			d2 := float32(xi*xi + yi*yi)
			row[xi+radius] = float32(math.Exp(-float64(d2) / (2 * float64(sigmaS*sigmaS))))
		}
		spatial[yi+radius] = row
	}

	var lut [256]float32
	scaleR := 1 / (2 * sigmaR * sigmaR)
	for i := range lut {
		lut[i] = float32(math.Exp(-float64(i*i) * float64(scaleR)))
	}

	return &JointBilateral{radius: radius, width: width, height: height, channels: channels, spatial: spatial, rangeLUT: lut}
}

// Invoke filters in using guide as the edge-defining reference image; guide
// must share in's channel count.
func (f *JointBilateral) Invoke(in, guide, out []float32) {
	w, h, c, r := f.width, f.height, f.channels, f.radius
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				centerGuide := guide[(y*w+x)*c+ch]
				var num, den float32
				for dy := -r; dy <= r; dy++ {
					sy := imgproc.Reflect(y+dy, h)
					for dx := -r; dx <= r; dx++ {
						sx := imgproc.Reflect(x+dx, w)
						idx := (sy*w+sx)*c + ch
						diff := guide[idx] - centerGuide
						if diff < 0 {
							diff = -diff
						}
						bin := int(diff)
						if bin > 255 {
							bin = 255
						}
						weight := f.spatial[dy+r][dx+r] * f.rangeLUT[bin]
						num += weight * in[idx]
						den += weight
					}
				}
				out[(y*w+x)*c+ch] = num / den
			}
		}
	}
}
