package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxConstantImageIsIdentity(t *testing.T) {
	const w, h, c = 9, 9, 1
	in := make([]float32, w*h*c)
	for i := range in {
		in[i] = 42
	}
	out := make([]float32, w*h*c)
	NewBox(2, w, h, c).Invoke(in, out)
	for i, v := range out {
		require.InDelta(t, 42, v, 1e-4, "index %d", i)
	}
}

func TestGaussianKernelSumsToOne(t *testing.T) {
	g := NewGaussian(3, 13, 13, 1)
	var sum float32
	for _, v := range g.Kernel() {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestGaussianImpulseResponse(t *testing.T) {
	const n = 13
	g := NewGaussian(3, n, n, 1)
	in := make([]float32, n*n)
	in[6*n+6] = 1.0
	out := make([]float32, n*n)
	g.Invoke(in, out)

	k := g.Kernel()
	for dy := -3; dy <= 3; dy++ {
		for dx := -3; dx <= 3; dx++ {
			want := k[dy+3] * k[dx+3]
			got := out[(6+dy)*n+(6+dx)]
			assert.InDelta(t, want, got, 1e-6)
		}
	}
}

func TestLoGKernelSumsToZero(t *testing.T) {
	l := NewLoG(3, 13, 13, 1)
	assert.InDelta(t, 0, l.KernelSum(), 1e-5)
}

func TestLaplacianClamps(t *testing.T) {
	const n = 5
	in := make([]float32, n*n)
	for i := range in {
		in[i] = 1
	}
	out := make([]float32, n*n)
	NewLaplacian(n, n, 1).Invoke(in, out)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestGuidedFilterConstantImage(t *testing.T) {
	const w, h, c = 9, 9, 1
	guide := make([]float32, w*h*c)
	signal := make([]float32, w*h*c)
	for i := range guide {
		guide[i] = 0.5
		signal[i] = 0.5
	}
	out := make([]float32, w*h*c)
	NewGuided(2, 1e-3, w, h, c).Invoke(guide, signal, out)
	for _, v := range out {
		assert.InDelta(t, 0.5, v, 1e-3)
	}
}

func TestDiscBokehKernelNormalizedToOne(t *testing.T) {
	f := NewDiscBokeh(3, 2, 0.4, 9, 9, 1)
	assert.InDelta(t, 1.0, f.KernelNormSq(), 1e-6)
}

func TestDiscBokehConstantImageUnmasked(t *testing.T) {
	const w, h, c = 9, 9, 1
	f := NewDiscBokeh(3, 2, 0.4, w, h, c)
	in := make([]float32, w*h*c)
	mask := make([]float32, w*h)
	for i := range in {
		in[i] = 100
	}
	out := make([]float32, w*h*c)
	f.Invoke(in, out, mask)
	for i, v := range out {
		assert.InDelta(t, 100, float64(v), 1.0, "index %d", i)
	}
}

func TestComplexGaussianTapMagnitude(t *testing.T) {
	tap := ComplexGaussianTap(0, 1, 1)
	assert.InDelta(t, 1.0, tap.Re, 1e-6)
	assert.InDelta(t, 0.0, tap.Im, 1e-6)

	tap2 := ComplexGaussianTap(2, 0.5, 0)
	want := float32(math.Exp(-0.5 * 4))
	assert.InDelta(t, want, tap2.Re, 1e-6)
}
