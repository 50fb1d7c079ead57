package face

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoUPartialOverlapBetweenZeroAndOne(t *testing.T) {
	a := Detection{X1: 0, Y1: 0, X2: 10, Y2: 10, Score: 0.9}
	b := Detection{X1: 8, Y1: 8, X2: 18, Y2: 18, Score: 0.8}
	assert.Less(t, a.IoU(b), float32(1.0))
	assert.Greater(t, a.IoU(b), float32(0.0))
}

func TestIoUDisjointIsZero(t *testing.T) {
	a := Detection{X1: 0, Y1: 0, X2: 10, Y2: 10}
	b := Detection{X1: 100, Y1: 100, X2: 110, Y2: 110}
	assert.Equal(t, float32(0), a.IoU(b))
}

func TestStabilizeDeadBand(t *testing.T) {
	d := Detection{X1: 10, Y1: 10, X2: 50, Y2: 50}
	same := d
	d.Stabilize(same, 0.9, 0.3)
	assert.Equal(t, same, d)
}

func TestStabilizeMovesAboveThreshold(t *testing.T) {
	d := Detection{X1: 10, Y1: 10, X2: 50, Y2: 50}
	moved := Detection{X1: 30, Y1: 30, X2: 70, Y2: 70}
	before := d
	d.Stabilize(moved, 0.5, 0.01)
	assert.NotEqual(t, before, d)
}

func TestPadGrowsRectangle(t *testing.T) {
	d := Detection{X1: 0, Y1: 0, X2: 10, Y2: 10}
	d.Pad(0.5, 0.5, 0.25, 0.25)
	assert.Equal(t, float32(-5), d.X1)
	assert.Equal(t, float32(15), d.X2)
	assert.Equal(t, float32(-2.5), d.Y1)
	assert.Equal(t, float32(12.5), d.Y2)
}

func TestClampRestrictsToBounds(t *testing.T) {
	d := Detection{X1: -5, Y1: -5, X2: 1000, Y2: 1000}
	d.Clamp(100, 100)
	assert.Equal(t, float32(0), d.X1)
	assert.Equal(t, float32(99), d.X2)
}
