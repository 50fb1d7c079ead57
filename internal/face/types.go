// Package face implements the UltraFace-style single-shot face detector:
// prior-box generation, decoding, non-maximum suppression and temporal
// stabilization of the selected face rectangle.
package face

// Prior is a pre-defined anchor box in normalized [0,1] coordinates.
type Prior struct {
	Cx, Cy, W, H float32
}

// Point is a 2-D coordinate.
type Point struct {
	X, Y float32
}

func (p Point) DistSq(o Point) float32 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

// Detection is a face rectangle in model-pixel coordinates with a
// confidence score.
type Detection struct {
	X1, Y1, X2, Y2, Score float32
}

func (d Detection) Width() float32  { return d.X2 - d.X1 }
func (d Detection) Height() float32 { return d.Y2 - d.Y1 }
func (d Detection) Area() float32   { return d.Width() * d.Height() }
func (d Detection) Center() Point   { return Point{(d.X1 + d.X2) * 0.5, (d.Y1 + d.Y2) * 0.5} }

// IoU is intersection-over-union, epsilon-guarded against a zero union.
func (d Detection) IoU(o Detection) float32 {
	xx1 := max32(d.X1, o.X1)
	yy1 := max32(d.Y1, o.Y1)
	xx2 := min32(d.X2, o.X2)
	yy2 := min32(d.Y2, o.Y2)

	w := max32(0, xx2-xx1)
	h := max32(0, yy2-yy1)
	if w <= 0 || h <= 0 {
		return 0
	}

	inter := w * h
	return inter / (d.Area() + o.Area() - inter + 1e-6)
}

// Stabilize blends the receiver toward other with EMA factor alpha, but only
// when the motion metric exceeds tolerance — a dead-band below threshold.
func (d *Detection) Stabilize(other Detection, alpha, tolerance float32) {
	dx := absf32(d.X1-other.X1) + absf32(d.X2-other.X2)
	dy := absf32(d.Y1-other.Y1) + absf32(d.Y2-other.Y2)

	motion := dx/d.Width() + dy/d.Height()
	if motion < tolerance {
		return
	}

	beta := 1 - alpha
	d.X1 = alpha*d.X1 + beta*other.X1
	d.X2 = alpha*d.X2 + beta*other.X2
	d.Y1 = alpha*d.Y1 + beta*other.Y1
	d.Y2 = alpha*d.Y2 + beta*other.Y2
}

// Frame expands the rectangle to match aspectRatio (w/h), growing whichever
// dimension is short, about the original center.
func (d *Detection) Frame(aspectRatio float32) {
	c := d.Center()
	w0, h0 := d.Width(), d.Height()
	w := max32(w0, h0*aspectRatio)
	h := max32(h0, w0/aspectRatio)

	d.X1 = c.X - 0.5*w
	d.Y1 = c.Y - 0.5*h
	d.X2 = c.X + 0.5*w
	d.Y2 = c.Y + 0.5*h
}

// Pad grows the rectangle by fractions of its own width/height on each side.
func (d *Detection) Pad(left, right, top, bottom float32) {
	w, h := d.Width(), d.Height()
	d.X1 -= w * left
	d.Y1 -= h * top
	d.X2 += w * right
	d.Y2 += h * bottom
}

// Scale multiplies coordinates by per-axis factors, e.g. to map model
// pixels to output-frame pixels.
func (d *Detection) Scale(factorW, factorH float32) {
	d.X1 *= factorW
	d.Y1 *= factorH
	d.X2 *= factorW
	d.Y2 *= factorH
}

// Clamp restricts the rectangle to [0, width-1] x [0, height-1].
func (d *Detection) Clamp(width, height int) {
	d.X1 = clamp32(d.X1, 0, float32(width)-1)
	d.Y1 = clamp32(d.Y1, 0, float32(height)-1)
	d.X2 = clamp32(d.X2, 0, float32(width)-1)
	d.Y2 = clamp32(d.Y2, 0, float32(height)-1)
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func absf32(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
