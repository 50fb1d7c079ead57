package face

import (
	"fmt"
	"math"
	"sort"

	"github.com/ranjodhsingh/spotlight/internal/model"
)

const (
	sizeVariance   = 0.2
	centerVariance = 0.1
)

var (
	strides   = [4]float32{8, 16, 32, 64}
	boxCounts = [4]int{3, 2, 2, 3}
	minBoxes  = [4][3]float32{
		{10, 16, 24},
		{32, 48, 0},
		{64, 96, 0},
		{128, 192, 256},
	}
)

// Detector wraps the UltraFace model: prior generation, box decoding, NMS
// and a single persistent stabilized face rectangle.
type Detector struct {
	m model.Model

	width, height int

	priors []Prior

	topK           int
	scoreThreshold float32
	iouThreshold   float32
	temporalAlpha  float32
	jerkTolerance  float32

	scores []float32
	boxes  []float32

	detections []Detection
	selections []bool

	faceFrame Detection
}

func NewDetector(m model.Model, topK int, scoreThreshold, iouThreshold, temporalAlpha, jerkTolerance float32) (*Detector, error) {
	w, h := m.InputWidth(), m.InputHeight()

	d := &Detector{
		m:              m,
		width:          w,
		height:         h,
		topK:           topK,
		scoreThreshold: scoreThreshold,
		iouThreshold:   iouThreshold,
		temporalAlpha:  temporalAlpha,
		jerkTolerance:  jerkTolerance,
	}
	d.generatePriors()

	n := len(d.priors)
	if m.OutputSize() != 2*n+4*n {
		return nil, fmt.Errorf("face: model output size %d does not match prior count %d", m.OutputSize(), n)
	}
	d.scores = make([]float32, 2*n)
	d.boxes = make([]float32, 4*n)
	d.detections = make([]Detection, n)
	d.selections = make([]bool, n)

	d.faceFrame = Detection{X1: 0, Y1: 0, X2: float32(w), Y2: float32(h), Score: 0}
	return d, nil
}

func (d *Detector) Width() int  { return d.width }
func (d *Detector) Height() int { return d.height }

func (d *Detector) generatePriors() {
	invW := 1 / float32(d.width)
	invH := 1 / float32(d.height)

	for s := 0; s < 4; s++ {
		stride := strides[s]
		fmW := int(math.Ceil(float64(float32(d.width) / stride)))
		fmH := int(math.Ceil(float64(float32(d.height) / stride)))

		cxScale := stride * invW
		cyScale := stride * invH
		for y := 0; y < fmH; y++ {
			cy := (float32(y) + 0.5) * cyScale
			for x := 0; x < fmW; x++ {
				cx := (float32(x) + 0.5) * cxScale
				for b := 0; b < boxCounts[s]; b++ {
					box := minBoxes[s][b]
					d.priors = append(d.priors, Prior{Cx: cx, Cy: cy, W: box * invW, H: box * invH})
				}
			}
		}
	}
}

// Invoke runs the model on a W*H*3 float32 input, decodes, NMS-filters, and
// stabilizes, returning the persistent face rectangle.
func (d *Detector) Invoke(input []float32) (Detection, error) {
	// The model must place scores at output offset 0 and boxes afterwards;
	// callers adapt their model.Model implementation's tensor layout to
	// this contract the same way the reference wraps getOutputTensor(0/1).
	out := make([]float32, len(d.scores)+len(d.boxes))
	if err := d.m.Invoke(input, out); err != nil {
		return Detection{}, fmt.Errorf("face: model invoke: %w", err)
	}
	copy(d.scores, out[:len(d.scores)])
	copy(d.boxes, out[len(d.scores):])

	return d.postProcess(), nil
}

func (d *Detector) postProcess() Detection {
	n := d.getDetections()

	frameCenter := d.faceFrame.Center()
	minIdx := -1
	minDist := float32(math.Inf(1))
	for i := 0; i < n; i++ {
		if !d.selections[i] {
			continue
		}
		dist := frameCenter.DistSq(d.detections[i].Center())
		if dist < minDist {
			minIdx = i
			minDist = dist
		}
	}

	if minIdx != -1 {
		d.faceFrame.Stabilize(d.detections[minIdx], d.temporalAlpha, d.jerkTolerance)
	}
	return d.faceFrame
}

func (d *Detector) getDetections() int {
	w, h := float32(d.width), float32(d.height)
	numDetects := 0
	for i, p := range d.priors {
		score := d.scores[2*i+1]
		if score < d.scoreThreshold {
			continue
		}

		cx := d.boxes[4*i+0]*centerVariance*p.W + p.Cx
		cy := d.boxes[4*i+1]*centerVariance*p.H + p.Cy
		bw := float32(math.Exp(float64(d.boxes[4*i+2]*sizeVariance))) * p.W
		bh := float32(math.Exp(float64(d.boxes[4*i+3]*sizeVariance))) * p.H

		d.detections[numDetects] = Detection{
			X1:    (cx - bw*0.5) * w,
			Y1:    (cy - bh*0.5) * h,
			X2:    (cx + bw*0.5) * w,
			Y2:    (cy + bh*0.5) * h,
			Score: score,
		}
		numDetects++
	}
	d.nonMaxSuppression(numDetects)
	return min(numDetects, d.topK)
}

func (d *Detector) nonMaxSuppression(n int) {
	kept := d.detections[:n]
	sort.Slice(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if n > d.topK {
		n = d.topK
	}

	for i := 0; i < n; i++ {
		d.selections[i] = true
	}
	for i := 0; i < n; i++ {
		if !d.selections[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if d.selections[j] && d.detections[i].IoU(d.detections[j]) > d.iouThreshold {
				d.selections[j] = false
			}
		}
	}
}
