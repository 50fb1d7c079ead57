// Package segm wraps the segmentation model and produces a binary
// foreground/background mask at model resolution.
package segm

import (
	"fmt"

	"github.com/ranjodhsingh/spotlight/internal/model"
)

// Segmenter runs the selfie-segmentation model and post-processes its
// two-channel [bg,fg] logits tensor into a binary mask.
type Segmenter struct {
	m      model.Model
	width  int
	height int
	logits []float32
}

func NewSegmenter(m model.Model) (*Segmenter, error) {
	w, h := m.InputWidth(), m.InputHeight()
	if m.OutputSize() != 2*w*h {
		return nil, fmt.Errorf("segm: model output size %d does not match 2*%d*%d", m.OutputSize(), w, h)
	}
	return &Segmenter{m: m, width: w, height: h, logits: make([]float32, 2*w*h)}, nil
}

func (s *Segmenter) Width() int  { return s.width }
func (s *Segmenter) Height() int { return s.height }

// Invoke runs the model on a W*H*3 RGB float32 buffer in [0,1] and writes a
// binary mask (values in {0,1}) of length W*H into out.
func (s *Segmenter) Invoke(rgb []float32, out []float32) error {
	if err := s.m.Invoke(rgb, s.logits); err != nil {
		return fmt.Errorf("segm: model invoke: %w", err)
	}
	for i := 0; i < s.width*s.height; i++ {
		bg := s.logits[2*i]
		fg := s.logits[2*i+1]
		if fg > bg {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return nil
}
