// Package pipeline is the compositor: it owns every intermediate buffer and
// executes one of the Blur, Image or Video per-frame programs.
package pipeline

import (
	"fmt"

	"github.com/ranjodhsingh/spotlight/internal/background"
	"github.com/ranjodhsingh/spotlight/internal/config"
	"github.com/ranjodhsingh/spotlight/internal/filters"
	"github.com/ranjodhsingh/spotlight/internal/imgproc"
	"github.com/ranjodhsingh/spotlight/internal/model"
	"github.com/ranjodhsingh/spotlight/internal/segm"
)

// Pipeline is constructed once from a configuration and retains the
// segmentation model and every filter object for its entire lifetime.
// Invoke is a pure function from input buffer to output buffer; it is not
// re-entrant, since all scratch space is the pipeline's own buffers.
type Pipeline struct {
	cfg config.PipelineConfig

	segm        *segm.Segmenter
	maskFilter  *filters.Gaussian
	edgeFilter  *filters.Laplacian
	blurFilter  *filters.DiscBokeh

	inpSegm []float32
	outSegm []float32
	maskS   []float32
	maskL   []float32

	bgImg []uint8
	blurS []uint8
	blurL []uint8

	blurSF []float32
}

// New constructs a pipeline for the given config and segmentation model.
// In Image mode the background PNG is loaded and resized eagerly; in Video
// mode construction fails, matching spec.md's explicit non-goal.
func New(cfg config.PipelineConfig, segmModel model.Model) (*Pipeline, error) {
	sg, err := segm.NewSegmenter(segmModel)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	mw, mh := sg.Width(), sg.Height()
	p := &Pipeline{
		cfg:        cfg,
		segm:       sg,
		maskFilter: filters.NewGaussian(cfg.MaskFilterRadius, mw, mh, 1),
		edgeFilter: filters.NewLaplacian(mw, mh, 1),
		blurFilter: filters.NewDiscBokeh(cfg.BlurFilterRadius, cfg.BlurFilterComponents, float32(cfg.BlurFilterTransition), mw, mh, 3),

		inpSegm: make([]float32, 3*mw*mh),
		outSegm: make([]float32, mw*mh),
		maskS:   make([]float32, mw*mh),
		maskL:   make([]float32, cfg.OutPixels()),
	}

	switch cfg.Mode {
	case config.ModeBlur:
		p.blurS = make([]uint8, 3*mw*mh)
		p.blurL = make([]uint8, 3*cfg.OutPixels())
		p.blurSF = make([]float32, 3*mw*mh)
	case config.ModeImage:
		p.bgImg = make([]uint8, 3*cfg.OutPixels())
		if err := background.LoadAndResize(cfg.BgImagePath, p.bgImg, cfg.OutWidth, cfg.OutHeight); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	case config.ModeVideo:
		return nil, fmt.Errorf("pipeline: mode %q is not supported", cfg.Mode)
	default:
		return nil, fmt.Errorf("pipeline: invalid mode %q", cfg.Mode)
	}

	return p, nil
}

// Invoke runs the per-frame program. inpU8 is (InWidth,InHeight,3);
// outU8 is (OutWidth,OutHeight,3), already allocated by the caller.
func (p *Pipeline) Invoke(inpU8, outU8 []uint8) error {
	mw, mh := p.segm.Width(), p.segm.Height()

	imgproc.ResizeBilinear(inpU8, p.cfg.InWidth, p.cfg.InHeight, p.inpSegm, mw, mh, 3)
	imgproc.ScaleInPlace(p.inpSegm, 1.0/255.0, 0)

	if err := p.segm.Invoke(p.inpSegm, p.outSegm); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	imgproc.ScaleInPlace(p.inpSegm, 255.0, 0)

	p.maskFilter.Invoke(p.outSegm, p.maskS)
	imgproc.ResizeBilinear(p.maskS, mw, mh, p.maskL, p.cfg.OutWidth, p.cfg.OutHeight, 1)

	switch p.cfg.Mode {
	case config.ModeBlur:
		p.blurFilter.Invoke(p.inpSegm, p.blurSF, p.outSegm)
		imgproc.ConvertF32ToU8(p.blurSF, p.blurS)
		imgproc.ResizeBilinear(p.blurS, mw, mh, p.blurL, p.cfg.OutWidth, p.cfg.OutHeight, 3)
		imgproc.AlphaBlend(inpU8, p.blurL, outU8, p.maskL, p.cfg.OutWidth, p.cfg.OutHeight, 3)
	case config.ModeImage:
		imgproc.AlphaBlend(inpU8, p.bgImg, outU8, p.maskL, p.cfg.OutWidth, p.cfg.OutHeight, 3)
	default:
		return fmt.Errorf("pipeline: mode %q is not supported", p.cfg.Mode)
	}

	return nil
}
