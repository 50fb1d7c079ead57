package pipeline

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ranjodhsingh/spotlight/internal/config"
)

// fakeSegmModel is a model.Model stub whose output is fully configurable,
// used to drive the compositor through the end-to-end scenarios spec.md
// names explicitly (all-foreground mask, all-background mask).
type fakeSegmModel struct {
	w, h   int
	fgBias float32 // fg logit minus bg logit, constant over the frame
}

func (m *fakeSegmModel) Invoke(_ []float32, output []float32) error {
	for i := 0; i < m.w*m.h; i++ {
		output[2*i] = 0
		output[2*i+1] = m.fgBias
	}
	return nil
}

func (m *fakeSegmModel) InputWidth() int   { return m.w }
func (m *fakeSegmModel) InputHeight() int  { return m.h }
func (m *fakeSegmModel) InputSize() int    { return 3 * m.w * m.h }
func (m *fakeSegmModel) OutputSize() int   { return 2 * m.w * m.h }
func (m *fakeSegmModel) Close() error      { return nil }

func writeTestPNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func testConfig(mode config.Mode, w, h int) config.PipelineConfig {
	cfg := config.Defaults()
	cfg.Mode = mode
	cfg.InWidth, cfg.InHeight = w, h
	cfg.OutWidth, cfg.OutHeight = w, h
	return cfg
}

func TestAllZeroInputBlurModeIsBlack(t *testing.T) {
	const n = 16
	cfg := testConfig(config.ModeBlur, n, n)
	p, err := New(cfg, &fakeSegmModel{w: 8, h: 8, fgBias: 1})
	require.NoError(t, err)

	in := make([]uint8, n*n*3)
	out := make([]uint8, n*n*3)
	require.NoError(t, p.Invoke(in, out))

	for _, v := range out {
		require.Equal(t, uint8(0), v)
	}
}

func TestAllForegroundMaskReproducesInputExactly(t *testing.T) {
	const n = 16
	cfg := testConfig(config.ModeBlur, n, n)
	p, err := New(cfg, &fakeSegmModel{w: 8, h: 8, fgBias: 1})
	require.NoError(t, err)

	in := make([]uint8, n*n*3)
	for i := range in {
		in[i] = uint8(17 + i%200)
	}
	out := make([]uint8, n*n*3)
	require.NoError(t, p.Invoke(in, out))
	// The feathered mask reaches 1.0 through a normalized Gaussian kernel and
	// a bilinear resize; any float rounding left in it is far below the half
	// unit that AlphaBlend's round-half-up conversion absorbs, so the output
	// matches the input byte for byte.
	for i := range out {
		require.Equal(t, in[i], out[i])
	}
}

func TestAllBackgroundMaskImageModeMatchesBackground(t *testing.T) {
	const n = 8
	dir := t.TempDir()
	bgPath := filepath.Join(dir, "bg.png")
	writeTestPNG(t, bgPath, n, n, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	cfg := testConfig(config.ModeImage, n, n)
	cfg.BgImagePath = bgPath
	p, err := New(cfg, &fakeSegmModel{w: 8, h: 8, fgBias: -1})
	require.NoError(t, err)

	in := make([]uint8, n*n*3)
	for i := range in {
		in[i] = 255
	}
	out := make([]uint8, n*n*3)
	require.NoError(t, p.Invoke(in, out))

	for i := 0; i < n*n; i++ {
		require.Equal(t, uint8(10), out[3*i+0])
		require.Equal(t, uint8(20), out[3*i+1])
		require.Equal(t, uint8(30), out[3*i+2])
	}
}

func TestVideoModeConstructionFails(t *testing.T) {
	cfg := testConfig(config.ModeVideo, 8, 8)
	_, err := New(cfg, &fakeSegmModel{w: 8, h: 8})
	require.Error(t, err)
}
