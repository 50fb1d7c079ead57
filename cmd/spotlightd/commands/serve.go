package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ranjodhsingh/spotlight/internal/api"
	"github.com/ranjodhsingh/spotlight/internal/device"
	"github.com/ranjodhsingh/spotlight/internal/face"
	"github.com/ranjodhsingh/spotlight/internal/imgproc"
	"github.com/ranjodhsingh/spotlight/internal/logger"
	"github.com/ranjodhsingh/spotlight/internal/model"
	"github.com/ranjodhsingh/spotlight/internal/pipeline"
)

var debugAddr string

// registerServeFlags binds the flag table from spec.md's External
// Interfaces section directly onto the root command, so spotlightd itself
// (with no subcommand) is the daemon's entry point, matching the original
// single-binary CLI.
func registerServeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("mode", "m", "", "pipeline mode: blur, image, or video")
	f.IntP("n-threads", "n", 0, "inference thread hint")
	f.StringP("in-dev", "i", "", "input device path")
	f.String("in-fmt", "", "input pixel format (FOURCC)")
	f.Int("in-w", 0, "input width")
	f.Int("in-h", 0, "input height")
	f.Float64("in-fps", 0, "input frame rate")
	f.StringP("out-dev", "o", "", "output device path")
	f.String("out-fmt", "", "output pixel format (FOURCC)")
	f.Int("out-w", 0, "output width")
	f.Int("out-h", 0, "output height")
	f.Float64("out-fps", 0, "output frame rate")
	f.StringP("bg-img", "b", "", "background PNG path (image mode)")

	cmd.Flags().StringVar(&debugAddr, "debug-addr", "", "address for the debug/metrics HTTP server (disabled if empty)")

	cmd.RunE = runServe
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := manager.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	log := logger.WithComponent("main")

	var teardown []func()
	defer func() {
		for i := len(teardown) - 1; i >= 0; i-- {
			teardown[i]()
		}
	}()

	segmModel, err := model.Load(cfg.SegmModelPath, cfg.NumThreads)
	if err != nil {
		return fmt.Errorf("loading segmentation model: %w", err)
	}
	teardown = append(teardown, func() { segmModel.Close() })

	pl, err := pipeline.New(cfg, segmModel)
	if err != nil {
		return fmt.Errorf("constructing pipeline: %w", err)
	}

	var faceDetector *face.Detector
	if cfg.Face.ModelPath != "" {
		faceModel, err := model.Load(cfg.Face.ModelPath, cfg.NumThreads)
		if err != nil {
			log.Warn().Err(err).Msg("face model unavailable, running without face stabilization")
		} else {
			teardown = append(teardown, func() { faceModel.Close() })
			faceDetector, err = face.NewDetector(
				faceModel, cfg.Face.TopK, float32(cfg.Face.ScoreThreshold), float32(cfg.Face.IoUThreshold),
				float32(cfg.Face.TemporalAlpha), float32(cfg.Face.JerkTolerance),
			)
			if err != nil {
				log.Warn().Err(err).Msg("face detector construction failed, running without it")
				faceDetector = nil
			}
		}
	}

	capDev, err := device.OpenCapture(cfg.InDev, cfg.InConfig(), 4)
	if err != nil {
		return fmt.Errorf("opening capture device: %w", err)
	}
	teardown = append(teardown, func() { capDev.Close() })

	out, err := device.OpenOutput(cfg.OutDev, cfg.OutConfig(), 4, cfg.JPEGQuality)
	if err != nil {
		return fmt.Errorf("opening output device: %w", err)
	}
	teardown = append(teardown, func() { out.Close() })

	stats := &api.Stats{}
	var debugSrv *api.Server
	if debugAddr != "" {
		debugSrv = api.NewServer(debugAddr, stats)
		go func() {
			if err := debugSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("debug server exited")
			}
		}()
		teardown = append(teardown, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			debugSrv.Shutdown(ctx)
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	inBuf := make([]byte, 3*cfg.InWidth*cfg.InHeight)
	outBuf := make([]byte, 3*cfg.OutWidth*cfg.OutHeight)

	var faceInput []float32
	if faceDetector != nil {
		faceInput = make([]float32, 3*faceDetector.Width()*faceDetector.Height())
	}

	log.Info().Str("mode", string(cfg.Mode)).Msg("spotlightd started")

	for {
		select {
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			return nil
		default:
		}

		start := time.Now()

		if err := capDev.Read(inBuf); err != nil {
			log.Error().Err(err).Msg("capture read failed")
			stats.RecordDrop()
			continue
		}

		if err := pl.Invoke(inBuf, outBuf); err != nil {
			log.Error().Err(err).Msg("pipeline invoke failed")
			stats.RecordDrop()
			continue
		}

		if err := out.Write(outBuf); err != nil {
			log.Error().Err(err).Msg("output write failed")
			stats.RecordDrop()
			continue
		}

		var lastFace face.Detection
		if faceDetector != nil {
			// The face stage is supporting, not wired into the live
			// Blur/Image composite; it runs for telemetry only, matching
			// spec.md's framing of §4.4 as "present in the code but
			// optional at the pipeline level."
			imgproc.ResizeBilinear(inBuf, cfg.InWidth, cfg.InHeight, faceInput, faceDetector.Width(), faceDetector.Height(), 3)
			if lf, err := faceDetector.Invoke(faceInput); err != nil {
				log.Warn().Err(err).Msg("face detector invoke failed")
			} else {
				lastFace = lf
			}
		}
		stats.RecordFrame(time.Since(start), lastFace)
	}
}
