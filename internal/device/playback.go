package device

import (
	"fmt"
	"time"

	"github.com/ranjodhsingh/spotlight/internal/codec"
	"github.com/ranjodhsingh/spotlight/internal/config"
	"github.com/ranjodhsingh/spotlight/internal/logger"
)

// Output wraps an output-direction Device: each Write dequeues a free
// buffer, sleeps until the scheduled next-frame instant, encodes the
// composited RGB frame into it and re-queues it. The monotonic cursor
// advances by 1/fps every call; if it has already fallen behind the clock,
// it is reset to one interval from now.
type Output struct {
	dev    *Device
	conv   codec.Converter
	width  int
	height int

	interval time.Duration
	next     time.Time
}

func OpenOutput(path string, cfg config.DeviceConfig, numBuffers int, jpegQuality int) (*Output, error) {
	dev, err := openOutputDevice(path, cfg, numBuffers)
	if err != nil {
		return nil, err
	}
	conv, err := codec.ForFourCC(cfg.FourCC, jpegQuality)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("output: %w", err)
	}

	interval := time.Duration(0)
	if cfg.FPS > 0 {
		interval = time.Duration(float64(time.Second) / cfg.FPS)
	}

	return &Output{dev: dev, conv: conv, width: cfg.Width, height: cfg.Height, interval: interval, next: time.Now()}, nil
}

// Write sleeps until the scheduled next-frame instant, then encodes rgb
// (width*height*3 bytes) into the device's wire format and submits it.
func (o *Output) Write(rgb []byte) error {
	index, _, err := o.dev.Dequeue()
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if o.interval > 0 {
		now := time.Now()
		if o.next.After(now) {
			time.Sleep(o.next.Sub(now))
		}
		o.next = o.next.Add(o.interval)
		if o.next.Before(time.Now()) {
			logger.WithComponent("device").Warn().Msg("output frame pacing fell behind; resetting cursor")
			o.next = time.Now().Add(o.interval)
		}
	}

	buf := o.dev.BufferAt(index)
	n, encErr := o.conv.Encode(rgb, buf, o.width, o.height)
	if encErr != nil {
		o.dev.Enqueue(index, 0)
		return fmt.Errorf("output: %w", encErr)
	}

	if err := o.dev.Enqueue(index, n); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

func (o *Output) Close() error { return o.dev.Close() }
