package device

import (
	"fmt"

	"github.com/ranjodhsingh/spotlight/internal/codec"
	"github.com/ranjodhsingh/spotlight/internal/config"
)

// Capture wraps a capture-direction Device, dequeueing one wire-format
// frame per call, decoding it into the pipeline's input buffer, and
// re-queueing the raw buffer immediately — the device-side buffer is never
// held across the pipeline's work.
type Capture struct {
	dev       *Device
	conv      codec.Converter
	width     int
	height    int
}

func OpenCapture(path string, cfg config.DeviceConfig, numBuffers int) (*Capture, error) {
	dev, err := openCaptureDevice(path, cfg, numBuffers)
	if err != nil {
		return nil, err
	}
	conv, err := codec.ForFourCC(cfg.FourCC, 0)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("capture: %w", err)
	}
	return &Capture{dev: dev, conv: conv, width: cfg.Width, height: cfg.Height}, nil
}

// Read dequeues the next frame and decodes it into rgb (width*height*3
// bytes), re-queueing the device buffer before returning.
func (c *Capture) Read(rgb []byte) error {
	index, wire, err := c.dev.Dequeue()
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}

	decodeErr := c.conv.Decode(wire, rgb, c.width, c.height)

	if err := c.dev.Enqueue(index, 0); err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	if decodeErr != nil {
		return fmt.Errorf("capture: %w", decodeErr)
	}
	return nil
}

func (c *Capture) Close() error { return c.dev.Close() }
