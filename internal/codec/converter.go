// Package codec converts between a device's wire pixel format and the
// pipeline's interleaved 8-bit RGB buffers.
package codec

import "github.com/ranjodhsingh/spotlight/internal/config"

// Converter decodes a device-native frame into interleaved RGB and encodes
// interleaved RGB back into the device-native format.
type Converter interface {
	// Decode reads a wire-format frame and writes width*height*3 RGB bytes
	// into rgb.
	Decode(wire []byte, rgb []byte, width, height int) error

	// Encode reads width*height*3 RGB bytes and writes a wire-format frame
	// into wire, returning the number of bytes written.
	Encode(rgb []byte, wire []byte, width, height int) (int, error)
}

// ForFourCC resolves the Converter implementation for a pixel format. Only
// the formats the daemon's defaults exercise are wired: MJPG (via stdlib
// image/jpeg) and YUYV (via stdlib image/color.YCbCr). turbojpeg and libyuv,
// which the reference implementation binds instead, have no Go package in
// the example pack.
func ForFourCC(fourcc config.FourCC, jpegQuality int) (Converter, error) {
	switch fourcc.String() {
	case "MJPG":
		return &MJPEG{Quality: jpegQuality}, nil
	case "YUYV":
		return &YUYV{}, nil
	default:
		return nil, &UnsupportedFormatError{FourCC: fourcc}
	}
}

type UnsupportedFormatError struct {
	FourCC config.FourCC
}

func (e *UnsupportedFormatError) Error() string {
	return "codec: unsupported pixel format " + e.FourCC.String()
}
