// Package model defines the boundary to the external neural-inference
// collaborator. The core never loads or executes a model itself; it only
// calls Invoke on a fixed-shape tensor and reads back fixed-shape outputs.
package model

// Model is a loaded neural network exposing synchronous, fixed-shape
// inference. Implementations own the underlying inference runtime (e.g. a
// TFLite interpreter) and are not safe for concurrent use, matching the
// single-threaded pipeline that calls them.
type Model interface {
	// Invoke runs inference on input (length InputSize()) and writes the
	// result into output (length OutputSize()).
	Invoke(input, output []float32) error

	// InputWidth and InputHeight are the model's fixed input resolution.
	InputWidth() int
	InputHeight() int

	InputSize() int
	OutputSize() int

	// Close releases the underlying inference runtime's resources.
	Close() error
}

// Options carries the knobs spec.md forwards to the inference backend
// without the pipeline itself interpreting them.
type Options struct {
	ModelPath  string
	NumThreads int
}
