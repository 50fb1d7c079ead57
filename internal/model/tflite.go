package model

import "fmt"

// Load opens the model at path with the given inference thread hint. No
// Go TFLite binding exists in this build; spec.md treats model execution
// as an external collaborator, so this is the seam a deployment wires a
// real runtime into (e.g. via cgo against libtensorflowlite_c). Until then
// it fails the way spec.md's resource-error class requires: fatal at
// startup, before any device or buffer resources are acquired.
func Load(path string, numThreads int) (Model, error) {
	return nil, fmt.Errorf("model: no inference runtime linked into this build, cannot load %s", path)
}
