package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFailsWithoutRuntime(t *testing.T) {
	m, err := Load("models/segm/segm_lite_v681.tflite", 1)
	assert.Nil(t, m)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "segm_lite_v681.tflite")
}
