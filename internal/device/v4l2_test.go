package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFractionalFPS(t *testing.T) {
	assert.False(t, isFractionalFPS(30))
	assert.False(t, isFractionalFPS(60))
	assert.False(t, isFractionalFPS(0))
	assert.True(t, isFractionalFPS(29.97))
	assert.True(t, isFractionalFPS(23.976))
}
