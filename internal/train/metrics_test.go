package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLossSlope_FitsLine(t *testing.T) {
	// losses on the line y = 2x + 1
	slope, intercept := LossSlope([]float32{1, 3, 5, 7})
	assert.InDelta(t, 2.0, slope, 1e-9)
	assert.InDelta(t, 1.0, intercept, 1e-9)
}

func TestLossSlope_FallingLoss(t *testing.T) {
	slope, _ := LossSlope([]float32{2.0, 1.5, 1.1, 0.8, 0.6})
	assert.Less(t, slope, 0.0)
}

func TestLossSlope_FlatLoss(t *testing.T) {
	slope, intercept := LossSlope([]float32{2, 2, 2, 2})
	assert.InDelta(t, 0.0, slope, 1e-9)
	assert.InDelta(t, 2.0, intercept, 1e-9)
}

func TestLossSlope_ShortHistories(t *testing.T) {
	slope, intercept := LossSlope(nil)
	assert.Zero(t, slope)
	assert.Zero(t, intercept)

	slope, intercept = LossSlope([]float32{5})
	assert.Zero(t, slope)
	assert.InDelta(t, 5.0, intercept, 1e-9)
}

func TestMeanLoss(t *testing.T) {
	assert.Zero(t, meanLoss(nil))
	assert.InDelta(t, 2.0, meanLoss([]float32{1, 2, 3}), 1e-9)
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, int32(0), argmax([]float32{3, 1, 2}))
	assert.Equal(t, int32(2), argmax([]float32{-3, -2, -1}))
	assert.Equal(t, int32(0), argmax([]float32{1, 1}), "ties go to the first index")
}
