package train

import (
	"gonum.org/v1/gonum/stat"
)

// LossSlope fits a least-squares line to a loss history and returns its
// slope and intercept.
//
// The x axis is the batch index 0..len(losses)-1, so a negative slope
// means the loss is falling. This is the measurement both the batch
// monitor and the learning-rate range test rank candidates by.
//
// Histories shorter than two points have no defined slope; they yield 0
// and the single loss value (or 0 for an empty history).
func LossSlope(losses []float32) (slope, intercept float64) {
	switch len(losses) {
	case 0:
		return 0, 0
	case 1:
		return 0, float64(losses[0])
	}

	xs := make([]float64, len(losses))
	ys := make([]float64, len(losses))
	for i, l := range losses {
		xs[i] = float64(i)
		ys[i] = float64(l)
	}

	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept
}

// meanLoss returns the arithmetic mean of a loss history.
func meanLoss(losses []float32) float64 {
	if len(losses) == 0 {
		return 0
	}
	var sum float64
	for _, l := range losses {
		sum += float64(l)
	}
	return sum / float64(len(losses))
}

// argmax returns the index of the largest value in a row of scores.
func argmax(row []float32) int32 {
	best := 0
	for i := 1; i < len(row); i++ {
		if row[i] > row[best] {
			best = i
		}
	}
	return int32(best)
}
