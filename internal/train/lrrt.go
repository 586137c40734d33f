package train

import (
	"errors"
	"io/fs"
	"math"
	"os"

	"github.com/born-ml/born/autodiff"
)

// LRRT runs the learning-rate range test and returns the best candidate.
//
// For every learning rate in the candidate set the model is reset to the
// running checkpoint, a fresh optimizer is built, and Config.LRRT.Batches
// training batches are run; the candidate whose batch-loss history has the
// steepest (most negative) fitted slope wins the round. If the best slope
// seen so far is below Config.LRRT.DesiredSlope the search stops early;
// otherwise all candidates are multiplied by Config.LRRT.Decay and the
// round repeats, up to Config.LRRT.MaxDecays decay rounds.
//
// The model is left in the state of the last candidate trained; callers
// that continue training should first restore the running checkpoint.
//
// If no running checkpoint exists yet, the model's current state is
// written as one.
func (t *Trainer[B]) LRRT(m Model[*autodiff.Backend[B]]) (bestLR float32, bestSlope float64, err error) {
	cfg := t.cfg.LRRT

	if _, statErr := os.Stat(t.ckpts.Running); statErr != nil {
		if !errors.Is(statErr, fs.ErrNotExist) {
			return 0, 0, statErr
		}
		if err := t.SaveSnapshot(m, t.ckpts.Running); err != nil {
			return 0, 0, err
		}
	}

	t.logf("greedily searching lr using lrrt")

	candidates := append([]float32(nil), cfg.Candidates...)
	bestSlope = math.Inf(1)

	for decay := 0; ; decay++ {
		roundLR := float32(0)
		roundSlope := math.Inf(1)

		for _, lr := range candidates {
			if err := t.RestoreSnapshot(m, t.ckpts.Running); err != nil {
				return 0, 0, err
			}
			opt := t.factory(m.Parameters(), lr)

			_, slope, _, err := t.TrainBatches(m, opt, cfg.Batches)
			if err != nil {
				return 0, 0, err
			}
			if slope < roundSlope {
				roundSlope = slope
				roundLR = lr
			}
		}

		if roundSlope < bestSlope {
			bestSlope = roundSlope
			bestLR = roundLR
		}
		if bestSlope < cfg.DesiredSlope {
			break
		}
		if decay == cfg.MaxDecays {
			t.logf("lr with desired loss slope %g not found, using approximate best lr", cfg.DesiredSlope)
			break
		}

		t.logf("decaying candidate lrs")
		for i := range candidates {
			candidates[i] *= float32(cfg.Decay)
		}
	}

	t.logf("best loss slope %.6g  best lr %g", bestSlope, bestLR)
	return bestLR, bestSlope, nil
}
