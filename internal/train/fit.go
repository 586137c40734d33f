package train

import (
	"fmt"

	"github.com/born-ml/born/autodiff"
)

// FitResult summarizes an epoch-driver run.
//
// LossesTrain and LossesVal hold the epoch evaluation losses; index 0 is
// the evaluation before any training, so both have Epochs+1 entries.
type FitResult struct {
	LossesTrain  []float64
	LossesVal    []float64
	LRs          []float32 // learning rate used in each training epoch
	Epochs       int       // training epochs completed
	EarlyStopped bool
}

// earlyStopper counts consecutive epochs without validation improvement.
// A non-positive max disables the policy.
type earlyStopper struct {
	max        int
	violations int
}

func (e *earlyStopper) observe(improved bool) (stop bool) {
	if improved {
		e.violations = 0
		return false
	}
	e.violations++
	return e.max > 0 && e.violations >= e.max
}

// beginRun snapshots the untrained model into all three checkpoint slots.
// Seeding final here guarantees RestoreSnapshot(final) succeeds even if no
// epoch ever improves on the initial validation loss.
func (t *Trainer[B]) beginRun(m Model[*autodiff.Backend[B]]) error {
	for _, path := range []string{t.ckpts.Initial, t.ckpts.Running, t.ckpts.Final} {
		if err := t.SaveSnapshot(m, path); err != nil {
			return err
		}
	}
	return nil
}

// closeEpoch evaluates the model, applies the checkpoint and
// early-stopping policy, and records the epoch in res.
func (t *Trainer[B]) closeEpoch(
	m Model[*autodiff.Backend[B]],
	res *FitResult,
	bestVal *float64,
	stopper *earlyStopper,
) (stop bool, err error) {
	trainLoss, valLoss, err := t.EvalLosses(m)
	if err != nil {
		return false, err
	}
	t.logf("eval loss val %.6f  eval loss train %.6f", valLoss, trainLoss)
	res.LossesTrain = append(res.LossesTrain, trainLoss)
	res.LossesVal = append(res.LossesVal, valLoss)

	improved := valLoss < *bestVal
	if improved {
		*bestVal = valLoss
	}

	// Running is updated every epoch; final only on improvement.
	if err := t.SaveSnapshot(m, t.ckpts.Running); err != nil {
		return false, err
	}
	if improved {
		if err := t.SaveSnapshot(m, t.ckpts.Final); err != nil {
			return false, err
		}
	}

	stop = stopper.observe(improved)
	if improved {
		t.logf("loss improvement achieved, running and final checkpoints updated")
	} else {
		t.logf("no loss improvement, early stopping violations: %d of %d", stopper.violations, stopper.max)
	}
	return stop, nil
}

// Fit trains the model for up to maxEpochs epochs with a fixed per-epoch
// learning-rate schedule.
//
// A single optimizer is created at lrs[0] and moved along the schedule
// with SetLR, so Adam moments and momentum buffers survive across epochs.
// After every epoch the model is evaluated on both loaders; the running
// checkpoint is always updated, the final checkpoint only when the
// validation loss improves. Training stops early after
// Config.EarlyStopping.MaxViolations consecutive epochs without
// improvement.
//
// On return the model holds the final (best validation loss) state.
func (t *Trainer[B]) Fit(m Model[*autodiff.Backend[B]], maxEpochs int, lrs []float32) (*FitResult, error) {
	if maxEpochs < 1 {
		return nil, fmt.Errorf("train: maxEpochs must be >= 1, got %d", maxEpochs)
	}
	if len(lrs) < maxEpochs {
		return nil, fmt.Errorf("train: need one learning rate per epoch: got %d for %d epochs", len(lrs), maxEpochs)
	}

	if err := t.beginRun(m); err != nil {
		return nil, err
	}

	res := &FitResult{}
	trainLoss, bestVal, err := t.EvalLosses(m)
	if err != nil {
		return nil, err
	}
	t.logf("initial eval loss val %.6f  eval loss train %.6f", bestVal, trainLoss)
	res.LossesTrain = append(res.LossesTrain, trainLoss)
	res.LossesVal = append(res.LossesVal, bestVal)

	opt := t.factory(m.Parameters(), lrs[0])
	stopper := &earlyStopper{max: t.cfg.EarlyStopping.MaxViolations}

	for epoch := 1; epoch <= maxEpochs; epoch++ {
		t.logf("training epoch %d", epoch)
		lr := lrs[epoch-1]
		if adj, ok := opt.(lrAdjustable); ok {
			adj.SetLR(lr)
		} else {
			opt = t.factory(m.Parameters(), lr)
		}

		if _, _, _, err := t.TrainBatches(m, opt, t.loaderTrain.NumBatches()); err != nil {
			return nil, err
		}
		res.Epochs = epoch
		res.LRs = append(res.LRs, lr)

		stop, err := t.closeEpoch(m, res, &bestVal, stopper)
		if err != nil {
			return nil, err
		}
		if stop {
			t.logf("early stopping")
			res.EarlyStopped = true
			break
		}
	}

	if err := t.RestoreSnapshot(m, t.ckpts.Final); err != nil {
		return nil, err
	}
	return res, nil
}

// FitLRRT trains the model for up to maxEpochs epochs, determining each
// epoch's learning rate with the learning-rate range test.
//
// Every epoch: run LRRT from the running checkpoint, restore the running
// checkpoint, build a fresh optimizer at the best learning rate, train a
// full pass over the training loader, then evaluate and apply the same
// checkpoint/early-stopping policy as Fit.
//
// On return the model holds the final (best validation loss) state.
func (t *Trainer[B]) FitLRRT(m Model[*autodiff.Backend[B]], maxEpochs int) (*FitResult, error) {
	if maxEpochs < 1 {
		return nil, fmt.Errorf("train: maxEpochs must be >= 1, got %d", maxEpochs)
	}

	if err := t.beginRun(m); err != nil {
		return nil, err
	}

	res := &FitResult{}
	trainLoss, bestVal, err := t.EvalLosses(m)
	if err != nil {
		return nil, err
	}
	t.logf("initial eval loss val %.6f  eval loss train %.6f", bestVal, trainLoss)
	res.LossesTrain = append(res.LossesTrain, trainLoss)
	res.LossesVal = append(res.LossesVal, bestVal)

	stopper := &earlyStopper{max: t.cfg.EarlyStopping.MaxViolations}

	for epoch := 1; epoch <= maxEpochs; epoch++ {
		t.logf("training epoch %d", epoch)

		lr, _, err := t.LRRT(m)
		if err != nil {
			return nil, err
		}
		if err := t.RestoreSnapshot(m, t.ckpts.Running); err != nil {
			return nil, err
		}
		opt := t.factory(m.Parameters(), lr)

		if _, _, _, err := t.TrainBatches(m, opt, t.loaderTrain.NumBatches()); err != nil {
			return nil, err
		}
		res.Epochs = epoch
		res.LRs = append(res.LRs, lr)

		stop, err := t.closeEpoch(m, res, &bestVal, stopper)
		if err != nil {
			return nil, err
		}
		if stop {
			t.logf("early stopping")
			res.EarlyStopped = true
			break
		}
	}

	if err := t.RestoreSnapshot(m, t.ckpts.Final); err != nil {
		return nil, err
	}
	return res, nil
}
