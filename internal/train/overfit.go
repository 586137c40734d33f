package train

import (
	"fmt"

	"github.com/born-ml/born/autodiff"

	"github.com/born-ml/borntrain/internal/dataset"
	"github.com/born-ml/borntrain/internal/plot"
)

// OverfitBatch trains the model on one fixed batch for iters steps and
// returns the loss history.
//
// A model that cannot drive this loss toward zero has a wiring bug
// (dead gradients, wrong loss, broken labels); this is the cheapest
// end-to-end sanity check of a training setup.
func (t *Trainer[B]) OverfitBatch(
	m Model[*autodiff.Backend[B]],
	batch *dataset.Batch[*autodiff.Backend[B]],
	iters int,
	lr float32,
) ([]float32, error) {
	if iters < 1 {
		return nil, fmt.Errorf("train: overfit iterations must be >= 1, got %d", iters)
	}

	opt := t.factory(m.Parameters(), lr)
	losses := make([]float32, 0, iters)
	for i := 0; i < iters; i++ {
		loss, err := t.TrainBatch(m, opt, batch)
		if err != nil {
			return nil, err
		}
		losses = append(losses, loss)
	}
	return losses, nil
}

// CompareLearningRates overfits the same batch once per candidate learning
// rate, each run starting from an identical model state, and returns the
// loss history per candidate.
//
// When file is non-empty, the histories are rendered as a tiled loss-curve
// plot (one panel per candidate) for eyeballing a sensible initial
// learning rate. The model is restored to its starting state afterwards.
func (t *Trainer[B]) CompareLearningRates(
	m Model[*autodiff.Backend[B]],
	batch *dataset.Batch[*autodiff.Backend[B]],
	iters int,
	lrs []float32,
	file string,
) ([][]float32, error) {
	if len(lrs) == 0 {
		return nil, fmt.Errorf("train: no learning rate candidates given")
	}

	// LoadStateDict copies data into the live parameter buffers, so one
	// deep snapshot serves as the common starting point for every run.
	snapshot, err := cloneStateDict(m.StateDict(), t.backend.Device())
	if err != nil {
		return nil, err
	}

	histories := make([][]float32, 0, len(lrs))
	for _, lr := range lrs {
		if err := m.LoadStateDict(snapshot); err != nil {
			return nil, fmt.Errorf("train: failed to reset model state: %w", err)
		}
		losses, err := t.OverfitBatch(m, batch, iters, lr)
		if err != nil {
			return nil, err
		}
		histories = append(histories, losses)
	}

	if err := m.LoadStateDict(snapshot); err != nil {
		return nil, fmt.Errorf("train: failed to reset model state: %w", err)
	}

	if file != "" {
		series := make([][]float64, len(histories))
		titles := make([]string, len(histories))
		for i, h := range histories {
			series[i] = make([]float64, len(h))
			for j, l := range h {
				series[i][j] = float64(l)
			}
			titles[i] = fmt.Sprintf("lr %g", lrs[i])
		}
		if err := plot.Grid(series, titles, "iteration", "loss", file); err != nil {
			return nil, err
		}
	}

	return histories, nil
}
