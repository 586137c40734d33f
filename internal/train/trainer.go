package train

import (
	"fmt"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/borntrain/internal/dataset"
)

// Trainer drives training and evaluation of a Model over a pair of data
// loaders.
//
// The trainer owns the autodiff backend (for tape control), the optimizer
// factory, the checkpoint paths and the monitoring configuration. It is
// not safe for concurrent use; the gradient tape is shared state.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	trainer, err := train.New(backend, loaderTrain, loaderVal, train.DefaultConfig())
//	result, err := trainer.FitLRRT(model, 20)
type Trainer[B tensor.Backend] struct {
	backend     *autodiff.Backend[B]
	loaderTrain *dataset.Loader[*autodiff.Backend[B]]
	loaderVal   *dataset.Loader[*autodiff.Backend[B]]
	factory     OptimizerFactory[*autodiff.Backend[B]]
	cfg         Config
	ckpts       Checkpoints
}

// New creates a Trainer over the given backend and loaders.
//
// The default optimizer factory is Adam with Born's default
// hyperparameters; override it with SetOptimizerFactory.
func New[B tensor.Backend](
	backend *autodiff.Backend[B],
	loaderTrain, loaderVal *dataset.Loader[*autodiff.Backend[B]],
	cfg Config,
) (*Trainer[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	if loaderTrain == nil || loaderVal == nil {
		return nil, fmt.Errorf("train: both train and validation loaders are required")
	}

	return &Trainer[B]{
		backend:     backend,
		loaderTrain: loaderTrain,
		loaderVal:   loaderVal,
		factory:     AdamFactory(backend),
		cfg:         cfg,
		ckpts:       CheckpointsIn(cfg.CheckpointDir),
	}, nil
}

// SetOptimizerFactory replaces the optimizer factory used by the epoch
// drivers and the learning-rate range test.
func (t *Trainer[B]) SetOptimizerFactory(f OptimizerFactory[*autodiff.Backend[B]]) {
	t.factory = f
}

// NewOptimizer builds an optimizer for the model at the given learning
// rate using the trainer's factory.
func (t *Trainer[B]) NewOptimizer(m Model[*autodiff.Backend[B]], lr float32) optim.Optimizer {
	return t.factory(m.Parameters(), lr)
}

// Checkpoints returns the checkpoint paths the trainer writes.
func (t *Trainer[B]) Checkpoints() Checkpoints {
	return t.ckpts
}

// Config returns the trainer configuration.
func (t *Trainer[B]) Config() Config {
	return t.cfg
}

func (t *Trainer[B]) logf(format string, args ...any) {
	if t.cfg.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// applyFreeze applies the configured freeze policy to models that have
// pretrained layers.
func (t *Trainer[B]) applyFreeze(m Model[*autodiff.Backend[B]]) {
	f, ok := m.(PretrainedFreezer)
	if !ok {
		return
	}
	if t.cfg.FreezePretrained {
		f.FreezePretrained()
	} else {
		f.UnfreezePretrained()
	}
}

// noGrad runs fn with tape recording suspended, restoring the previous
// recording state afterwards.
func (t *Trainer[B]) noGrad(fn func() error) error {
	tape := t.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()
	return fn()
}

// TrainBatch performs one optimization step on a single batch.
//
// The step zeroes gradients, runs the forward pass with the tape
// recording, backpropagates from the scalar loss, applies the optimizer
// update and clears the tape. Returns the batch loss.
func (t *Trainer[B]) TrainBatch(
	m Model[*autodiff.Backend[B]],
	opt optim.Optimizer,
	batch *dataset.Batch[*autodiff.Backend[B]],
) (float32, error) {
	t.applyFreeze(m)

	tape := t.backend.Tape()
	tape.StartRecording()
	opt.ZeroGrad()

	out := m.ForwardBatch(batch.X, batch.Y)
	if out.Loss == nil {
		return 0, fmt.Errorf("train: model returned a nil loss")
	}
	lossValue := out.Loss.Raw().AsFloat32()[0]

	// Seed backpropagation with dL/dL = 1.
	outputGrad, err := tensor.NewRaw(out.Loss.Shape(), out.Loss.DType(), t.backend.Device())
	if err != nil {
		return 0, fmt.Errorf("train: failed to create output gradient: %w", err)
	}
	outputGrad.AsFloat32()[0] = 1.0

	grads := tape.Backward(outputGrad, t.backend)
	opt.Step(grads)
	tape.Clear()

	return lossValue, nil
}

// TrainBatches trains on at most n batches of the training loader
// (a single pass; fewer if the loader is exhausted first).
//
// Every Config.MonitorEvery losses the mean and fitted slope of the
// recent window are reported. Returns the full loss history together
// with the least-squares slope and intercept over the whole run.
func (t *Trainer[B]) TrainBatches(
	m Model[*autodiff.Backend[B]],
	opt optim.Optimizer,
	n int,
) (losses []float32, slope, intercept float64, err error) {
	batches, err := t.loaderTrain.Batches()
	if err != nil {
		return nil, 0, 0, err
	}

	losses = make([]float32, 0, min(n, len(batches)))
	for i, batch := range batches {
		if i == n {
			break
		}

		loss, err := t.TrainBatch(m, opt, batch)
		if err != nil {
			return nil, 0, 0, err
		}
		losses = append(losses, loss)

		if len(losses)%t.cfg.MonitorEvery == 0 {
			window := losses[len(losses)-t.cfg.MonitorEvery:]
			windowSlope, _ := LossSlope(window)
			t.logf("iter %d  mean loss %.6f  loss slope %.6g", len(losses), meanLoss(window), windowSlope)
		}
	}

	slope, intercept = LossSlope(losses)
	return losses, slope, intercept, nil
}

// EvalBatchLoss computes the loss of one batch with recording suspended.
func (t *Trainer[B]) EvalBatchLoss(
	m Model[*autodiff.Backend[B]],
	batch *dataset.Batch[*autodiff.Backend[B]],
) (float32, error) {
	var loss float32
	err := t.noGrad(func() error {
		out := m.ForwardBatch(batch.X, batch.Y)
		if out.Loss == nil {
			return fmt.Errorf("train: model returned a nil loss")
		}
		loss = out.Loss.Raw().AsFloat32()[0]
		return nil
	})
	return loss, err
}

// EvalEpochLoss computes the mean batch loss over a full loader pass.
func (t *Trainer[B]) EvalEpochLoss(
	m Model[*autodiff.Backend[B]],
	loader *dataset.Loader[*autodiff.Backend[B]],
) (float64, error) {
	batches, err := loader.Batches()
	if err != nil {
		return 0, err
	}

	losses := make([]float32, 0, len(batches))
	for _, batch := range batches {
		loss, err := t.EvalBatchLoss(m, batch)
		if err != nil {
			return 0, err
		}
		losses = append(losses, loss)
	}
	return meanLoss(losses), nil
}

// EvalLosses computes the epoch evaluation loss on the training and
// validation loaders.
func (t *Trainer[B]) EvalLosses(m Model[*autodiff.Backend[B]]) (trainLoss, valLoss float64, err error) {
	trainLoss, err = t.EvalEpochLoss(m, t.loaderTrain)
	if err != nil {
		return 0, 0, err
	}
	valLoss, err = t.EvalEpochLoss(m, t.loaderVal)
	if err != nil {
		return 0, 0, err
	}
	return trainLoss, valLoss, nil
}

// EvalAccuracy computes sample-weighted classification accuracy over a
// full loader pass.
func (t *Trainer[B]) EvalAccuracy(
	m Model[*autodiff.Backend[B]],
	loader *dataset.Loader[*autodiff.Backend[B]],
) (float64, error) {
	batches, err := loader.Batches()
	if err != nil {
		return 0, err
	}

	var correct, total float64
	err = t.noGrad(func() error {
		for _, batch := range batches {
			out := m.ForwardBatch(batch.X, batch.Y)
			if out.Scores == nil {
				return fmt.Errorf("train: model returned nil scores, cannot compute accuracy")
			}
			acc := nn.Accuracy(out.Scores, batch.Y)
			correct += float64(acc) * float64(batch.Size)
			total += float64(batch.Size)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, fmt.Errorf("train: loader produced no samples")
	}
	return correct / total, nil
}

// PredictLabels returns the argmax class label for every sample in a batch.
func (t *Trainer[B]) PredictLabels(
	m Model[*autodiff.Backend[B]],
	batch *dataset.Batch[*autodiff.Backend[B]],
) ([]int32, error) {
	var labels []int32
	err := t.noGrad(func() error {
		out := m.ForwardBatch(batch.X, batch.Y)
		if out.Scores == nil {
			return fmt.Errorf("train: model returned nil scores, cannot predict labels")
		}

		shape := out.Scores.Shape()
		if len(shape) != 2 {
			return fmt.Errorf("train: scores must be 2D [batch, classes], got %v", shape)
		}
		rows, cols := shape[0], shape[1]
		data := out.Scores.Raw().AsFloat32()

		labels = make([]int32, rows)
		for i := 0; i < rows; i++ {
			labels[i] = argmax(data[i*cols : (i+1)*cols])
		}
		return nil
	})
	return labels, err
}

// PredictScores runs the model over a full loader pass and returns the
// scores of all samples concatenated along the batch dimension.
func (t *Trainer[B]) PredictScores(
	m Model[*autodiff.Backend[B]],
	loader *dataset.Loader[*autodiff.Backend[B]],
) (*tensor.Tensor[float32, *autodiff.Backend[B]], error) {
	batches, err := loader.Batches()
	if err != nil {
		return nil, err
	}

	var scores []*tensor.Tensor[float32, *autodiff.Backend[B]]
	err = t.noGrad(func() error {
		for _, batch := range batches {
			out := m.ForwardBatch(batch.X, batch.Y)
			if out.Scores == nil {
				return fmt.Errorf("train: model returned nil scores")
			}
			scores = append(scores, out.Scores.Detach())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tensor.Cat(scores, 0), nil
}

// SaveSnapshot writes the model state to a .born file.
func (t *Trainer[B]) SaveSnapshot(m Model[*autodiff.Backend[B]], path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := nn.Save[*autodiff.Backend[B]](m, path, snapshotModelType, nil); err != nil {
		return fmt.Errorf("train: failed to save snapshot %s: %w", path, err)
	}
	return nil
}

// RestoreSnapshot loads a .born snapshot into the model.
func (t *Trainer[B]) RestoreSnapshot(m Model[*autodiff.Backend[B]], path string) error {
	if _, err := nn.Load(path, t.backend, m); err != nil {
		return fmt.Errorf("train: failed to restore snapshot %s: %w", path, err)
	}
	return nil
}
