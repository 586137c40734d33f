// Package train implements the training-loop helpers for the Born ML
// framework: a generic training/evaluation driver, learning-rate range
// test, early stopping with checkpointing, and overfit-one-batch
// debugging.
//
// The package is glue over Born's public training primitives (autodiff
// tape, optimizers, nn modules, .born serialization); it owns no tensor
// math of its own.
package train

import (
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"
)

// Output is the result of a model forward pass on one batch.
type Output[B tensor.Backend] struct {
	// Loss is the scalar batch loss, shape [1]. It must be produced by
	// backend operations so that it lands on the gradient tape.
	Loss *tensor.Tensor[float32, B]

	// Scores are the per-class scores (logits), shape [batch, classes].
	// May be nil for models that only expose a loss.
	Scores *tensor.Tensor[float32, B]
}

// Model is a trainable module driven by the Trainer.
//
// On top of Born's nn.Module surface (Forward, Parameters, StateDict,
// LoadStateDict) a Model computes its own loss from a labeled batch, so
// the trainer stays agnostic of the loss function:
//
//	func (m *Net[B]) ForwardBatch(x *tensor.Tensor[float32, B], y *tensor.Tensor[int32, B]) train.Output[B] {
//	    logits := m.Forward(x)
//	    return train.Output[B]{Loss: m.criterion.Forward(logits, y), Scores: logits}
//	}
type Model[B tensor.Backend] interface {
	nn.Module[B]

	// ForwardBatch computes scores and loss for one labeled batch.
	ForwardBatch(x *tensor.Tensor[float32, B], y *tensor.Tensor[int32, B]) Output[B]
}

// PretrainedFreezer is implemented by models with pretrained layers that
// can be excluded from gradient updates.
//
// When a Model also implements PretrainedFreezer, the trainer calls
// FreezePretrained or UnfreezePretrained before every training step
// according to Config.FreezePretrained.
type PretrainedFreezer interface {
	FreezePretrained()
	UnfreezePretrained()
}

// OptimizerFactory builds a fresh optimizer over params at the given
// learning rate. The learning-rate range test and the epoch drivers use
// it wherever the original workflow would construct an optimizer.
type OptimizerFactory[B tensor.Backend] func(params []*nn.Parameter[B], lr float32) optim.Optimizer

// AdamFactory returns an OptimizerFactory producing Adam optimizers with
// Born's default betas and epsilon.
func AdamFactory[B tensor.Backend](backend B) OptimizerFactory[B] {
	return func(params []*nn.Parameter[B], lr float32) optim.Optimizer {
		return optim.NewAdam(params, optim.AdamConfig{LR: lr}, backend)
	}
}

// SGDFactory returns an OptimizerFactory producing SGD optimizers with the
// given momentum.
func SGDFactory[B tensor.Backend](backend B, momentum float32) OptimizerFactory[B] {
	return func(params []*nn.Parameter[B], lr float32) optim.Optimizer {
		return optim.NewSGD(params, optim.SGDConfig{LR: lr, Momentum: momentum}, backend)
	}
}

// lrAdjustable is satisfied by Born's Adam and SGD; the Fit driver uses it
// to move one optimizer across the per-epoch learning-rate schedule
// without discarding accumulated optimizer state.
type lrAdjustable interface {
	SetLR(lr float32)
}
