// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train

import (
	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/borntrain/internal/dataset"
	"github.com/born-ml/borntrain/internal/train"
)

// Output is the result of a model forward pass on one batch.
type Output[B tensor.Backend] = train.Output[B]

// Model is a trainable module driven by the Trainer.
type Model[B tensor.Backend] = train.Model[B]

// PretrainedFreezer is implemented by models whose pretrained layers can
// be excluded from gradient updates.
type PretrainedFreezer = train.PretrainedFreezer

// OptimizerFactory builds a fresh optimizer over params at a learning rate.
type OptimizerFactory[B tensor.Backend] = train.OptimizerFactory[B]

// AdamFactory returns an OptimizerFactory producing Adam optimizers.
func AdamFactory[B tensor.Backend](backend B) OptimizerFactory[B] {
	return train.AdamFactory(backend)
}

// SGDFactory returns an OptimizerFactory producing SGD optimizers with
// the given momentum.
func SGDFactory[B tensor.Backend](backend B, momentum float32) OptimizerFactory[B] {
	return train.SGDFactory(backend, momentum)
}

// Config holds the trainer setup.
type Config = train.Config

// LRRTConfig configures the learning-rate range test.
type LRRTConfig = train.LRRTConfig

// EarlyStoppingConfig configures the early-stopping policy.
type EarlyStoppingConfig = train.EarlyStoppingConfig

// DefaultConfig returns the default trainer setup.
func DefaultConfig() Config {
	return train.DefaultConfig()
}

// LoadConfig reads a YAML experiment file over the defaults.
//
// Example:
//
//	cfg, err := train.LoadConfig("train.yaml")
func LoadConfig(path string) (Config, error) {
	return train.LoadConfig(path)
}

// Checkpoints is the initial/running/final checkpoint path triple.
type Checkpoints = train.Checkpoints

// CheckpointsIn returns the conventional checkpoint paths under dir.
func CheckpointsIn(dir string) Checkpoints {
	return train.CheckpointsIn(dir)
}

// FitResult summarizes an epoch-driver run.
type FitResult = train.FitResult

// Trainer drives training and evaluation of a Model.
type Trainer[B tensor.Backend] = train.Trainer[B]

// New creates a Trainer over the given autodiff backend and loaders.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	trainer, err := train.New(backend, loaderTrain, loaderVal, train.DefaultConfig())
func New[B tensor.Backend](
	backend *autodiff.Backend[B],
	loaderTrain, loaderVal *dataset.Loader[*autodiff.Backend[B]],
	cfg Config,
) (*Trainer[B], error) {
	return train.New(backend, loaderTrain, loaderVal, cfg)
}

// LossSlope fits a least-squares line to a loss history and returns its
// slope and intercept; a negative slope means the loss is falling.
func LossSlope(losses []float32) (slope, intercept float64) {
	return train.LossSlope(losses)
}
