// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the training-loop helpers for Born models: a
// generic training/evaluation driver, a learning-rate range test, early
// stopping with checkpointing, and overfit-one-batch debugging.
//
// # Overview
//
// This package contains:
//   - Model: The trainable-module contract (nn.Module plus ForwardBatch)
//   - Trainer: Batch/epoch training and evaluation driver
//   - Fit / FitLRRT: Epoch drivers with early stopping and checkpoints
//   - LRRT: Learning-rate range test
//   - OverfitBatch / CompareLearningRates: Debug utilities
//   - Config: Trainer setup, loadable from YAML
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/born/autodiff"
//	    "github.com/born-ml/born/backend/cpu"
//	    "github.com/born-ml/borntrain/dataset"
//	    "github.com/born-ml/borntrain/train"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    // loaderTrain, loaderVal: see package dataset
//	    trainer, err := train.New(backend, loaderTrain, loaderVal, train.DefaultConfig())
//
//	    // Sanity check: a healthy model can overfit a single batch.
//	    batch, err := loaderTrain.First()
//	    losses, err := trainer.OverfitBatch(model, batch, 100, 1e-3)
//
//	    // Full training with per-epoch learning-rate search.
//	    result, err := trainer.FitLRRT(model, 20)
//	    _ = result.LossesVal // epoch validation losses for plotting
//	}
//
// # Model Contract
//
// A Model is a Born nn.Module that additionally computes its own loss
// from a labeled batch, so the trainer stays agnostic of the loss
// function:
//
//	func (m *Net[B]) ForwardBatch(
//	    x *tensor.Tensor[float32, B],
//	    y *tensor.Tensor[int32, B],
//	) train.Output[B] {
//	    logits := m.Forward(x)
//	    return train.Output[B]{
//	        Loss:   m.criterion.Forward(logits, y),
//	        Scores: logits,
//	    }
//	}
//
// The loss must be produced by backend operations (for example Born's
// CrossEntropyLoss) so it is recorded on the gradient tape.
//
// # Checkpoints
//
// The epoch drivers maintain three .born snapshots under
// Config.CheckpointDir: the initial state, the running state after the
// most recent epoch, and the final state with the best validation loss.
// The learning-rate range test trains every candidate from the running
// snapshot, and Fit/FitLRRT leave the model restored to the final one.
package train
