// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides dataset splitting and mini-batch loading for
// training Born models.
//
// # Overview
//
// This package contains:
//   - Dataset: Interface over finite labeled sample collections
//   - TensorDataset: In-memory dataset backed by Go slices
//   - Subset: Index view over another dataset
//   - RandomSplit / TrainValTest: Seeded dataset partitioning
//   - Loader: Mini-batch construction as Born tensors
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/born/autodiff"
//	    "github.com/born-ml/born/backend/cpu"
//	    "github.com/born-ml/born/tensor"
//	    "github.com/born-ml/borntrain/dataset"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    ds, err := dataset.NewTensorDataset(features, labels, tensor.Shape{784})
//	    train, val, _, err := dataset.TrainValTest(ds, 0.2, 0, 1)
//
//	    loaderTrain, err := dataset.NewLoader(train, dataset.LoaderConfig{
//	        BatchSize: 32,
//	        Shuffle:   true,
//	        Seed:      1,
//	    }, backend)
//	    loaderVal, err := dataset.NewLoader(val, dataset.LoaderConfig{
//	        BatchSize: 256,
//	    }, backend)
//
//	    batches, err := loaderTrain.Batches()
//	    _ = batches // feed the training loop
//	}
//
// Shuffled loaders re-permute on every Batches call from their own seeded
// RNG, so epochs see fresh orderings while whole runs stay reproducible.
// Loaders without Shuffle preserve dataset order, which is the right
// setting for validation and test partitions.
package dataset
