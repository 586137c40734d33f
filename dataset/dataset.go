// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dataset

import (
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/borntrain/internal/dataset"
)

// Dataset is a finite collection of labeled samples.
type Dataset = dataset.Dataset

// TensorDataset is an in-memory dataset backed by Go slices.
type TensorDataset = dataset.TensorDataset

// NewTensorDataset creates a dataset from per-sample feature vectors and
// labels. Every feature vector must match featShape.
//
// Example:
//
//	ds, err := dataset.NewTensorDataset(features, labels, tensor.Shape{784})
func NewTensorDataset(features [][]float32, labels []int32, featShape tensor.Shape) (*TensorDataset, error) {
	return dataset.NewTensorDataset(features, labels, featShape)
}

// Subset is a view over a base dataset through an index list.
type Subset = dataset.Subset

// NewSubset creates a subset of base containing the given indices.
func NewSubset(base Dataset, indices []int) (*Subset, error) {
	return dataset.NewSubset(base, indices)
}

// RandomSplit partitions a dataset into disjoint subsets with a seeded
// permutation; fractions must each lie in (0, 1) and sum to at most 1.
//
// Example:
//
//	parts, err := dataset.RandomSplit(ds, []float64{0.8, 0.2}, 1)
func RandomSplit(ds Dataset, fractions []float64, seed int64) ([]*Subset, error) {
	return dataset.RandomSplit(ds, fractions, seed)
}

// TrainValTest splits a dataset into train, validation and test subsets;
// the training subset receives the remainder. A zero testFrac yields a
// nil test subset.
func TrainValTest(ds Dataset, valFrac, testFrac float64, seed int64) (train, val, test *Subset, err error) {
	return dataset.TrainValTest(ds, valFrac, testFrac, seed)
}

// Batch is a mini-batch of samples materialized as Born tensors.
type Batch[B tensor.Backend] = dataset.Batch[B]

// LoaderConfig holds configuration for a Loader.
type LoaderConfig = dataset.LoaderConfig

// Loader batches a Dataset into Born tensors on a given backend.
type Loader[B tensor.Backend] = dataset.Loader[B]

// NewLoader creates a loader over ds with the given configuration.
//
// Example:
//
//	loader, err := dataset.NewLoader(ds, dataset.LoaderConfig{
//	    BatchSize: 32,
//	    Shuffle:   true,
//	    Seed:      1,
//	}, backend)
func NewLoader[B tensor.Backend](ds Dataset, cfg LoaderConfig, backend B) (*Loader[B], error) {
	return dataset.NewLoader(ds, cfg, backend)
}
