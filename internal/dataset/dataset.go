// Package dataset implements dataset splitting and mini-batch loading
// for the Born training helpers.
//
// This package provides:
//   - Dataset interface: Finite collection of (features, label) samples
//   - TensorDataset: In-memory dataset backed by Go slices
//   - Subset: Index-based view over another dataset
//   - Loader: Materializes mini-batches as Born tensors
//
// Design inspired by PyTorch's torch.utils.data but adapted for Go.
package dataset

import (
	"fmt"

	"github.com/born-ml/born/tensor"
)

// Dataset is a finite collection of labeled samples.
//
// Samples are exposed as flat float32 feature vectors plus an int32 class
// label. FeatureShape describes the per-sample shape of the feature
// vector; a Loader reshapes batches to [batch_size, FeatureShape...].
type Dataset interface {
	// Len returns the number of samples in the dataset.
	Len() int

	// Sample returns the features and label of the i-th sample.
	//
	// The returned slice must not be modified by the caller.
	Sample(i int) (features []float32, label int32)

	// FeatureShape returns the shape of a single sample's features,
	// e.g. Shape{784} for flattened MNIST or Shape{1, 28, 28} for images.
	FeatureShape() tensor.Shape
}

// TensorDataset is an in-memory dataset backed by Go slices.
//
// Example:
//
//	features := [][]float32{{0, 1}, {1, 0}}
//	labels := []int32{1, 0}
//	ds, err := dataset.NewTensorDataset(features, labels, tensor.Shape{2})
type TensorDataset struct {
	features  [][]float32
	labels    []int32
	featShape tensor.Shape
}

// NewTensorDataset creates a dataset from per-sample feature vectors and labels.
//
// Every feature vector must have exactly featShape.NumElements() elements,
// and features and labels must have the same length.
func NewTensorDataset(features [][]float32, labels []int32, featShape tensor.Shape) (*TensorDataset, error) {
	if len(features) != len(labels) {
		return nil, fmt.Errorf("dataset: features length (%d) != labels length (%d)", len(features), len(labels))
	}
	if err := featShape.Validate(); err != nil {
		return nil, fmt.Errorf("dataset: invalid feature shape: %w", err)
	}

	want := featShape.NumElements()
	for i, f := range features {
		if len(f) != want {
			return nil, fmt.Errorf("dataset: sample %d has %d elements, want %d for shape %v",
				i, len(f), want, featShape)
		}
	}

	return &TensorDataset{
		features:  features,
		labels:    labels,
		featShape: featShape.Clone(),
	}, nil
}

// Len returns the number of samples.
func (d *TensorDataset) Len() int {
	return len(d.features)
}

// Sample returns the features and label of the i-th sample.
func (d *TensorDataset) Sample(i int) ([]float32, int32) {
	return d.features[i], d.labels[i]
}

// FeatureShape returns the per-sample feature shape.
func (d *TensorDataset) FeatureShape() tensor.Shape {
	return d.featShape
}

// Subset is a view over a base dataset through an index list.
//
// Subsets are produced by RandomSplit and TrainValTest; they share the
// base dataset's storage.
type Subset struct {
	base    Dataset
	indices []int
}

// NewSubset creates a subset of base containing the given indices.
func NewSubset(base Dataset, indices []int) (*Subset, error) {
	n := base.Len()
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("dataset: subset index %d out of range [0, %d)", idx, n)
		}
	}
	return &Subset{base: base, indices: indices}, nil
}

// Len returns the number of samples in the subset.
func (s *Subset) Len() int {
	return len(s.indices)
}

// Sample returns the features and label of the i-th subset sample.
func (s *Subset) Sample(i int) ([]float32, int32) {
	return s.base.Sample(s.indices[i])
}

// FeatureShape returns the base dataset's per-sample feature shape.
func (s *Subset) FeatureShape() tensor.Shape {
	return s.base.FeatureShape()
}
