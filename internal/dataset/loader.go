package dataset

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/born/tensor"
)

// Batch is a mini-batch of samples materialized as Born tensors.
//
// X has shape [Size, FeatureShape...] and Y has shape [Size].
type Batch[B tensor.Backend] struct {
	X    *tensor.Tensor[float32, B]
	Y    *tensor.Tensor[int32, B]
	Size int
}

// LoaderConfig holds configuration for a Loader.
type LoaderConfig struct {
	BatchSize int   // Samples per batch (required, > 0)
	Shuffle   bool  // Re-permute sample order on every Batches() call
	Seed      int64 // Seed for the shuffle permutation
	DropLast  bool  // Drop the trailing partial batch
}

// Loader batches a Dataset into Born tensors on a given backend.
//
// A shuffled loader draws a fresh permutation from its own seeded RNG each
// time Batches is called, so successive epochs see different orderings
// while the whole sequence stays reproducible for a given seed. Validation
// and test loaders should leave Shuffle off, which preserves dataset order
// (the sequential-sampler convention).
//
// Example:
//
//	loader, err := dataset.NewLoader(train, dataset.LoaderConfig{
//	    BatchSize: 32,
//	    Shuffle:   true,
//	    Seed:      1,
//	}, backend)
//	batches, err := loader.Batches()
type Loader[B tensor.Backend] struct {
	ds      Dataset
	cfg     LoaderConfig
	rng     *rand.Rand
	backend B
}

// NewLoader creates a loader over ds with the given configuration.
func NewLoader[B tensor.Backend](ds Dataset, cfg LoaderConfig, backend B) (*Loader[B], error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("dataset: cannot load from an empty dataset")
	}
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("dataset: batch size must be >= 1, got %d", cfg.BatchSize)
	}

	return &Loader[B]{
		ds:      ds,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		backend: backend,
	}, nil
}

// NumBatches returns the number of batches one Batches() call yields.
func (l *Loader[B]) NumBatches() int {
	n := l.ds.Len()
	if l.cfg.DropLast {
		return n / l.cfg.BatchSize
	}
	return (n + l.cfg.BatchSize - 1) / l.cfg.BatchSize
}

// BatchSize returns the configured batch size.
func (l *Loader[B]) BatchSize() int {
	return l.cfg.BatchSize
}

// Batches materializes the dataset into mini-batch tensors.
//
// The last batch may be smaller than BatchSize unless DropLast is set.
func (l *Loader[B]) Batches() ([]*Batch[B], error) {
	n := l.ds.Len()

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if l.cfg.Shuffle {
		// Fisher-Yates over the loader's own RNG.
		for i := n - 1; i > 0; i-- {
			j := l.rng.Intn(i + 1)
			indices[i], indices[j] = indices[j], indices[i]
		}
	}

	batches := make([]*Batch[B], 0, l.NumBatches())
	for start := 0; start < n; start += l.cfg.BatchSize {
		end := start + l.cfg.BatchSize
		if end > n {
			if l.cfg.DropLast {
				break
			}
			end = n
		}

		batch, err := l.materialize(indices[start:end])
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

// First returns the first batch of the loader in dataset order.
//
// Useful for the overfit-one-batch debug utility, which needs a single
// fixed batch regardless of the shuffle setting.
func (l *Loader[B]) First() (*Batch[B], error) {
	end := l.cfg.BatchSize
	if n := l.ds.Len(); end > n {
		end = n
	}
	indices := make([]int, end)
	for i := range indices {
		indices[i] = i
	}
	return l.materialize(indices)
}

// materialize copies the selected samples into freshly allocated tensors.
func (l *Loader[B]) materialize(indices []int) (*Batch[B], error) {
	size := len(indices)
	featShape := l.ds.FeatureShape()
	featLen := featShape.NumElements()

	batchShape := make(tensor.Shape, 0, len(featShape)+1)
	batchShape = append(batchShape, size)
	batchShape = append(batchShape, featShape...)

	xRaw, err := tensor.NewRaw(batchShape, tensor.Float32, l.backend.Device())
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to create feature tensor: %w", err)
	}
	yRaw, err := tensor.NewRaw(tensor.Shape{size}, tensor.Int32, l.backend.Device())
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to create label tensor: %w", err)
	}

	xData := xRaw.AsFloat32()
	yData := yRaw.AsInt32()
	for i, idx := range indices {
		features, label := l.ds.Sample(idx)
		copy(xData[i*featLen:(i+1)*featLen], features)
		yData[i] = label
	}

	return &Batch[B]{
		X:    tensor.New[float32, B](xRaw, l.backend),
		Y:    tensor.New[int32, B](yRaw, l.backend),
		Size: size,
	}, nil
}
