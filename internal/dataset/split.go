package dataset

import (
	"fmt"
	"math/rand"
)

// RandomSplit partitions a dataset into disjoint subsets by shuffling its
// indices with the given seed and cutting the permutation at the requested
// fractions.
//
// Fractions must each lie in (0, 1) and sum to at most 1. When they sum to
// exactly 1 the last subset absorbs the rounding remainder, so every sample
// lands in exactly one subset.
//
// The split is deterministic for a given (dataset length, fractions, seed).
func RandomSplit(ds Dataset, fractions []float64, seed int64) ([]*Subset, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("dataset: cannot split an empty dataset")
	}
	if len(fractions) == 0 {
		return nil, fmt.Errorf("dataset: no split fractions given")
	}

	var total float64
	for i, f := range fractions {
		if f <= 0 || f >= 1 {
			return nil, fmt.Errorf("dataset: fraction %d (%g) outside (0, 1)", i, f)
		}
		total += f
	}
	// Small epsilon absorbs float accumulation like 0.6+0.2+0.2.
	if total > 1+1e-9 {
		return nil, fmt.Errorf("dataset: fractions sum to %g, must be <= 1", total)
	}
	exhaustive := total > 1-1e-9

	n := ds.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	subsets := make([]*Subset, 0, len(fractions))
	start := 0
	for i, f := range fractions {
		size := int(f * float64(n))
		if exhaustive && i == len(fractions)-1 {
			size = n - start
		}
		if start+size > n {
			size = n - start
		}
		sub, err := NewSubset(ds, perm[start:start+size])
		if err != nil {
			return nil, err
		}
		subsets = append(subsets, sub)
		start += size
	}

	return subsets, nil
}

// TrainValTest splits a dataset into train, validation and test subsets.
//
// valFrac and testFrac are the validation and test fractions; the training
// subset receives the remainder. A testFrac of 0 yields a nil test subset,
// matching workflows where the test partition ships separately.
func TrainValTest(ds Dataset, valFrac, testFrac float64, seed int64) (train, val, test *Subset, err error) {
	if testFrac == 0 {
		subsets, err := RandomSplit(ds, []float64{1 - valFrac, valFrac}, seed)
		if err != nil {
			return nil, nil, nil, err
		}
		return subsets[0], subsets[1], nil, nil
	}

	subsets, err := RandomSplit(ds, []float64{1 - valFrac - testFrac, valFrac, testFrac}, seed)
	if err != nil {
		return nil, nil, nil, err
	}
	return subsets[0], subsets[1], subsets[2], nil
}
