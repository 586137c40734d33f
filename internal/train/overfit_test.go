package train

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverfitBatch(t *testing.T) {
	_, trainer, model := newFixture(t)

	batch, err := trainer.loaderTrain.First()
	require.NoError(t, err)

	losses, err := trainer.OverfitBatch(model, batch, 50, 0.1)
	require.NoError(t, err)
	require.Len(t, losses, 50)
	assert.Less(t, losses[49], losses[0], "a healthy setup overfits one batch")
}

func TestOverfitBatch_InvalidIters(t *testing.T) {
	_, trainer, model := newFixture(t)

	batch, err := trainer.loaderTrain.First()
	require.NoError(t, err)

	_, err = trainer.OverfitBatch(model, batch, 0, 0.1)
	require.Error(t, err)
}

func TestCompareLearningRates(t *testing.T) {
	backend, trainer, model := newFixture(t)

	before, err := cloneStateDict(model.StateDict(), backend.Device())
	require.NoError(t, err)

	batch, err := trainer.loaderTrain.First()
	require.NoError(t, err)

	histories, err := trainer.CompareLearningRates(model, batch, 10, []float32{0.1, 1e-8}, "")
	require.NoError(t, err)
	require.Len(t, histories, 2)
	for _, h := range histories {
		assert.Len(t, h, 10)
	}

	// Both runs start from the same state, so their first losses match.
	assert.InDelta(t, float64(histories[0][0]), float64(histories[1][0]), 1e-6)

	// The model is restored to its starting state afterwards.
	for name, raw := range model.StateDict() {
		assert.Equal(t, before[name].AsFloat32(), raw.AsFloat32(), "parameter %s", name)
	}
}

func TestCompareLearningRates_WritesPlot(t *testing.T) {
	_, trainer, model := newFixture(t)

	batch, err := trainer.loaderTrain.First()
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "lr_debug.png")
	_, err = trainer.CompareLearningRates(model, batch, 5, []float32{0.1, 0.01, 0.001}, file)
	require.NoError(t, err)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCompareLearningRates_NoCandidates(t *testing.T) {
	_, trainer, model := newFixture(t)

	batch, err := trainer.loaderTrain.First()
	require.NoError(t, err)

	_, err = trainer.CompareLearningRates(model, batch, 5, nil, "")
	require.Error(t, err)
}
