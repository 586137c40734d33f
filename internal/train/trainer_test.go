package train

import (
	"testing"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/borntrain/internal/dataset"
)

type testBackend = *autodiff.Backend[*cpu.Backend]

// clsModel is a one-layer classifier over 2D points, the smallest model
// that exercises the full Model contract.
type clsModel struct {
	fc        *nn.Linear[testBackend]
	criterion *nn.CrossEntropyLoss[testBackend]
}

func newClsModel(backend testBackend) *clsModel {
	return &clsModel{
		fc:        nn.NewLinear[testBackend](2, 2, backend),
		criterion: nn.NewCrossEntropyLoss[testBackend](backend),
	}
}

func (m *clsModel) Forward(x *tensor.Tensor[float32, testBackend]) *tensor.Tensor[float32, testBackend] {
	return m.fc.Forward(x)
}

func (m *clsModel) Parameters() []*nn.Parameter[testBackend] { return m.fc.Parameters() }

func (m *clsModel) StateDict() map[string]*tensor.RawTensor { return m.fc.StateDict() }

func (m *clsModel) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	return m.fc.LoadStateDict(stateDict)
}

func (m *clsModel) ForwardBatch(
	x *tensor.Tensor[float32, testBackend],
	y *tensor.Tensor[int32, testBackend],
) Output[testBackend] {
	logits := m.Forward(x)
	return Output[testBackend]{
		Loss:   m.criterion.Forward(logits, y),
		Scores: logits,
	}
}

// blobSamples builds two linearly separable point clouds around (-1, -1)
// and (1, 1), so even a one-layer model trains to near-zero loss.
func blobSamples(n int) ([][]float32, []int32) {
	features := make([][]float32, n)
	labels := make([]int32, n)
	for i := 0; i < n; i++ {
		off := float32(i%4) * 0.1
		if i%2 == 0 {
			features[i] = []float32{-1 - off, -1 + off}
			labels[i] = 0
		} else {
			features[i] = []float32{1 + off, 1 - off}
			labels[i] = 1
		}
	}
	return features, labels
}

// newFixture wires a trainer over the blob dataset with checkpoints in a
// per-test temp dir and a learning-rate range test shrunk to test size.
func newFixture(t *testing.T) (testBackend, *Trainer[*cpu.Backend], *clsModel) {
	t.Helper()
	backend := autodiff.New(cpu.New())

	features, labels := blobSamples(32)
	ds, err := dataset.NewTensorDataset(features, labels, tensor.Shape{2})
	require.NoError(t, err)
	trainSub, valSub, _, err := dataset.TrainValTest(ds, 0.25, 0, 1)
	require.NoError(t, err)

	loaderTrain, err := dataset.NewLoader(trainSub, dataset.LoaderConfig{BatchSize: 8, Shuffle: true, Seed: 1}, backend)
	require.NoError(t, err)
	loaderVal, err := dataset.NewLoader(valSub, dataset.LoaderConfig{BatchSize: 8}, backend)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Verbose = false
	cfg.MonitorEvery = 100
	cfg.CheckpointDir = t.TempDir()
	cfg.LRRT = LRRTConfig{
		Batches:      3,
		DesiredSlope: 0,
		MaxDecays:    1,
		Decay:        0.5,
		Candidates:   []float32{0.1, 1e-8},
	}

	trainer, err := New(backend, loaderTrain, loaderVal, cfg)
	require.NoError(t, err)
	return backend, trainer, newClsModel(backend)
}

func TestNew_Validation(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cfg := DefaultConfig()
	cfg.CheckpointDir = t.TempDir()
	_, err := New(backend, nil, nil, cfg)
	require.Error(t, err, "missing loaders must fail")

	_, trainer, _ := newFixture(t)
	bad := trainer.Config()
	bad.MonitorEvery = 0
	_, err = New(backend, trainer.loaderTrain, trainer.loaderVal, bad)
	require.Error(t, err, "invalid config must fail")
}

func TestTrainBatch_DecreasesLoss(t *testing.T) {
	_, trainer, model := newFixture(t)

	batch, err := trainer.loaderTrain.First()
	require.NoError(t, err)

	opt := trainer.NewOptimizer(model, 0.1)
	var first, last float32
	for i := 0; i < 30; i++ {
		loss, err := trainer.TrainBatch(model, opt, batch)
		require.NoError(t, err)
		if i == 0 {
			first = loss
		}
		last = loss
	}
	assert.Less(t, last, first, "repeated steps on one batch must reduce its loss")
}

func TestEval_LeavesTapeAlone(t *testing.T) {
	backend, trainer, model := newFixture(t)

	// Recording off: evaluation must not turn it on.
	_, err := trainer.EvalEpochLoss(model, trainer.loaderVal)
	require.NoError(t, err)
	assert.False(t, backend.Tape().IsRecording())

	// Recording on: evaluation must suspend and then restore it.
	backend.Tape().StartRecording()
	_, err = trainer.EvalEpochLoss(model, trainer.loaderVal)
	require.NoError(t, err)
	assert.True(t, backend.Tape().IsRecording())
	backend.Tape().StopRecording()
	backend.Tape().Clear()
}

func TestEvalLosses(t *testing.T) {
	_, trainer, model := newFixture(t)

	trainLoss, valLoss, err := trainer.EvalLosses(model)
	require.NoError(t, err)
	assert.Greater(t, trainLoss, 0.0)
	assert.Greater(t, valLoss, 0.0)
}

func TestEvalAccuracy_Bounds(t *testing.T) {
	_, trainer, model := newFixture(t)

	acc, err := trainer.EvalAccuracy(model, trainer.loaderVal)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acc, 0.0)
	assert.LessOrEqual(t, acc, 1.0)
}

func TestPredictLabels(t *testing.T) {
	_, trainer, model := newFixture(t)

	batch, err := trainer.loaderVal.First()
	require.NoError(t, err)

	labels, err := trainer.PredictLabels(model, batch)
	require.NoError(t, err)
	require.Len(t, labels, batch.Size)
	for _, l := range labels {
		assert.Contains(t, []int32{0, 1}, l)
	}
}

func TestPredictScores_ConcatenatesAllSamples(t *testing.T) {
	_, trainer, model := newFixture(t)

	scores, err := trainer.PredictScores(model, trainer.loaderVal)
	require.NoError(t, err)

	wantRows := 0
	batches, err := trainer.loaderVal.Batches()
	require.NoError(t, err)
	for _, b := range batches {
		wantRows += b.Size
	}
	assert.Equal(t, tensor.Shape{wantRows, 2}, scores.Shape())
}

func TestSnapshotRoundtrip(t *testing.T) {
	backend, trainer, model := newFixture(t)

	saved, err := cloneStateDict(model.StateDict(), backend.Device())
	require.NoError(t, err)

	path := trainer.Checkpoints().Running
	require.NoError(t, trainer.SaveSnapshot(model, path))

	// Drift the weights, then restore.
	batch, err := trainer.loaderTrain.First()
	require.NoError(t, err)
	opt := trainer.NewOptimizer(model, 0.1)
	for i := 0; i < 5; i++ {
		_, err := trainer.TrainBatch(model, opt, batch)
		require.NoError(t, err)
	}

	require.NoError(t, trainer.RestoreSnapshot(model, path))
	for name, raw := range model.StateDict() {
		assert.Equal(t, saved[name].AsFloat32(), raw.AsFloat32(), "parameter %s", name)
	}
}

func TestRestoreSnapshot_MissingFile(t *testing.T) {
	_, trainer, model := newFixture(t)

	err := trainer.RestoreSnapshot(model, trainer.Checkpoints().Final)
	require.Error(t, err)
}

func TestCloneStateDict_Independent(t *testing.T) {
	backend, _, model := newFixture(t)

	snapshot, err := cloneStateDict(model.StateDict(), backend.Device())
	require.NoError(t, err)

	// Mutate the live buffers; the snapshot must not follow.
	for _, raw := range model.StateDict() {
		data := raw.AsFloat32()
		for i := range data {
			data[i] += 42
		}
	}
	for name, raw := range model.StateDict() {
		assert.NotEqual(t, snapshot[name].AsFloat32()[0], raw.AsFloat32()[0], "parameter %s", name)
	}
}
