package train

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/born-ml/born/tensor"
)

// snapshotModelType is the model-type tag written into .born snapshots.
const snapshotModelType = "TrainingSnapshot"

// Checkpoints is the path triple the training drivers write.
//
//   - Initial: the model state before any training, written once per run.
//   - Running: the state after the most recent epoch, updated every epoch;
//     the learning-rate range test trains every candidate from it.
//   - Final: the state with the best validation loss so far.
type Checkpoints struct {
	Initial string
	Running string
	Final   string
}

// CheckpointsIn returns the conventional checkpoint paths under dir.
func CheckpointsIn(dir string) Checkpoints {
	return Checkpoints{
		Initial: filepath.Join(dir, "checkpoint_initial.born"),
		Running: filepath.Join(dir, "checkpoint_running.born"),
		Final:   filepath.Join(dir, "checkpoint_final.born"),
	}
}

// ensureDir creates the directory a checkpoint path points into.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("train: failed to create checkpoint dir: %w", err)
		}
	}
	return nil
}

// cloneStateDict deep-copies a model state dictionary.
//
// RawTensor.Clone shares the underlying buffer, and optimizers update
// parameter buffers in place, so snapshots that must survive further
// training need fresh allocations.
func cloneStateDict(stateDict map[string]*tensor.RawTensor, device tensor.Device) (map[string]*tensor.RawTensor, error) {
	out := make(map[string]*tensor.RawTensor, len(stateDict))
	for name, raw := range stateDict {
		if raw.DType() != tensor.Float32 {
			return nil, fmt.Errorf("train: cannot snapshot %s: dtype %v, want float32", name, raw.DType())
		}
		cp, err := tensor.NewRaw(raw.Shape(), raw.DType(), device)
		if err != nil {
			return nil, fmt.Errorf("train: failed to snapshot %s: %w", name, err)
		}
		copy(cp.AsFloat32(), raw.AsFloat32())
		out[name] = cp
	}
	return out, nil
}
