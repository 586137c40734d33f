package train

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LRRTConfig configures the learning-rate range test.
type LRRTConfig struct {
	// Batches is the number of training batches used per candidate.
	Batches int `yaml:"batches"`

	// DesiredSlope is the exclusive loss-slope target; the search stops as
	// soon as a candidate trains with a slope below it.
	DesiredSlope float64 `yaml:"desired_slope"`

	// MaxDecays bounds the number of candidate decay rounds.
	MaxDecays int `yaml:"max_decays"`

	// Decay is the factor applied to all candidates between rounds.
	Decay float64 `yaml:"decay"`

	// Candidates is the initial learning-rate candidate set.
	Candidates []float32 `yaml:"candidates"`
}

// EarlyStoppingConfig configures the naive early-stopping policy.
type EarlyStoppingConfig struct {
	// MaxViolations is the number of consecutive epochs without a
	// validation-loss improvement after which training stops.
	// Zero or negative disables early stopping.
	MaxViolations int `yaml:"max_violations"`
}

// Config holds the trainer setup.
//
// The zero value is not usable; start from DefaultConfig and override:
//
//	cfg := train.DefaultConfig()
//	cfg.CheckpointDir = "runs/exp42"
//
// or load an experiment file:
//
//	cfg, err := train.LoadConfig("train.yaml")
type Config struct {
	// MonitorEvery is the training-loss window size: every MonitorEvery
	// batches the trainer reports the window's mean loss and fitted slope.
	MonitorEvery int `yaml:"monitor_every"`

	// CheckpointDir receives the initial/running/final snapshots.
	CheckpointDir string `yaml:"checkpoint_dir"`

	// FreezePretrained freezes pretrained layers during training for
	// models implementing PretrainedFreezer.
	FreezePretrained bool `yaml:"freeze_pretrained"`

	// Verbose enables progress printing.
	Verbose bool `yaml:"verbose"`

	LRRT          LRRTConfig          `yaml:"lrrt"`
	EarlyStopping EarlyStoppingConfig `yaml:"early_stopping"`
}

// DefaultConfig returns the default trainer setup.
func DefaultConfig() Config {
	return Config{
		MonitorEvery:  50,
		CheckpointDir: "monitoring",
		Verbose:       true,
		LRRT: LRRTConfig{
			Batches:      500,
			DesiredSlope: 0,
			MaxDecays:    100,
			Decay:        0.9,
			Candidates:   []float32{1e-3, 1e-4, 1e-6},
		},
		EarlyStopping: EarlyStoppingConfig{
			MaxViolations: 2,
		},
	}
}

// LoadConfig reads a YAML experiment file over the defaults.
//
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("train: failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("train: failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("train: invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the trainer cannot run with.
func (c Config) Validate() error {
	if c.MonitorEvery < 1 {
		return fmt.Errorf("monitor_every must be >= 1, got %d", c.MonitorEvery)
	}
	if c.CheckpointDir == "" {
		return fmt.Errorf("checkpoint_dir must not be empty")
	}
	if c.LRRT.Batches < 2 {
		return fmt.Errorf("lrrt.batches must be >= 2 to fit a slope, got %d", c.LRRT.Batches)
	}
	if c.LRRT.Decay <= 0 || c.LRRT.Decay >= 1 {
		return fmt.Errorf("lrrt.decay must be in (0, 1), got %g", c.LRRT.Decay)
	}
	if c.LRRT.MaxDecays < 0 {
		return fmt.Errorf("lrrt.max_decays must be >= 0, got %d", c.LRRT.MaxDecays)
	}
	if len(c.LRRT.Candidates) == 0 {
		return fmt.Errorf("lrrt.candidates must not be empty")
	}
	for i, lr := range c.LRRT.Candidates {
		if lr <= 0 {
			return fmt.Errorf("lrrt.candidates[%d] must be > 0, got %g", i, lr)
		}
	}
	return nil
}
