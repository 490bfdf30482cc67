// Package predictor implements the policy/value regressor (C4): a small
// gorgonia-backed multilayer perceptron mapping an encoded battle state to
// switch/move weights and a scalar outcome estimate, analogous in role to
// the teacher's dualnet.Dual network but regression-only (no shared residual
// tower, no separate policy/value heads - one small MLP, per spec §4.4).
package predictor

// Config configures the predictor's network shape and optimizer, matching
// spec §4.4's enumerated defaults exactly.
type Config struct {
	InputSize  int `json:"input_size"`
	OutputSize int `json:"output_size"`

	HiddenOneWidth int `json:"hidden_one_width"` // 4 * InputSize
	HiddenTwoWidth int `json:"hidden_two_width"` // 2 * InputSize

	LearningRate float32 `json:"learning_rate"`
	Beta1        float32 `json:"beta1"`
	Beta2        float32 `json:"beta2"`
	Epsilon      float32 `json:"epsilon"`
	L2           float32 `json:"l2"`

	MaxIter   int     `json:"max_iter"`
	Tolerance float32 `json:"tolerance"`
}

// DefaultConfig builds the Config spec §4.4 enumerates for an input/output
// of the harness's fixed dimensions.
func DefaultConfig(inputSize, outputSize int) Config {
	return Config{
		InputSize:      inputSize,
		OutputSize:     outputSize,
		HiddenOneWidth: 4 * inputSize,
		HiddenTwoWidth: 2 * inputSize,
		LearningRate:   1e-3,
		Beta1:          0.9,
		Beta2:          0.999,
		Epsilon:        1e-8,
		L2:             1e-4,
		MaxIter:        200,
		Tolerance:      1e-4,
	}
}

// IsValid reports whether conf describes a constructible network.
func (conf Config) IsValid() bool {
	return conf.InputSize > 0 &&
		conf.OutputSize > 0 &&
		conf.HiddenOneWidth > 0 &&
		conf.HiddenTwoWidth > 0 &&
		conf.MaxIter > 0 &&
		conf.LearningRate > 0
}
