package imageclass

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// modelSpec is the on-disk artifact: a linear classification head over the
// normalized pixel vector, plus the metadata needed to build that vector.
// The artifact is opaque capability data; training it is out of scope here.
type modelSpec struct {
	InputWidth  int         `json:"input_width"`
	InputHeight int         `json:"input_height"`
	Scale       float64     `json:"scale"`
	Labels      []string    `json:"labels"`
	Weights     [][]float64 `json:"weights"`
	Bias        []float64   `json:"bias"`
}

type model struct {
	spec modelSpec
}

func loadModel(path string) (*model, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- operator-configured path
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var spec modelSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	if spec.InputWidth <= 0 || spec.InputHeight <= 0 {
		return nil, fmt.Errorf("model artifact declares invalid input dimensions %dx%d", spec.InputWidth, spec.InputHeight)
	}
	if spec.Scale <= 0 {
		spec.Scale = 255
	}
	if len(spec.Labels) == 0 {
		return nil, fmt.Errorf("model artifact declares no class labels")
	}
	if len(spec.Weights) != len(spec.Labels) || len(spec.Bias) != len(spec.Labels) {
		return nil, fmt.Errorf("model artifact weight/bias count does not match %d labels", len(spec.Labels))
	}
	want := spec.InputWidth * spec.InputHeight * 3
	for i, row := range spec.Weights {
		if len(row) != want {
			return nil, fmt.Errorf("model artifact weight row %d has %d values, want %d", i, len(row), want)
		}
	}

	return &model{spec: spec}, nil
}

// predict returns the softmax probability per class label for one
// preprocessed pixel vector.
func (m *model) predict(x []float64) map[string]float64 {
	logits := make([]float64, len(m.spec.Labels))
	for c, row := range m.spec.Weights {
		sum := m.spec.Bias[c]
		for i, w := range row {
			sum += w * x[i]
		}
		logits[c] = sum
	}

	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}

	var total float64
	exps := make([]float64, len(logits))
	for i, l := range logits {
		exps[i] = math.Exp(l - maxLogit)
		total += exps[i]
	}

	probs := make(map[string]float64, len(logits))
	for i, label := range m.spec.Labels {
		probs[label] = exps[i] / total
	}
	return probs
}
