package learner

import (
	"math"

	"github.com/rotisserie/eris"
)

// StandardScaler transforms features to zero mean and unit variance.
// Zero-variance features pass through centered only.
type StandardScaler struct {
	Mean   []float64 `json:"mean"`
	StdDev []float64 `json:"std_dev"`
}

// FitScaler computes per-feature mean and standard deviation.
func FitScaler(samples [][]float64) (*StandardScaler, error) {
	if len(samples) == 0 {
		return nil, eris.New("learner: fit scaler on empty sample set")
	}
	dim := len(samples[0])
	mean := make([]float64, dim)
	std := make([]float64, dim)

	for _, s := range samples {
		if len(s) != dim {
			return nil, eris.Errorf("learner: inconsistent feature dimension %d, want %d", len(s), dim)
		}
		for i, v := range s {
			mean[i] += v
		}
	}
	n := float64(len(samples))
	for i := range mean {
		mean[i] /= n
	}
	for _, s := range samples {
		for i, v := range s {
			d := v - mean[i]
			std[i] += d * d
		}
	}
	for i := range std {
		std[i] = math.Sqrt(std[i] / n)
	}
	return &StandardScaler{Mean: mean, StdDev: std}, nil
}

// Transform scales one feature vector, returning a new slice.
func (s *StandardScaler) Transform(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x - s.Mean[i]
		if s.StdDev[i] > 0 {
			out[i] /= s.StdDev[i]
		}
	}
	return out
}

// LogisticModel is a binary logistic regression classifier.
type LogisticModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// TrainLogistic fits a logistic model by gradient descent with balanced
// class weighting: each class contributes equally to the loss regardless of
// how many examples it has. Labels must be 0 or 1.
func TrainLogistic(samples [][]float64, labels []int, learningRate float64, epochs int) (*LogisticModel, error) {
	if len(samples) == 0 || len(samples) != len(labels) {
		return nil, eris.Errorf("learner: %d samples vs %d labels", len(samples), len(labels))
	}
	dim := len(samples[0])

	var pos, neg int
	for _, l := range labels {
		if l == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, eris.New("learner: training requires examples of both classes")
	}
	// Balanced class weights: n / (2 * class_count).
	n := float64(len(labels))
	posWeight := n / (2 * float64(pos))
	negWeight := n / (2 * float64(neg))

	m := &LogisticModel{Weights: make([]float64, dim)}
	for epoch := 0; epoch < epochs; epoch++ {
		gradW := make([]float64, dim)
		gradB := 0.0
		for i, x := range samples {
			p := m.Predict(x)
			y := float64(labels[i])
			w := negWeight
			if labels[i] == 1 {
				w = posWeight
			}
			err := (p - y) * w
			for j, xj := range x {
				gradW[j] += err * xj
			}
			gradB += err
		}
		for j := range m.Weights {
			m.Weights[j] -= learningRate * gradW[j] / n
		}
		m.Bias -= learningRate * gradB / n
	}
	return m, nil
}

// Predict returns the probability of the positive class.
func (m *LogisticModel) Predict(v []float64) float64 {
	z := m.Bias
	for i, w := range m.Weights {
		if i < len(v) {
			z += w * v[i]
		}
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	// Guard against overflow in exp for extreme logits.
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
