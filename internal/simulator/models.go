package simulator

import (
	"fmt"
	"time"
)

// LinearModel is intercept + sum(weight_i * x_i) with a fixed arity.
type LinearModel struct {
	intercept float64
	weights   []float64
}

// NewLinearModel builds weights that step down from scale by 10% per feature.
func NewLinearModel(intercept float64, arity int, scale float64) *LinearModel {
	weights := make([]float64, arity)
	w := scale
	for i := range weights {
		weights[i] = w
		w *= 0.9
	}
	return &LinearModel{intercept: intercept, weights: weights}
}

func (m *LinearModel) Arity() int {
	return len(m.weights)
}

func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.weights) {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrFeatureCount, len(m.weights), len(features))
	}

	sum := m.intercept
	for i, x := range features {
		sum += m.weights[i] * x
	}
	return sum, nil
}

// Seasonality scales a prediction by month: a year-end peak and a quiet
// first quarter.
func Seasonality(month time.Month) float64 {
	switch {
	case month >= time.September:
		return 1.3
	case month <= time.March:
		return 0.85
	default:
		return 1.0
	}
}
