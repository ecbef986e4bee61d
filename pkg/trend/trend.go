// Package trend fits an ordinary least-squares line to evenly spaced monthly
// buckets and extrapolates it.
package trend

import (
	"math"

	"github.com/iwvelando/finance-projection/pkg/mathutil"
	"gonum.org/v1/gonum/stat"
)

// Direction labels the sign of the fitted slope.
type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
)

// Model is a fitted line amount = Intercept + Slope*index over N buckets.
type Model struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	N         int     `json:"observations"`
}

// Fit regresses values against their index 0..len-1. With fewer than two
// values the model is constant: the single value, or zero when empty.
func Fit(values []float64) Model {
	switch len(values) {
	case 0:
		return Model{}
	case 1:
		return Model{Intercept: mathutil.Finite(values[0]), N: 1}
	}

	x := make([]float64, len(values))
	for i := range x {
		x[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(x, values, nil, false)
	r2 := stat.RSquared(x, values, nil, intercept, slope)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		// Constant input: the line explains everything there is to explain.
		r2 = 1
	}
	return Model{
		Intercept: mathutil.Finite(intercept),
		Slope:     mathutil.Finite(slope),
		RSquared:  r2,
		N:         len(values),
	}
}

// Value evaluates the line at index i.
func (m Model) Value(i int) float64 {
	return m.Intercept + m.Slope*float64(i)
}

// Project extrapolates the n buckets following the fitted window, clamped at
// zero. Amount series such as income or spending cannot go negative.
func (m Model) Project(n int) []float64 {
	out := m.ProjectUnclamped(n)
	for i, v := range out {
		if v < 0 {
			out[i] = 0
		}
	}
	return out
}

// ProjectUnclamped extrapolates the n buckets following the fitted window.
func (m Model) ProjectUnclamped(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.Value(m.N + i)
	}
	return out
}

// Direction reports whether the fitted line rises.
func (m Model) Direction() Direction {
	if m.Slope > 0 {
		return Increasing
	}
	return Decreasing
}

// Anchor shifts projected values so the curve continues from current rather
// than from the fitted value of the last bucket. The last fitted value is
// taken at index N-1.
func (m Model) Anchor(projected []float64, current float64) []float64 {
	if m.N == 0 {
		return projected
	}
	offset := current - m.Value(m.N-1)
	out := make([]float64, len(projected))
	for i, v := range projected {
		out[i] = v + offset
	}
	return out
}
