package fixedpoint

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// DerivativeStep is the centered-difference step used to estimate g'(x0).
const DerivativeStep = 1e-4

// Derivative estimates g'(x0) as (g(x0+h) - g(x0-h)) / 2h. An evaluation
// failure at either sample point is returned as an error. Overflow at a
// sample point yields a non-finite estimate rather than an error.
func Derivative(g Expression, x0, h float64) (float64, error) {
	if h <= 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("derivative step must be positive and finite, got %v", h)
	}
	var evalErr error
	f := func(x float64) float64 {
		y, err := g.At(x)
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.NaN()
		}
		return y
	}
	d := fd.Derivative(f, x0, &fd.Settings{Formula: fd.Central, Step: h})
	if evalErr != nil {
		return 0, fmt.Errorf("derivative of %s at x=%s: %w", g, FormatFloat(x0), evalErr)
	}
	return d, nil
}
