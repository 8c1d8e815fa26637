package fixedpoint

import (
	"context"
	"fmt"
	"math"
)

const (
	// DivergenceThreshold is the iterate magnitude treated as divergence.
	DivergenceThreshold = 1e15
	// zeroGuard separates "equal" from "different" when iterates are near zero.
	zeroGuard = 1e-15
)

// Status is the terminal state of a solve.
type Status string

const (
	StatusRunning         Status = "running"
	StatusConverged       Status = "converged"
	StatusDiverged        Status = "diverged"
	StatusNonFinite       Status = "nonfinite"
	StatusEvalError       Status = "eval_error"
	StatusMaxIter         Status = "max_iter"
	StatusCancelled       Status = "cancelled"
	StatusNoCandidate     Status = "no_candidate"
	StatusPreflightFailed Status = "preflight_failed"
	StatusCalcError       Status = "calculation_error"
)

// Params controls the iteration loop.
type Params struct {
	InitialGuess  float64
	MaxIterations int
	// Tolerance is a percentage: 0.2 means 0.2%.
	Tolerance     float64
	DecimalPlaces int
}

// Iterate runs x_{n+1} = g(x_n) from p.InitialGuess and returns the trace
// with its terminal status. The context is checked before every step.
func Iterate(ctx context.Context, g Expression, p Params, opts ...Option) ([]Record, Status) {
	logger := newOptions(opts).logger
	round := func(v float64) float64 { return Round(v, p.DecimalPlaces) }

	x := p.InitialGuess
	errPct := 100.0
	records := make([]Record, 0, min(p.MaxIterations, 63)+1)
	for i := 0; i < p.MaxIterations; i++ {
		if err := ctx.Err(); err != nil {
			records = append(records, ErrorRecord(i, "Cancelled: "+err.Error()))
			return records, StatusCancelled
		}
		next, err := g.At(x)
		if err != nil {
			records = append(records, ErrorRecord(i, "Evaluation error: "+err.Error()))
			return records, StatusEvalError
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			records = append(records, ErrorRecord(i, "Non-finite value encountered: "+FormatFloat(next)))
			return records, StatusNonFinite
		}

		e := "---"
		if i > 0 {
			errPct = percentError(next, x)
			e = FormatFloat(round(errPct)) + "%"
		}
		records = append(records, ProgressRecord(i, round(x), round(next), e))
		logger.Debug("iteration", "i", i, "x", x, "g", next, "error_pct", errPct)

		if i > 0 && errPct < p.Tolerance {
			msg := fmt.Sprintf("Converged: Error (%s%%) <= %s%%", FormatFloat(round(errPct)), FormatFloat(p.Tolerance))
			records = append(records, ResultRecord(i+1, msg, round(next)))
			return records, StatusConverged
		}
		if math.Abs(next) > DivergenceThreshold {
			records = append(records, ErrorRecord(i+1, fmt.Sprintf("Method is diverging (value %.2e at iteration %d)", next, i)))
			return records, StatusDiverged
		}
		x = next
	}

	msg := fmt.Sprintf("Stopped: Reached maximum iterations (%d). Last estimate: %s", p.MaxIterations, FormatFloat(round(x)))
	records = append(records, ResultRecord(len(records), msg, round(x)))
	return records, StatusMaxIter
}

// percentError is |next-cur|/|next| as a percentage. Near zero it is 0 for
// repeated values and +Inf otherwise.
func percentError(next, cur float64) float64 {
	diff := math.Abs(next - cur)
	if math.Abs(next) > zeroGuard {
		return diff / math.Abs(next) * 100
	}
	if diff < zeroGuard {
		return 0
	}
	return math.Inf(1)
}
