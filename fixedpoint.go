// Package fixedpoint finds a root of f(x) = 0 by fixed-point iteration.
//
// Solve derives candidate maps x = g(x) from f (adding x, isolating the
// linear term, isolating the quadratic term), keeps the first one whose
// numerical derivative satisfies |g'(x0)| < 1, and iterates it from x0.
// The result is a finite trace of rows ending in exactly one terminal row.
//
// Quick start:
//
//	trace := fixedpoint.Solve(ctx, fixedpoint.Request{
//		Equation:      "x**2 - 2",
//		InitialGuess:  1,
//		MaxIterations: 50,
//		Tolerance:     0.001,
//		DecimalPlaces: 6,
//	})
//	root, ok := trace.Root()
//
// Solve keeps no state between calls and is safe for concurrent use.
package fixedpoint

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRequest is wrapped by every Request.Validate failure.
var ErrInvalidRequest = errors.New("invalid request")

// Request holds the inputs of a single solve.
type Request struct {
	Equation      string
	InitialGuess  float64
	MaxIterations int
	// Tolerance is a percentage: 0.2 means 0.2%.
	Tolerance     float64
	DecimalPlaces int
}

func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Equation) == "":
		return fmt.Errorf("%w: equation is empty", ErrInvalidRequest)
	case math.IsNaN(r.InitialGuess) || math.IsInf(r.InitialGuess, 0):
		return fmt.Errorf("%w: initial guess must be finite, got %s", ErrInvalidRequest, FormatFloat(r.InitialGuess))
	case r.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidRequest, r.MaxIterations)
	case math.IsNaN(r.Tolerance) || math.IsInf(r.Tolerance, 0) || r.Tolerance < 0:
		return fmt.Errorf("%w: tolerance must be a finite non-negative percentage, got %s", ErrInvalidRequest, FormatFloat(r.Tolerance))
	case r.DecimalPlaces < 0:
		return fmt.Errorf("%w: decimal places must not be negative, got %d", ErrInvalidRequest, r.DecimalPlaces)
	}
	return nil
}

func (r Request) Params() Params {
	return Params{
		InitialGuess:  r.InitialGuess,
		MaxIterations: r.MaxIterations,
		Tolerance:     r.Tolerance,
		DecimalPlaces: r.DecimalPlaces,
	}
}

// Trace is the outcome of Solve.
type Trace struct {
	Records    []Record
	Status     Status
	Candidates []Candidate
	// Selected indexes Candidates, or is -1 when no candidate was chosen.
	Selected int
}

// SelectedCandidate returns the candidate the iteration ran with.
func (t *Trace) SelectedCandidate() (Candidate, bool) {
	if t.Selected < 0 || t.Selected >= len(t.Candidates) {
		return Candidate{}, false
	}
	return t.Candidates[t.Selected], true
}

// Root returns the rounded root of a converged trace.
func (t *Trace) Root() (float64, bool) {
	if t.Status != StatusConverged || len(t.Records) == 0 {
		return 0, false
	}
	return t.Records[len(t.Records)-1].Root, true
}

// Last returns the terminal record.
func (t *Trace) Last() Record {
	if len(t.Records) == 0 {
		return Record{}
	}
	return t.Records[len(t.Records)-1]
}

// Solve runs the whole pipeline for req. Every failure is reported as a
// terminal record; Solve itself never fails.
func Solve(ctx context.Context, req Request, opts ...Option) (trace *Trace) {
	o := newOptions(opts)
	logger := o.logger.With("equation", req.Equation, "x0", req.InitialGuess)
	trace = &Trace{Selected: -1, Status: StatusRunning}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("solve panicked", "panic", p)
			trace.calculationError(fmt.Errorf("%v", p))
		}
	}()

	if err := req.Validate(); err != nil {
		logger.Warn("rejected request", "error", err)
		trace.calculationError(err)
		return trace
	}
	f, err := Parse(req.Equation)
	if err != nil {
		logger.Warn("cannot parse equation", "error", err)
		trace.calculationError(err)
		return trace
	}
	logger.Debug("parsed equation", "f", f.String())

	trace.Candidates = GenerateCandidates(f, opts...)
	trace.Selected = SelectCandidate(trace.Candidates, req.InitialGuess, opts...)
	g, ok := trace.SelectedCandidate()
	if !ok {
		logger.Info("no converging candidate", "candidates", len(trace.Candidates))
		rec := ErrorRecord(0, "No converging g(x) found at initial guess x="+FormatFloat(req.InitialGuess))
		rec.Candidates = candidateSummary(trace.Candidates)
		trace.finish([]Record{rec}, StatusNoCandidate)
		return trace
	}
	logger.Info("selected candidate", "method", g.Method, "g", g.G.String(), "g_prime", *g.GPrime)

	v, err := g.G.At(req.InitialGuess)
	switch {
	case err != nil:
		trace.finish([]Record{ErrorRecord(0, "Initial evaluation of g(x) failed: "+err.Error())}, StatusPreflightFailed)
		return trace
	case math.IsNaN(v) || math.IsInf(v, 0):
		trace.finish([]Record{ErrorRecord(0, "Initial evaluation of g(x) resulted in non-finite value")}, StatusPreflightFailed)
		return trace
	}

	records, status := Iterate(ctx, g.G, req.Params(), opts...)
	trace.finish(records, status)
	logger.Info("solve finished", "status", string(status), "records", len(records))
	return trace
}

func (t *Trace) finish(records []Record, status Status) {
	t.Records, t.Status = records, status
}

func (t *Trace) calculationError(err error) {
	t.finish([]Record{ErrorRecord(0, "Calculation error: "+err.Error())}, StatusCalcError)
}
