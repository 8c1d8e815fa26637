package fixedpoint

import (
	"fmt"
	"math"
	"strings"
)

// SelectCandidate records |g'(x0)| and the contraction test on every
// candidate and returns the index of the first one with |g'(x0)| < 1, or
// -1 when none qualifies.
func SelectCandidate(cands []Candidate, x0 float64, opts ...Option) int {
	logger := newOptions(opts).logger
	selected := -1
	for i := range cands {
		c := &cands[i]
		d, err := safeDerivative(c.G, x0)
		if err != nil {
			c.Err = err
			logger.Debug("candidate derivative failed", "method", c.Method, "g", c.G.String(), "error", err)
			continue
		}
		gp := math.Abs(d)
		converges := gp < 1
		c.GPrime, c.Converges = &gp, &converges
		logger.Debug("candidate checked", "method", c.Method, "g", c.G.String(), "g_prime", gp, "converges", converges)
		if converges && selected < 0 {
			selected = i
		}
	}
	return selected
}

func safeDerivative(g Expression, x0 float64) (d float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("derivative panicked: %v", p)
		}
	}()
	return Derivative(g, x0, DerivativeStep)
}

// candidateSummary renders every candidate for the no-converging report.
func candidateSummary(cands []Candidate) string {
	parts := make([]string, len(cands))
	for i, c := range cands {
		gp := "N/A"
		if c.GPrime != nil {
			gp = FormatFloat(*c.GPrime)
		}
		parts[i] = fmt.Sprintf("%s: g(x)=%s, |g'(x0)|=%s", c.Method, c.G, gp)
	}
	return strings.Join(parts, "; ")
}
