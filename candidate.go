package fixedpoint

import (
	"fmt"
	"log/slog"

	"github.com/njchilds90/gofixedpoint/symbolic"
)

// Candidate is one proposed fixed-point map x = g(x).
type Candidate struct {
	G      Expression
	Method string
	// GPrime holds |g'(x0)|. GPrime and Converges stay nil when the
	// derivative could not be evaluated.
	GPrime    *float64
	Converges *bool
	Err       error
}

// Rule derives zero or more candidates from f. Rules run independently; a
// rule that fails contributes nothing.
type Rule struct {
	Name   string
	Derive func(f Expression) ([]Candidate, error)
}

// Rules returns the derivation rules in priority order.
func Rules() []Rule {
	return []Rule{
		{Name: "additive", Derive: deriveAdditive},
		{Name: "linear", Derive: deriveLinear},
		{Name: "quadratic", Derive: deriveQuadratic},
	}
}

// GenerateCandidates applies every rule of Rules to f and concatenates the
// results in rule order.
func GenerateCandidates(f Expression, opts ...Option) []Candidate {
	return generate(f, Rules(), newOptions(opts).logger)
}

func generate(f Expression, rules []Rule, logger *slog.Logger) []Candidate {
	var out []Candidate
	for _, r := range rules {
		cands, err := applyRule(r, f)
		if err != nil {
			logger.Warn("candidate rule failed", "rule", r.Name, "error", err)
			continue
		}
		if len(cands) == 0 {
			logger.Debug("candidate rule not applicable", "rule", r.Name)
		}
		for _, c := range cands {
			logger.Debug("candidate derived", "rule", r.Name, "method", c.Method, "g", c.G.String())
		}
		out = append(out, cands...)
	}
	return out
}

func applyRule(r Rule, f Expression) (cands []Candidate, err error) {
	defer func() {
		if p := recover(); p != nil {
			cands, err = nil, fmt.Errorf("%s rule panicked: %v", r.Name, p)
		}
	}()
	return r.Derive(f)
}

func deriveAdditive(f Expression) ([]Candidate, error) {
	g := symbolic.AddOf(f.Expr(), symbolic.S(Var))
	return []Candidate{{G: FromExpr(g), Method: "Simple addition: g(x) = f(x) + x"}}, nil
}

func deriveLinear(f Expression) ([]Candidate, error) {
	expanded := f.Expand()
	c1 := expanded.Coefficient(1)
	if c1.IsZero() {
		return nil, nil
	}
	rest := symbolic.Difference(expanded.Expr(), symbolic.MulOf(c1.Expr(), symbolic.S(Var)))
	g := symbolic.Neg(symbolic.Quotient(rest, c1.Expr()))
	return []Candidate{{
		G:      FromExpr(g),
		Method: fmt.Sprintf("Isolating linear term: x = -(%s)/%s", rest, c1),
	}}, nil
}

func deriveQuadratic(f Expression) ([]Candidate, error) {
	expanded := f.Expand()
	c2 := expanded.Coefficient(2)
	if c2.IsZero() {
		return nil, nil
	}
	x2 := symbolic.PowOf(symbolic.S(Var), symbolic.N(2))
	rest := symbolic.Difference(expanded.Expr(), symbolic.MulOf(c2.Expr(), x2))
	sign, err := constantSign(c2)
	if err != nil {
		return nil, err
	}
	var radicand symbolic.Expr
	if sign < 0 {
		radicand = symbolic.Quotient(rest, symbolic.Neg(c2.Expr()))
	} else {
		radicand = symbolic.Quotient(symbolic.Neg(rest), c2.Expr())
	}
	root := symbolic.SqrtOf(radicand)
	label := fmt.Sprintf("%s/%s", rest, symbolic.Neg(c2.Expr()))
	return []Candidate{
		{
			G:      FromExpr(root),
			Method: fmt.Sprintf("Isolating quadratic term (positive root): x = sqrt(%s)", label),
		},
		{
			G:      FromExpr(symbolic.Neg(root)),
			Method: fmt.Sprintf("Isolating quadratic term (negative root): x = -sqrt(%s)", label),
		},
	}, nil
}

// constantSign returns the sign of a coefficient that does not depend on x.
func constantSign(c Expression) (int, error) {
	if symbolic.FreeSymbols(c.Expr())[Var] {
		return 0, fmt.Errorf("coefficient %s depends on %s", c, Var)
	}
	v, err := c.Float()
	if err != nil {
		return 0, fmt.Errorf("coefficient %s: %w", c, err)
	}
	switch {
	case v < 0:
		return -1, nil
	case v > 0:
		return 1, nil
	}
	return 0, fmt.Errorf("coefficient %s has no sign", c)
}
