package fixedpoint

import (
	"fmt"
	"math"

	"github.com/njchilds90/gofixedpoint/symbolic"
)

// Var is the single free variable of every Expression.
const Var = "x"

// Expression is an immutable real expression in x. The zero value is the
// constant 0.
type Expression struct {
	expr symbolic.Expr
}

// Parse reads text written in the grammar accepted by symbolic.Parse.
func Parse(text string) (Expression, error) {
	e, err := symbolic.Parse(text, Var)
	if err != nil {
		return Expression{}, err
	}
	return Expression{expr: e}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Expression {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

// FromExpr wraps an existing kernel expression.
func FromExpr(e symbolic.Expr) Expression { return Expression{expr: e} }

// Expr returns the underlying kernel expression.
func (e Expression) Expr() symbolic.Expr {
	if e.expr == nil {
		return symbolic.N(0)
	}
	return e.expr
}

func (e Expression) String() string { return e.Expr().String() }
func (e Expression) LaTeX() string  { return e.Expr().LaTeX() }

// IsZero reports an exact zero, not a numerically small value.
func (e Expression) IsZero() bool {
	n, ok := e.Expr().(*symbolic.Num)
	return ok && n.IsZero()
}

func (e Expression) Expand() Expression {
	return Expression{expr: symbolic.Expand(e.Expr())}
}

// Coefficient returns the coefficient of x^power in the expanded form.
func (e Expression) Coefficient(power int) Expression {
	return Expression{expr: symbolic.Coefficient(e.Expr(), Var, power)}
}

// Substitute binds x to v and returns the resulting numeric expression.
// It fails when the result has no finite real value.
func (e Expression) Substitute(v float64) (Expression, error) {
	bound, err := e.bind(v)
	if err != nil {
		return Expression{}, err
	}
	f, err := symbolic.Evaluate(bound, nil)
	if err != nil {
		return Expression{}, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Expression{}, &symbolic.EvalError{Op: "substitute", Msg: fmt.Sprintf("value at x=%s is not finite", FormatFloat(v))}
	}
	return Expression{expr: bound}, nil
}

// Float evaluates a closed expression. Overflow yields ±Inf without error.
func (e Expression) Float() (float64, error) {
	return symbolic.Evaluate(e.Expr(), nil)
}

// At evaluates the expression with x bound to v. Overflow yields ±Inf
// without error; callers check finiteness themselves.
func (e Expression) At(v float64) (float64, error) {
	bound, err := e.bind(v)
	if err != nil {
		return 0, err
	}
	return symbolic.Evaluate(bound, nil)
}

func (e Expression) bind(v float64) (symbolic.Expr, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &symbolic.EvalError{Op: "substitute", Msg: fmt.Sprintf("cannot substitute non-finite value %s", FormatFloat(v))}
	}
	return symbolic.Sub(e.Expr(), Var, symbolic.NFloat(v)), nil
}
