package symbolic_test

import (
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/gofixedpoint/symbolic"
)

func mustParse(t *testing.T, s string) symbolic.Expr {
	t.Helper()
	e, err := symbolic.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return e
}

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := symbolic.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := symbolic.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	n := symbolic.F(-2, 5)
	if n.LaTeX() != `-\frac{2}{5}` {
		t.Errorf(`want -\frac{2}{5}, got %s`, n.LaTeX())
	}
}

func TestNFloat_Exact(t *testing.T) {
	n := symbolic.NFloat(1.5)
	if !n.Equal(symbolic.F(3, 2)) {
		t.Errorf("want 3/2, got %s", n.String())
	}
}

func TestNFloat_PanicsOnInf(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NFloat(+Inf) should panic")
		}
	}()
	symbolic.NFloat(math.Inf(1))
}

// ============================================================
// Add / Mul / Pow simplification
// ============================================================

func TestAdd_LikeTerms(t *testing.T) {
	x := symbolic.S("x")
	got := symbolic.AddOf(x, x)
	if got.String() != "2*x" {
		t.Errorf("want 2*x, got %s", got)
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	x := symbolic.S("x")
	got := symbolic.AddOf(x, symbolic.Neg(x))
	if got.String() != "0" {
		t.Errorf("want 0, got %s", got)
	}
}

func TestAdd_NumberLast(t *testing.T) {
	x := symbolic.S("x")
	got := symbolic.AddOf(symbolic.MulOf(symbolic.N(2), x), symbolic.N(3), symbolic.Neg(x))
	if got.String() != "x + 3" {
		t.Errorf("want x + 3, got %s", got)
	}
}

func TestAdd_LikeFunctionTerms(t *testing.T) {
	got := mustParse(t, "cos(x) + 2*cos(x) - x")
	if got.String() != "3*cos(x) - x" {
		t.Errorf("want 3*cos(x) - x, got %s", got)
	}
}

func TestMul_PowerCollection(t *testing.T) {
	x := symbolic.S("x")
	if got := symbolic.MulOf(x, x); got.String() != "x^2" {
		t.Errorf("want x^2, got %s", got)
	}
	if got := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1))); got.String() != "1" {
		t.Errorf("want 1, got %s", got)
	}
}

func TestMul_ZeroTimesUndefinedStaysSymbolic(t *testing.T) {
	e := symbolic.MulOf(symbolic.N(0), symbolic.Quotient(symbolic.N(1), symbolic.N(0)))
	if _, ok := e.(*symbolic.Num); ok {
		t.Fatalf("0*(1/0) should not fold to a number, got %s", e)
	}
	if _, err := symbolic.Evaluate(e, nil); !errors.Is(err, symbolic.ErrEval) {
		t.Errorf("want evaluation error, got %v", err)
	}
}

func TestMul_ZeroCollapse(t *testing.T) {
	got := symbolic.MulOf(symbolic.N(0), symbolic.S("x"))
	if got.String() != "0" {
		t.Errorf("want 0, got %s", got)
	}
}

func TestPow_NumericFold(t *testing.T) {
	if got := symbolic.PowOf(symbolic.N(2), symbolic.N(-2)); got.String() != "1/4" {
		t.Errorf("want 1/4, got %s", got)
	}
}

func TestPow_NestedOnlyMergesIntegerExponent(t *testing.T) {
	x := symbolic.S("x")
	if got := symbolic.PowOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.F(1, 2)); got.String() != "sqrt(x^2)" {
		t.Errorf("want sqrt(x^2), got %s", got)
	}
	if got := symbolic.PowOf(symbolic.SqrtOf(x), symbolic.N(2)); got.String() != "x" {
		t.Errorf("want x, got %s", got)
	}
}

func TestPow_LaTeX(t *testing.T) {
	got := mustParse(t, "sqrt(x)/2").LaTeX()
	if got != `\frac{\sqrt{x}}{2}` {
		t.Errorf(`want \frac{\sqrt{x}}{2}, got %s`, got)
	}
}

// ============================================================
// Printing
// ============================================================

func TestString_Forms(t *testing.T) {
	cases := map[string]string{
		"x**2 - 2":     "x^2 - 2",
		"-x^2":         "-x^2",
		"1/(2*x)":      "1/(2*x)",
		"(x+1)/3":      "x/3 + 1/3",
		"x - cos(x)":   "x - cos(x)",
		"-x/2":         "-x/2",
		"2*pi":         "2*pi",
		"sqrt(x + 1)":  "sqrt(x + 1)",
		"x^(1/3)":      "x^(1/3)",
		"1 / sqrt(x)":  "1/sqrt(x)",
		"ln(x) + E":    "log(x) + E",
		"2^3^2":        "512",
		"0.25 * x * 4": "x",
	}
	for in, want := range cases {
		if got := mustParse(t, in).String(); got != want {
			t.Errorf("Parse(%q).String() = %q, want %q", in, got, want)
		}
	}
}

// ============================================================
// Differentiation
// ============================================================

func TestDiff_PowerRule(t *testing.T) {
	got := symbolic.Diff(mustParse(t, "x^3"), "x")
	if got.String() != "3*x^2" {
		t.Errorf("want 3*x^2, got %s", got)
	}
}

func TestDiff_Chain(t *testing.T) {
	got := symbolic.Diff(mustParse(t, "sin(2*x)"), "x")
	if got.String() != "2*cos(2*x)" {
		t.Errorf("want 2*cos(2*x), got %s", got)
	}
}

// ============================================================
// Substitution
// ============================================================

func TestSub_ExactRational(t *testing.T) {
	got := symbolic.Sub(mustParse(t, "x^2"), "x", symbolic.NFloat(1.5))
	if got.String() != "9/4" {
		t.Errorf("want 9/4, got %s", got)
	}
}

func TestSub_KeepsDomainErrorsSymbolic(t *testing.T) {
	got := symbolic.Sub(mustParse(t, "log(x)"), "x", symbolic.N(0))
	if _, ok := got.(*symbolic.Num); ok {
		t.Fatalf("log(0) should stay symbolic, got %s", got)
	}
}
