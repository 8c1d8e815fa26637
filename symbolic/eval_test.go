package symbolic_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/njchilds90/gofixedpoint/symbolic"
)

func eval(t *testing.T, s string, x float64) (float64, error) {
	t.Helper()
	return symbolic.Evaluate(mustParse(t, s), map[string]float64{"x": x})
}

func TestEvaluate_Values(t *testing.T) {
	cases := []struct {
		in   string
		x    float64
		want float64
	}{
		{"x^2 + 1", 3, 10},
		{"sqrt(x)", 2.25, 1.5},
		{"2*pi", 0, 2 * math.Pi},
		{"log(E)", 0, 1},
		{"abs(x) - sign(x)", -4, 5},
		{"floor(x) + ceil(x)", 1.5, 3},
		{"x^(1/3)", 8, 2},
		{"(-2)^3", 0, -8},
		{"cos(x)", 0, 1},
	}
	for _, c := range cases {
		got, err := eval(t, c.in, c.x)
		if err != nil {
			t.Errorf("%s at %v: %v", c.in, c.x, err)
			continue
		}
		if math.Abs(got-c.want) > 1e-12 {
			t.Errorf("%s at %v = %v, want %v", c.in, c.x, got, c.want)
		}
	}
}

func TestEvaluate_DomainErrors(t *testing.T) {
	cases := []struct {
		in   string
		x    float64
		want string
	}{
		{"sqrt(x)", -1, "square root of negative number -1"},
		{"1/x", 0, "division by zero"},
		{"log(x)", 0, "logarithm of non-positive number 0"},
		{"x^(1/3)", -8, "non-integer power"},
		{"asin(x)", 2, "outside [-1, 1]"},
	}
	for _, c := range cases {
		_, err := eval(t, c.in, c.x)
		if !errors.Is(err, symbolic.ErrEval) {
			t.Errorf("%s at %v: want ErrEval, got %v", c.in, c.x, err)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s at %v: error %q should contain %q", c.in, c.x, err, c.want)
		}
	}
}

func TestEvaluate_OverflowIsNotAnError(t *testing.T) {
	v, err := eval(t, "exp(x)", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(v, 1) {
		t.Errorf("want +Inf, got %v", v)
	}
}

func TestEvaluate_UnboundSymbol(t *testing.T) {
	_, err := symbolic.Evaluate(mustParse(t, "x + 1"), nil)
	var ee *symbolic.EvalError
	if !errors.As(err, &ee) || ee.Op != "symbol" {
		t.Errorf("want symbol EvalError, got %v", err)
	}
}
