package symbolic

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrEval is matched by every *EvalError.
var ErrEval = errors.New("evaluation error")

// EvalError describes an operation that has no real value at the given
// arguments.
type EvalError struct {
	Op  string
	Msg string
}

func (e *EvalError) Error() string        { return e.Msg }
func (e *EvalError) Is(target error) bool { return target == ErrEval }

func evalErrorf(op, format string, args ...any) error {
	return &EvalError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Evaluate reduces e to a float64. Free symbols are read from env.
//
// Operations without a real value (square root of a negative number,
// division by zero, logarithm of a non-positive number) return an
// *EvalError. Overflow is not an error: the result is ±Inf and callers
// decide how to treat it.
func Evaluate(e Expr, env map[string]float64) (float64, error) {
	switch v := e.(type) {
	case *Num:
		return v.Float64(), nil
	case *Const:
		return v.val, nil
	case *Sym:
		if val, ok := env[v.name]; ok {
			return val, nil
		}
		return 0, evalErrorf("symbol", "unbound symbol %s", v.name)
	case *Add:
		sum := 0.0
		for _, t := range v.terms {
			tv, err := Evaluate(t, env)
			if err != nil {
				return 0, err
			}
			sum += tv
		}
		return sum, nil
	case *Mul:
		prod := 1.0
		for _, f := range v.factors {
			fv, err := Evaluate(f, env)
			if err != nil {
				return 0, err
			}
			prod *= fv
		}
		return prod, nil
	case *Pow:
		base, err := Evaluate(v.base, env)
		if err != nil {
			return 0, err
		}
		if en, ok := v.exp.(*Num); ok && en.IsHalf() {
			if base < 0 {
				return 0, evalErrorf("sqrt", "square root of negative number %s", formatArg(base))
			}
			return math.Sqrt(base), nil
		}
		exp, err := Evaluate(v.exp, env)
		if err != nil {
			return 0, err
		}
		return evalPow(base, exp)
	case *Func:
		arg, err := Evaluate(v.arg, env)
		if err != nil {
			return 0, err
		}
		return applyFunc(v.name, arg)
	}
	return 0, evalErrorf("unknown", "cannot evaluate %T", e)
}

func evalPow(base, exp float64) (float64, error) {
	switch {
	case base == 0 && exp < 0:
		return 0, evalErrorf("pow", "division by zero")
	case base < 0 && exp != math.Trunc(exp):
		return 0, evalErrorf("pow", "negative base %s raised to non-integer power %s", formatArg(base), formatArg(exp))
	}
	return math.Pow(base, exp), nil
}

func applyFunc(name string, v float64) (float64, error) {
	switch name {
	case "sin":
		return math.Sin(v), nil
	case "cos":
		return math.Cos(v), nil
	case "tan":
		return math.Tan(v), nil
	case "exp":
		return math.Exp(v), nil
	case "log":
		if v <= 0 {
			return 0, evalErrorf("log", "logarithm of non-positive number %s", formatArg(v))
		}
		return math.Log(v), nil
	case "asin":
		if v < -1 || v > 1 {
			return 0, evalErrorf("asin", "asin argument %s outside [-1, 1]", formatArg(v))
		}
		return math.Asin(v), nil
	case "acos":
		if v < -1 || v > 1 {
			return 0, evalErrorf("acos", "acos argument %s outside [-1, 1]", formatArg(v))
		}
		return math.Acos(v), nil
	case "atan":
		return math.Atan(v), nil
	case "sinh":
		return math.Sinh(v), nil
	case "cosh":
		return math.Cosh(v), nil
	case "tanh":
		return math.Tanh(v), nil
	case "abs":
		return math.Abs(v), nil
	case "floor":
		return math.Floor(v), nil
	case "ceil":
		return math.Ceil(v), nil
	case "sign":
		switch {
		case v > 0:
			return 1, nil
		case v < 0:
			return -1, nil
		}
		return 0, nil
	}
	return 0, evalErrorf(name, "unknown function %s", name)
}

func formatArg(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
