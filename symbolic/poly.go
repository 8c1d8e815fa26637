package symbolic

import (
	"fmt"
	"math/big"
)

// ============================================================
// Expansion
// ============================================================

// MaxExpandTerms bounds the number of monomials a power of a sum may
// expand into.
const MaxExpandTerms = 4096

// Expand distributes products over sums and expands positive integer
// powers of sums. Function arguments are expanded in place. Expand panics
// when a power of a sum could produce more than MaxExpandTerms monomials.
func Expand(e Expr) Expr {
	return expandExpr(e).Simplify()
}

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandExpr(t)
		}
		return AddOf(terms...)
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = distribute(result, expandExpr(f))
		}
		return result
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.IsPositive() && !n.IsOne() {
			if sum, isAdd := base.(*Add); isAdd {
				return expandPower(sum, n)
			}
		}
		return PowOf(base, expandExpr(v.exp))
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

// expandPower multiplies sum out k times after checking that the result
// stays within MaxExpandTerms. A sum of m terms raised to k has at most
// C(k+m-1, m-1) distinct monomials.
func expandPower(sum *Add, k *Num) Expr {
	m := int64(len(sum.terms))
	exp := k.val.Num()
	if !exp.IsInt64() || exp.Int64() >= MaxExpandTerms ||
		new(big.Int).Binomial(exp.Int64()+m-1, m-1).Cmp(big.NewInt(MaxExpandTerms)) > 0 {
		panic(fmt.Sprintf("symbolic: expanding (%s)^%s exceeds %d terms", sum, k, MaxExpandTerms))
	}
	result := Expr(N(1))
	for i := int64(0); i < exp.Int64(); i++ {
		result = distribute(result, sum)
	}
	return result
}

// distribute multiplies two expanded expressions term by term. It never
// hands MulOf two sums, which would fold them back into a power.
func distribute(a, b Expr) Expr {
	at, bt := addTerms(a), addTerms(b)
	if len(at) == 1 && len(bt) == 1 {
		return MulOf(at[0], bt[0])
	}
	terms := make([]Expr, 0, len(at)*len(bt))
	for _, s := range at {
		for _, t := range bt {
			terms = append(terms, MulOf(s, t))
		}
	}
	return AddOf(terms...)
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Polynomial Tools
// ============================================================

// PolyCoeffsResult maps exponent to coefficient.
type PolyCoeffsResult map[int]Expr

// PolyCoeffs groups the terms of an expanded expression by the power of
// varName they carry. Coefficients may still contain varName inside
// non-polynomial factors such as sin(x).
func PolyCoeffs(e Expr, varName string) PolyCoeffsResult {
	result := PolyCoeffsResult{}
	extractCoeffs(Expand(e), varName, result)
	return result
}

// Coefficient returns the coefficient of varName^power in the expanded
// form of e, or 0.
func Coefficient(e Expr, varName string, power int) Expr {
	if c, ok := PolyCoeffs(e, varName)[power]; ok {
		return c
	}
	return N(0)
}

func extractCoeffs(e Expr, varName string, result PolyCoeffsResult) {
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			extractCoeffs(t, varName, result)
		}
	case *Num, *Const, *Func:
		addCoeff(result, 0, e)
	case *Sym:
		if v.name == varName {
			addCoeff(result, 1, N(1))
		} else {
			addCoeff(result, 0, e)
		}
	case *Pow:
		if s, ok := v.base.(*Sym); ok && s.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && n.IsInteger() && n.IsPositive() {
				addCoeff(result, int(n.val.Num().Int64()), N(1))
				return
			}
		}
		addCoeff(result, 0, e)
	case *Mul:
		deg := 0
		var coeffFactors []Expr
		for _, f := range v.factors {
			if d := monomialDegree(f, varName); d > 0 {
				deg += d
			} else {
				coeffFactors = append(coeffFactors, f)
			}
		}
		if len(coeffFactors) == 0 {
			addCoeff(result, deg, N(1))
		} else {
			addCoeff(result, deg, MulOf(coeffFactors...))
		}
	default:
		addCoeff(result, 0, e)
	}
}

// monomialDegree is the degree of a factor that is exactly varName^k, k>0.
func monomialDegree(f Expr, varName string) int {
	switch v := f.(type) {
	case *Sym:
		if v.name == varName {
			return 1
		}
	case *Pow:
		if s, ok := v.base.(*Sym); ok && s.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && n.IsInteger() && n.IsPositive() {
				return int(n.val.Num().Int64())
			}
		}
	}
	return 0
}

func addCoeff(result PolyCoeffsResult, deg int, coeff Expr) {
	if existing, ok := result[deg]; ok {
		result[deg] = AddOf(existing, coeff)
	} else {
		result[deg] = coeff
	}
}

// FreeSymbols returns the set of symbol names occurring in e.
func FreeSymbols(e Expr) map[string]bool {
	result := map[string]bool{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, result map[string]bool) {
	switch v := e.(type) {
	case *Sym:
		result[v.name] = true
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, result)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, result)
		}
	case *Pow:
		collectSymbols(v.base, result)
		collectSymbols(v.exp, result)
	case *Func:
		collectSymbols(v.arg, result)
	}
}
