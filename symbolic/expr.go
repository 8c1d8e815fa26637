// Package symbolic provides a deterministic algebra kernel for single-variable
// real expressions.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat) for every literal
//   - Like-term and power collection so printed forms stay readable
//   - Construction never evaluates undefined operations (1/0 stays symbolic)
//   - Real-valued evaluation reports domain problems as errors, not NaN
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Equal(other Expr) bool
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat returns the exact binary value of f. f must be finite.
func NFloat(f float64) *Num {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("symbolic: NFloat(%v) is not finite", f))
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(ratNegOne) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsHalf() bool          { return n.val.Cmp(ratHalf) == 0 }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
	ratHalf   = big.NewRat(1, 2)
)

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) LaTeX() string         { return s.name }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named irrational constant
// ============================================================

type Const struct {
	name  string
	latex string
	val   float64
}

var (
	Pi = &Const{name: "pi", latex: "\\pi", val: math.Pi}
	E  = &Const{name: "E", latex: "e", val: math.E}
)

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) Float64() float64      { return c.val }

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and collects like terms
// (c1*t + c2*t -> (c1+c2)*t). Terms keep their first-appearance order with
// the numeric part last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	type like struct {
		coeff *Num
		rest  Expr
	}
	numAccum := N(0)
	groups := map[string]*like{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		g, seen := groups[key]
		if !seen {
			g = &like{coeff: N(0), rest: rest}
			groups[key] = g
			order = append(order, key)
		}
		g.coeff = numAdd(g.coeff, coeff)
	}

	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		g := groups[key]
		switch {
		case g.coeff.IsZero() && !isUndefined(g.rest):
			continue
		case g.coeff.IsOne():
			result = append(result, g.rest)
		default:
			result = append(result, MulOf(g.coeff, g.rest))
		}
	}
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.String())
			continue
		}
		if pos, ok := negated(t); ok {
			sb.WriteString(" - ")
			sb.WriteString(pos.String())
			continue
		}
		sb.WriteString(" + ")
		sb.WriteString(t.String())
	}
	return sb.String()
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.LaTeX())
			continue
		}
		if pos, ok := negated(t); ok {
			sb.WriteString(" - ")
			sb.WriteString(pos.LaTeX())
			continue
		}
		sb.WriteString(" + ")
		sb.WriteString(t.LaTeX())
	}
	return sb.String()
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

// negated returns -t when t prints with a leading minus sign.
func negated(t Expr) (Expr, bool) {
	switch v := t.(type) {
	case *Num:
		if v.IsNegative() {
			return numNeg(v), true
		}
	case *Mul:
		c, ok := v.factors[0].(*Num)
		if !ok || !c.IsNegative() {
			return nil, false
		}
		rest := v.factors[1:]
		if c.IsNegOne() {
			if len(rest) == 1 {
				return rest[0], true
			}
			return &Mul{factors: rest}, true
		}
		return &Mul{factors: append([]Expr{numNeg(c)}, rest...)}, true
	}
	return nil, false
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the numeric coefficient to the
// front and merges equal bases (x*x^2 -> x^3). A zero coefficient only
// collapses the product when no other factor is undefined.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	type power struct {
		base Expr
		exp  Expr
	}
	coeff := N(1)
	powers := map[string]*power{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if p, seen := powers[key]; seen {
			p.exp = AddOf(p.exp, exp)
			continue
		}
		powers[key] = &power{base: base, exp: exp}
		order = append(order, key)
	}

	others := make([]Expr, 0, len(order))
	undefined := false
	for _, key := range order {
		p := powers[key]
		e := PowOf(p.base, p.exp)
		if n, ok := e.(*Num); ok {
			coeff = numMul(coeff, n)
			continue
		}
		if isUndefined(e) {
			undefined = true
		}
		others = append(others, e)
	}
	if coeff.IsZero() && !undefined {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}
	// c*(a + b) -> c*a + c*b
	if sum, ok := others[0].(*Add); ok && len(others) == 1 && !coeff.IsOne() {
		terms := make([]Expr, len(sum.terms))
		for i, t := range sum.terms {
			terms[i] = MulOf(coeff, t)
		}
		return AddOf(terms...)
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

// String renders factors with negative numeric exponents, and the
// denominator of a rational coefficient, after a single slash.
func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	sign := ""
	var num, den []string
	for i, f := range m.factors {
		if c, ok := f.(*Num); ok && i == 0 {
			if c.IsNegative() {
				sign = "-"
				c = numNeg(c)
			}
			if c.val.Num().Cmp(ratOne.Num()) != 0 {
				num = append(num, c.val.Num().String())
			}
			if !c.val.IsInt() {
				den = append(den, c.val.Denom().String())
			}
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.IsNegative() {
				den = append(den, factorString(PowOf(p.base, numNeg(e))))
				continue
			}
		}
		num = append(num, factorString(f))
	}
	out := strings.Join(num, "*")
	if out == "" {
		out = "1"
	}
	if len(den) > 0 {
		d := strings.Join(den, "*")
		if len(den) > 1 {
			d = "(" + d + ")"
		}
		out += "/" + d
	}
	return sign + out
}

func (m *Mul) LaTeX() string {
	sign := ""
	var num, den []string
	for i, f := range m.factors {
		if c, ok := f.(*Num); ok && i == 0 {
			if c.IsNegative() {
				sign = "-"
				c = numNeg(c)
			}
			if c.val.Num().Cmp(ratOne.Num()) != 0 {
				num = append(num, c.val.Num().String())
			}
			if !c.val.IsInt() {
				den = append(den, c.val.Denom().String())
			}
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.IsNegative() {
				den = append(den, factorLaTeX(PowOf(p.base, numNeg(e))))
				continue
			}
		}
		num = append(num, factorLaTeX(f))
	}
	out := strings.Join(num, " ")
	if out == "" {
		out = "1"
	}
	if len(den) > 0 {
		out = "\\frac{" + out + "}{" + strings.Join(den, " ") + "}"
	}
	return sign + out
}

func factorString(f Expr) string {
	if _, ok := f.(*Add); ok {
		return "(" + f.String() + ")"
	}
	return f.String()
}

func factorLaTeX(f Expr) string {
	if _, ok := f.(*Add); ok {
		return "\\left(" + f.LaTeX() + "\\right)"
	}
	return f.LaTeX()
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		terms[i] = MulOf(append([]Expr{dfi}, others...)...)
	}
	return AddOf(terms...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	// 0^exp: 0^negative is a division by zero and stays symbolic.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if expIsNum && en.IsNegative() {
			return &Pow{base: base, exp: exp}
		}
		return N(0)
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok && expIsNum && en.IsInteger() {
		e := en.val.Num().Int64()
		if e >= -20 && e <= 20 {
			result := N(1)
			for i := int64(0); i < absInt(e); i++ {
				result = numMul(result, bn)
			}
			if e < 0 {
				return numRecip(result)
			}
			return result
		}
	}
	// (a^b)^n = a^(b*n) and (a*b)^n = a^n*b^n only hold for integer n.
	if expIsNum && en.IsInteger() {
		switch inner := base.(type) {
		case *Pow:
			return PowOf(inner.base, MulOf(inner.exp, exp))
		case *Mul:
			factors := make([]Expr, len(inner.factors))
			for i, f := range inner.factors {
				factors[i] = PowOf(f, exp)
			}
			return MulOf(factors...)
		}
	}
	return &Pow{base: base, exp: exp}
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsHalf() {
			return "sqrt(" + p.base.String() + ")"
		}
		if en.IsNegative() {
			return "1/" + factorString(PowOf(p.base, numNeg(en)))
		}
	}
	baseStr := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	switch e := p.exp.(type) {
	case *Sym, *Const:
	case *Num:
		if !e.IsInteger() {
			expStr = "(" + expStr + ")"
		}
	default:
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsHalf() {
			return "\\sqrt{" + p.base.LaTeX() + "}"
		}
		if en.IsNegative() {
			return "\\frac{1}{" + PowOf(p.base, numNeg(en)).LaTeX() + "}"
		}
	}
	baseStr := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "\\left(" + baseStr + "\\right)"
	}
	return baseStr + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if _, expIsNum := p.exp.(*Num); expIsNum {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	switch p.base.(type) {
	case *Num, *Const:
		return MulOf(PowOf(p.base, p.exp), LnOf(p.base), dv)
	}
	logTerm := MulOf(dv, LnOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// isUndefined reports a literal division by zero, 0^negative.
func isUndefined(e Expr) bool {
	p, ok := e.(*Pow)
	if !ok {
		return false
	}
	bn, ok := p.base.(*Num)
	if !ok || !bn.IsZero() {
		return false
	}
	en, ok := p.exp.(*Num)
	return ok && en.IsNegative()
}

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr    { return funcOf("log", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr  { return funcOf("sign", arg).Simplify() }

// Simplify folds numeric arguments when the result is a finite real;
// anything else stays symbolic so evaluation can report the domain error.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	if n, ok := arg.(*Num); ok {
		if v, err := applyFunc(f.name, n.Float64()); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return NFloat(v)
		}
	}
	switch f.name {
	case "log":
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
		if c, ok := arg.(*Const); ok && c == E {
			return N(1)
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "log" {
			return inner.arg
		}
	case "abs":
		if m, ok := arg.(*Mul); ok {
			if coeff, ok2 := m.factors[0].(*Num); ok2 && coeff.IsNegOne() {
				inner := m.factors[1:]
				if len(inner) == 1 {
					return AbsOf(inner[0])
				}
				return AbsOf(&Mul{factors: inner})
			}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "log":
		return "\\ln\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	case "floor":
		return "\\lfloor " + f.arg.LaTeX() + " \\rfloor"
	case "ceil":
		return "\\lceil " + f.arg.LaTeX() + " \\rceil"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "log":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "abs":
		outer = SignOf(f.arg)
	case "floor", "ceil", "sign":
		return N(0)
	default:
		return MulOf(funcOf("D["+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(N(-1), e) }

// Difference returns a - b.
func Difference(a, b Expr) Expr { return AddOf(a, Neg(b)) }

// Quotient returns a / b. A zero divisor is kept symbolic.
func Quotient(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// extractCoefficient splits a simplified term into its numeric coefficient
// and the remaining product.
func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}
