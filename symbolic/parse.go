package symbolic

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("parse error")

// ParseError reports malformed input and the byte offset it was found at.
type ParseError struct {
	Input string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q at position %d: %s", e.Input, e.Pos, e.Msg)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Functions lists the function names Parse accepts.
var Functions = map[string]func(Expr) Expr{
	"sqrt":  SqrtOf,
	"abs":   AbsOf,
	"Abs":   AbsOf,
	"exp":   ExpOf,
	"log":   LnOf,
	"ln":    LnOf,
	"sin":   SinOf,
	"cos":   CosOf,
	"tan":   TanOf,
	"asin":  AsinOf,
	"acos":  AcosOf,
	"atan":  AtanOf,
	"sinh":  SinhOf,
	"cosh":  CoshOf,
	"tanh":  TanhOf,
	"floor": FloorOf,
	"ceil":  CeilOf,
	"sign":  SignOf,
}

var constants = map[string]Expr{
	"pi": Pi,
	"E":  E,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// Parse reads infix text in the single free variable vars[0] (default "x").
// Supported: + - * / ^ ** unary minus, parentheses, decimal and exponent
// literals (kept exact), the constants pi and E, and the names in Functions.
// Power is right-associative and binds tighter than unary minus.
func Parse(input string, vars ...string) (Expr, error) {
	allowed := map[string]bool{"x": true}
	if len(vars) > 0 {
		allowed = map[string]bool{}
		for _, v := range vars {
			allowed[v] = true
		}
	}
	toks, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &parser{input: input, toks: toks, vars: allowed}
	if p.peek().kind == tokEOF {
		return nil, p.errorf(0, "empty expression")
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t.pos, "unexpected %q", t.text)
	}
	return e, nil
}

func tokenize(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := rune(input[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case isDigit(input[i]) || (c == '.' && i+1 < len(input) && isDigit(input[i+1])):
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			if i < len(input) && input[i] == '.' {
				i++
				for i < len(input) && isDigit(input[i]) {
					i++
				}
			}
			if i < len(input) && (input[i] == 'e' || input[i] == 'E') {
				j := i + 1
				if j < len(input) && (input[j] == '+' || input[j] == '-') {
					j++
				}
				if j < len(input) && isDigit(input[j]) {
					for j < len(input) && isDigit(input[j]) {
						j++
					}
					i = j
				}
			}
			toks = append(toks, token{kind: tokNum, text: input[start:i], pos: start})
		case c == '_' || unicode.IsLetter(c):
			start := i
			for i < len(input) && (input[i] == '_' || isDigit(input[i]) || unicode.IsLetter(rune(input[i]))) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: input[start:i], pos: start})
		case c == '*' && i+1 < len(input) && input[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case strings.ContainsRune("+-*/^", c):
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			return nil, &ParseError{Input: input, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(input)}), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

type parser struct {
	input string
	toks  []token
	pos   int
	vars  map[string]bool
}

func (p *parser) peek() token { return p.toks[p.pos] }
func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &ParseError{Input: p.input, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

// expr := term (('+' | '-') term)*
func (p *parser) parseExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			right = Neg(right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

// term := unary (('*' | '/') unary)*
func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/") {
		op := p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op.text == "/" {
			left = Quotient(left, right)
		} else {
			left = MulOf(left, right)
		}
	}
	return left, nil
}

// unary := ('-' | '+') unary | power
func (p *parser) parseUnary() (Expr, error) {
	if p.isOp("-", "+") {
		op := p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			return Neg(operand), nil
		}
		return operand, nil
	}
	return p.parsePower()
}

// power := primary (('^' | '**') unary)?
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.isOp("^", "**") {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return nil, p.errorf(t.pos, "invalid number %q", t.text)
		}
		return &Num{val: r}, nil
	case tokIdent:
		if fn, ok := Functions[t.text]; ok {
			if p.peek().kind != tokLParen {
				return nil, p.errorf(t.pos, "function %s needs an argument", t.text)
			}
			p.next()
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRParen, ")"); err != nil {
				return nil, err
			}
			return fn(arg), nil
		}
		if c, ok := constants[t.text]; ok {
			return c, nil
		}
		if p.vars[t.text] {
			return S(t.text), nil
		}
		return nil, p.errorf(t.pos, "unknown symbol %q", t.text)
	case tokLParen:
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return e, nil
	case tokEOF:
		return nil, p.errorf(t.pos, "unexpected end of expression")
	}
	return nil, p.errorf(t.pos, "unexpected %q", t.text)
}

func (p *parser) expect(kind tokenKind, text string) error {
	t := p.peek()
	if t.kind != kind {
		if t.kind == tokEOF {
			return p.errorf(t.pos, "expected %q before end of expression", text)
		}
		return p.errorf(t.pos, "expected %q, found %q", text, t.text)
	}
	p.next()
	return nil
}
