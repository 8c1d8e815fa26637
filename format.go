package fixedpoint

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// FormatFloat renders v as the shortest string that reads back to v. Values
// with a decimal exponent in [-4, 16) use positional notation and always
// carry a decimal point ("2.0", "0.0001"); others use exponent notation
// ("1e-05", "1.5e+16").
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return s
	}
	s = strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Round rounds v to the given number of decimal places. The result is the
// float nearest to the correctly rounded decimal of v's exact binary value;
// exact ties go to even. Negative places round to tens, hundreds and so on.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	if places < 0 {
		return scalar.RoundEven(v, places)
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return scalar.RoundEven(v, places)
	}
	return r
}
