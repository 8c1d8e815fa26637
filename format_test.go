package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{2, "2.0"},
		{-0.75, "-0.75"},
		{1.414214, "1.414214"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e15, "1000000000000000.0"},
		{1e16, "1e+16"},
		{2.4178516392292583e24, "2.4178516392292583e+24"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatFloat(c.in), "%v", c.in)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.414214, Round(math.Sqrt2, 6))
	assert.Equal(t, 2.0, Round(2.5, 0))
	assert.Equal(t, 4.0, Round(3.5, 0))
	assert.Equal(t, 63267.3718485, Round(63267.37184855, 7))
	assert.Equal(t, 2.67, Round(2.675, 2))
	assert.Equal(t, 0.12, Round(0.125, 2))
	assert.Equal(t, 0.38, Round(0.375, 2))
	assert.Equal(t, 1200.0, Round(1250, -2))
	assert.True(t, math.IsInf(Round(math.Inf(1), 3), 1))
}

func TestPercentError(t *testing.T) {
	assert.Equal(t, 50.0, percentError(2, 1))
	assert.Equal(t, 0.0, percentError(0, 0))
	assert.Equal(t, 0.0, percentError(1e-16, 5e-16))
	assert.True(t, math.IsInf(percentError(0, 1), 1))
}
