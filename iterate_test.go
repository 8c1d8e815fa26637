package fixedpoint_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixedpoint "github.com/njchilds90/gofixedpoint"
)

func iterate(t *testing.T, g string, p fixedpoint.Params) ([]fixedpoint.Record, fixedpoint.Status) {
	t.Helper()
	return fixedpoint.Iterate(context.Background(), fixedpoint.MustParse(g), p)
}

func TestIterate_Diverging(t *testing.T) {
	records, status := iterate(t, "x^3", fixedpoint.Params{InitialGuess: 2, MaxIterations: 50, Tolerance: 0.001, DecimalPlaces: 4})

	require.Equal(t, fixedpoint.StatusDiverged, status)
	require.Len(t, records, 5)
	assert.Equal(t, fixedpoint.ProgressRecord(0, 2, 8, "---"), records[0])
	assert.Equal(t, fixedpoint.ProgressRecord(1, 8, 512, "98.4375%"), records[1])
	assert.Equal(t, "99.9996%", records[2].E)
	assert.Equal(t,
		fixedpoint.ErrorRecord(4, "Method is diverging (value 2.42e+24 at iteration 3)"),
		records[4])
}

func TestIterate_EvaluationError(t *testing.T) {
	records, status := iterate(t, "sqrt(x) - 2", fixedpoint.Params{InitialGuess: 5, MaxIterations: 10, Tolerance: 0.001, DecimalPlaces: 6})

	require.Equal(t, fixedpoint.StatusEvalError, status)
	require.Len(t, records, 3)
	last := records[2]
	assert.Equal(t, fixedpoint.KindError, last.Kind)
	assert.Equal(t, 2, last.I)
	assert.True(t, strings.HasPrefix(last.Error, "Evaluation error: square root of negative number"), last.Error)
}

func TestIterate_NonFinite(t *testing.T) {
	records, status := iterate(t, "exp(x)", fixedpoint.Params{InitialGuess: 800, MaxIterations: 10, DecimalPlaces: 6})

	require.Equal(t, fixedpoint.StatusNonFinite, status)
	assert.Equal(t, []fixedpoint.Record{fixedpoint.ErrorRecord(0, "Non-finite value encountered: inf")}, records)
}

func TestIterate_InfinitePercentErrorNearZero(t *testing.T) {
	// g alternates 1 -> 0 -> 1: the step into 0 has an unbounded relative error.
	records, status := iterate(t, "1 - x", fixedpoint.Params{InitialGuess: 0, MaxIterations: 3, Tolerance: 1, DecimalPlaces: 3})

	require.Equal(t, fixedpoint.StatusMaxIter, status)
	require.Len(t, records, 4)
	assert.Equal(t, "---", records[0].E)
	assert.Equal(t, "inf%", records[1].E)
	assert.Equal(t, "100.0%", records[2].E)
	assert.Equal(t,
		fixedpoint.ResultRecord(3, "Stopped: Reached maximum iterations (3). Last estimate: 1.0", 1),
		records[3])
}

func TestIterate_RoundsHalfToEven(t *testing.T) {
	records, _ := iterate(t, "0.125", fixedpoint.Params{InitialGuess: 0.375, MaxIterations: 5, Tolerance: 1, DecimalPlaces: 2})

	require.NotEmpty(t, records)
	assert.Equal(t, 0.38, records[0].Xi)
	assert.Equal(t, 0.12, records[0].GXi)
}

func TestIterate_TerminatesWithExactlyOneTerminalRecord(t *testing.T) {
	for _, g := range []string{"x^3", "cos(x)", "sqrt(x) - 2", "x + 1"} {
		records, _ := iterate(t, g, fixedpoint.Params{InitialGuess: 2, MaxIterations: 20, Tolerance: 0.01, DecimalPlaces: 6})
		require.NotEmpty(t, records, g)
		for i, r := range records[:len(records)-1] {
			assert.False(t, r.Terminal(), "%s: record %d", g, i)
		}
		assert.True(t, records[len(records)-1].Terminal(), g)
	}
}
