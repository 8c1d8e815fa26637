package fixedpoint_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	fixedpoint "github.com/njchilds90/gofixedpoint"
)

func TestRecord_MarshalJSON(t *testing.T) {
	cases := []struct {
		rec  fixedpoint.Record
		want string
	}{
		{fixedpoint.ProgressRecord(0, 1, 1.414214, "---"), `{"i":0,"Xi":1.0,"G(Xi)":1.414214,"E":"---"}`},
		{fixedpoint.ProgressRecord(4, 0.00001, 0, "12.5%"), `{"i":4,"Xi":1e-05,"G(Xi)":0.0,"E":"12.5%"}`},
		{fixedpoint.ErrorRecord(3, "Evaluation error: division by zero"), `{"i":3,"Error":"Evaluation error: division by zero"}`},
		{fixedpoint.ResultRecord(2, "Converged: Error (0.0%) <= 0.001%", 1.414214), `{"i":2,"Result":"Converged: Error (0.0%) <= 0.001%","Root":1.414214}`},
		{fixedpoint.ResultRecord(2, "Converged: Error (0.0%) <= 1.0%", 2), `{"i":2,"Result":"Converged: Error (0.0%) <= 1.0%","Root":2.0}`},
	}
	for _, c := range cases {
		b, err := json.Marshal(c.rec)
		require.NoError(t, err)
		assert.Equal(t, c.want, string(b))
	}
}

func TestRecord_MarshalJSON_NonFinite(t *testing.T) {
	_, err := json.Marshal(fixedpoint.ResultRecord(1, "Stopped", math.Inf(1)))
	assert.Error(t, err)
}

func TestRecord_MarshalJSON_Candidates(t *testing.T) {
	rec := fixedpoint.ErrorRecord(0, "No converging g(x) found at initial guess x=2.0")
	rec.Candidates = "Simple addition: g(x) = f(x) + x: g(x)=x, |g'(x0)|=N/A"
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"i":0,"Error":"No converging g(x) found at initial guess x=2.0","Candidates":"Simple addition: g(x) = f(x) + x: g(x)=x, |g'(x0)|=N/A"}`, string(b))
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	in := []fixedpoint.Record{
		fixedpoint.ProgressRecord(0, 1, 2, "---"),
		fixedpoint.ProgressRecord(1, 2, 2, "0.0%"),
		fixedpoint.ResultRecord(2, "Converged: Error (0.0%) <= 1.0%", 2),
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out []fixedpoint.Record
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)

	var bad fixedpoint.Record
	assert.Error(t, json.Unmarshal([]byte(`{"i":1}`), &bad))
}

func TestRecord_MarshalYAML(t *testing.T) {
	b, err := yaml.Marshal([]fixedpoint.Record{
		fixedpoint.ProgressRecord(0, 1, 1.5, "---"),
		fixedpoint.ErrorRecord(1, "Method is diverging (value 2.42e+24 at iteration 0)"),
	})
	require.NoError(t, err)
	assert.Equal(t, `- i: 0
  Xi: 1
  G(Xi): 1.5
  E: '---'
- i: 1
  Error: Method is diverging (value 2.42e+24 at iteration 0)
`, string(b))
}
