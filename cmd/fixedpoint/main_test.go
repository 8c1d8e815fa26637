package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixedpoint "github.com/njchilds90/gofixedpoint"
	"github.com/njchilds90/gofixedpoint/internal/config"
)

func run(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out, errout bytes.Buffer
	cmd := NewCmdRoot(&out, &errout)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestSolve_JSON(t *testing.T) {
	out, err := run(t, context.Background(), "solve", "-e", "x**2 - 2", "-g", "1", "-o", "json", "--candidates")
	require.NoError(t, err)

	var doc struct {
		Iterations []fixedpoint.Record `json:"iterations"`
		Status     string              `json:"status"`
		Candidates []candidateJSON     `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "converged", doc.Status)
	require.Len(t, doc.Iterations, 3)
	assert.Equal(t, 1.414214, doc.Iterations[2].Root)

	require.Len(t, doc.Candidates, 3)
	assert.True(t, doc.Candidates[1].Selected)
	assert.Equal(t, "sqrt(2)", doc.Candidates[1].G)
	assert.Equal(t, `\sqrt{2}`, doc.Candidates[1].LaTeX)
	assert.Equal(t, "0.0", doc.Candidates[1].GPrime)
}

func TestSolve_Table(t *testing.T) {
	out, err := run(t, context.Background(), "solve", "--equation", "x**2 - 2", "--guess", "1", "--candidates")
	require.NoError(t, err)

	assert.Contains(t, out, "G(Xi)")
	assert.Contains(t, out, "1.414214")
	assert.Contains(t, out, "---")
	assert.Contains(t, out, "Converged: Error (0.0%) <= 0.001%")
	assert.Contains(t, out, `\sqrt{2}`)
	assert.Contains(t, out, "Simple addition: g(x) = f(x) + x")
}

func TestSolve_TableNoCandidate(t *testing.T) {
	out, err := run(t, context.Background(), "solve", "-e", "1 - x", "-g", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No converging g(x) found at initial guess x=2.0")
	assert.Contains(t, out, "|g'(x0)|=")
	assert.NotContains(t, out, "G(Xi)")
}

func TestSolve_YAML(t *testing.T) {
	out, err := run(t, context.Background(), "solve", "-e", "x**2 - 2", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "status: converged")
	assert.Contains(t, out, "G(Xi): 1.414214")
	assert.Contains(t, out, "E: '---'")
}

func TestSolve_Errors(t *testing.T) {
	cases := map[string][]string{
		"missing equation": {"solve"},
		"bad output":       {"solve", "-e", "x", "-o", "xml"},
		"bad iterations":   {"solve", "-e", "x", "--max-iter", "0"},
		"bad log level":    {"solve", "-e", "x", "--log-level", "loud"},
		"stray argument":   {"solve", "-e", "x", "extra"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, context.Background(), args...)
			assert.Error(t, err)
		})
	}
}

func TestConfigDefault(t *testing.T) {
	out, err := run(t, context.Background(), "config", "default")
	require.NoError(t, err)

	cfg, err := config.LoadBytes("default.hcl", []byte(out))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfigCheck(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.hcl")
	require.NoError(t, os.WriteFile(good, []byte("listen = \":7070\"\n"), 0o600))
	bad := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte("limits {\n  solve_timeout = \"never\"\n}\n"), 0o600))

	out, err := run(t, context.Background(), "config", "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, `":7070"`)

	_, err = run(t, context.Background(), "config", "check", bad)
	assert.Error(t, err)
}

func TestServe(t *testing.T) {
	_, err := run(t, context.Background(), "serve", "--log-level", "loud")
	assert.Error(t, err)

	_, err = run(t, context.Background(), "serve", "--config", filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = run(t, ctx, "serve", "--listen", "127.0.0.1:0", "--log-level", "error")
	assert.NoError(t, err)
}
