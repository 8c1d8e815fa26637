package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gofixedpoint/internal/logging"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":5000", cfg.Listen)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel())
	assert.Equal(t, int64(1<<20), cfg.Limits.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, cfg.SolveTimeout())
	assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout())
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout())
}

func TestLoadBytes_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadBytes("test.hcl", []byte(`
listen = "127.0.0.1:8080"

log {
  level = "debug"
  json  = true
}

limits {
  max_iterations = 500
  solve_timeout  = "2s"
}
`))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, logging.LevelDebug, cfg.LogLevel())
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, 500, cfg.Limits.MaxIterations)
	assert.Equal(t, DefaultMaxDecimalPlaces, cfg.Limits.MaxDecimalPlaces)
	assert.Equal(t, 2*time.Second, cfg.SolveTimeout())
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout())
}

func TestLoadBytes_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax":      `listen = `,
		"unknown":     `port = 80`,
		"level":       "log {\n  level = \"loud\"\n}\n",
		"duration":    "http {\n  read_timeout = \"soon\"\n}\n",
		"negative":    "limits {\n  max_iterations = -1\n}\n",
		"zero period": "limits {\n  solve_timeout = \"0s\"\n}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadBytes("test.hcl", []byte(src))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "fixedpoint.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`listen = ":9000"`), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}

func TestHCL_RoundTrip(t *testing.T) {
	want := Default()
	want.Listen = "0.0.0.0:7000"
	want.Limits.MaxIterations = 42
	want.Log.JSON = true

	got, err := LoadBytes("rendered.hcl", want.HCL())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
