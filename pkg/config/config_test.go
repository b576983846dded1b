package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	profile := `
target: http://example.test/search
params: [q, page]
categories: [sqli, ssti]
workers: 10
aggressive: true
thresholds:
  boolean_divergence: 0.5
  delay: 3s
output:
  format: html
  path: report.html
`
	require.NoError(t, os.WriteFile(path, []byte(profile), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/search", cfg.Target)
	assert.Equal(t, []string{"q", "page"}, cfg.Params)
	assert.Equal(t, 10, cfg.Workers)
	assert.True(t, cfg.Aggressive)
	assert.Equal(t, "html", cfg.Output.Format)

	// Fields the profile omits keep their defaults.
	assert.Equal(t, "GET", cfg.Method)
	assert.Equal(t, float64(50), cfg.RateLimit)

	th := cfg.OracleThresholds()
	assert.Equal(t, 0.5, th.BooleanDivergence)
	assert.Equal(t, 3*time.Second, th.Delay)
	assert.Equal(t, 0.85, th.BaselineAffinity)

	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "empty target must fail")

	cfg.Target = "http://example.test"
	assert.NoError(t, cfg.Validate())

	cfg.Output.Format = "docx"
	assert.Error(t, cfg.Validate())
}
