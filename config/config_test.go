package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pto-center/config"
	"github.com/warp/pto-center/engine"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pto.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
port: 9000
auth:
  project_id: pto-center-prod
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "pto.db", cfg.Database, "unset keys keep defaults")
	assert.Equal(t, "pto-center-prod", cfg.Auth.ProjectID)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAMLErrors(t *testing.T) {
	path := writeConfig(t, "port: [not a number")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestAllocationPolicy_OverridesOverlayDefaults(t *testing.T) {
	path := writeConfig(t, `
allocations:
  FT: 25
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	policy := cfg.AllocationPolicy()
	assert.Equal(t, 25, policy.AllocationFor(engine.FullTime).Int())
	assert.Equal(t, 10, policy.AllocationFor(engine.PartTime).Int(), "unset types keep defaults")
	assert.Equal(t, 0, policy.AllocationFor(engine.Bank).Int())
}
