package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[solver]\nNodes = 40\nDx = 0.005\nMethod = gauss_seidel\nMaxSteps = 500\n\n[server]\nAddr = :8080\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Solver.Nodes)
	assert.Equal(t, 0.005, cfg.Solver.Dx)
	assert.Equal(t, "gauss_seidel", cfg.Solver.Method)
	assert.Equal(t, 500, cfg.Solver.MaxSteps)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	// 未给出的键使用默认值
	d := Default()
	assert.Equal(t, d.Solver.Dt, cfg.Solver.Dt)
	assert.Equal(t, d.Boundary, cfg.Boundary)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Error(t, err)
}

func TestEmptyFileGivesDefaults(t *testing.T) {
	cfg := loadCfg(ini.Empty())
	assert.Equal(t, Default(), cfg)
}

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.ini")
	require.NoError(t, os.WriteFile(path, []byte("[solver]\nNodes = 12\n"), 0o644))
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte(EnvConfigPath+"="+path+"\n"+EnvAddr+"=:7070\n"), 0o644))

	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvAddr, "")
	os.Unsetenv(EnvConfigPath)
	os.Unsetenv(EnvAddr)

	cfg, err := FromEnv(env, "")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Solver.Nodes)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestFromEnvWithoutFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvAddr, "")
	cfg, err := FromEnv(filepath.Join(dir, ".env"), filepath.Join(dir, "missing.ini"))
	require.NoError(t, err)
	assert.Equal(t, Default().Solver, cfg.Solver)
}
