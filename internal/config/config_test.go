package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mlnbuild.yaml")
	manifest := `prefix: SIMULAR_ALLOCATORS
build: out
defines:
  CMAKE_CXX_STANDARD: "20"
`
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "SIMULAR_ALLOCATORS", cfg.Prefix)
	assert.Equal(t, "out", cfg.BuildDir)
	assert.Equal(t, map[string]string{"CMAKE_CXX_STANDARD": "20"}, cfg.Defines)

	// Untouched fields keep their defaults.
	assert.Equal(t, ".", cfg.SourceDir)
	assert.Equal(t, "Unix Makefiles", cfg.Generator)
	assert.Equal(t, "3.15", cfg.CMakeMin)
}

func TestLoadMalformedManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mlnbuild.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prefix: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
