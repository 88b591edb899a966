package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/seekarr/config.toml", DefaultPath())
}

func TestDiscover_EnvVar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seekarr.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))
	t.Setenv("SEEKARR_CONFIG", path)

	got, err := Discover()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestDiscover_EnvVarMissingFile(t *testing.T) {
	t.Setenv("SEEKARR_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))
	_, err := Discover()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_NoFile(t *testing.T) {
	t.Setenv("SEEKARR_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	got, err := Discover()
	require.NoError(t, err)
	if _, statErr := os.Stat("/etc/seekarr/config.toml"); statErr == nil {
		t.Skip("system config present")
	}
	assert.Empty(t, got)
}
