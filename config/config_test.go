package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	conf, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), conf)

	conf, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), conf)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bollard.json")
	err := os.WriteFile(path, []byte(`{
		"docker_host": "unix:///tmp/docker.sock",
		"pool_size": 0,
		"columns": ["compact", "size"],
		"short_digest": false,
		"log": {"level": "debug"}
	}`), 0o600)
	require.NoError(t, err)

	conf, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "unix:///tmp/docker.sock", conf.DockerHost)
	assert.Equal(t, runtime.NumCPU(), conf.PoolSize)
	assert.Equal(t, []string{"compact", "size"}, conf.Columns)
	assert.False(t, conf.ShortDigest)
	assert.True(t, conf.HighlightArchitecture)
	assert.Equal(t, "debug", conf.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bollard.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	conf := &Config{}
	conf.Normalize()
	assert.Equal(t, runtime.NumCPU(), conf.PoolSize)
	assert.Equal(t, []string{"default"}, conf.Columns)
	assert.Equal(t, "info", conf.Log.Level)
}
