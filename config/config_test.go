package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lift.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"arch":"pic18","family":"enhanced","loglevel":"debug"}`), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pic18", opts.Arch)
	assert.Equal(t, "enhanced", opts.Family)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.True(t, opts.BigEndian, "unset fields keep their defaults")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"arch":`), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvArch, "sparc")
	t.Setenv(EnvBigEndian, "false")
	t.Setenv(EnvLogJSON, "true")
	t.Setenv(EnvModules, "dec_mod,rw_mod")

	opts := FromEnv(Default())
	assert.Equal(t, "sparc", opts.Arch)
	assert.False(t, opts.BigEndian)
	assert.True(t, opts.LogJSON)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, []string{"dec_mod", "rw_mod"}, opts.EnabledModules)
}

func TestFromEnvKeepsBase(t *testing.T) {
	base := Options{Arch: "mips64", BigEndian: false, LogLevel: "warn"}
	assert.Equal(t, base, FromEnv(base))
}

func TestFromEnvRereads(t *testing.T) {
	t.Setenv(EnvArch, "sparc")
	assert.Equal(t, "sparc", FromEnv(Default()).Arch)

	t.Setenv(EnvArch, "pic18")
	assert.Equal(t, "pic18", FromEnv(Default()).Arch)

	require.NoError(t, os.Unsetenv(EnvArch))
	assert.Equal(t, "mips", FromEnv(Default()).Arch)
}

func TestString(t *testing.T) {
	opts := Default()
	assert.JSONEq(t, `{"arch":"mips","bigendian":true,"loglevel":"info","logjson":false}`, opts.String())
}

func TestApply(t *testing.T) {
	opts := Default()
	opts.LogLevel = "trace"
	opts.EnabledModules = []string{"dec_mod"}
	require.NoError(t, opts.Apply())

	opts.LogLevel = "loud"
	assert.Error(t, opts.Apply())

	opts.LogLevel = "info"
	require.NoError(t, opts.Apply())
}
