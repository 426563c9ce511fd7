package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets all variables Load looks at, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FRAME", "WEBTREE_CONFORMANT", "WEBTREE_USER_AGENT", "WEBTREE_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webtree.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Frame)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
frame = true
conformant = true
invisible = ["Nav", " aside ", "nav", ""]
user_agent = "tester/1.0"
timeout = "5s"
max_depth = 64
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Frame)
	assert.True(t, cfg.Conformant)
	assert.Equal(t, []string{"nav", "aside"}, cfg.Invisible)
	assert.Equal(t, "tester/1.0", cfg.UserAgent)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 64, cfg.MaxDepth)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, `frame = true`))
	require.NoError(t, err)
	assert.True(t, cfg.Frame)
	assert.Equal(t, Default().Timeout, cfg.Timeout)
	assert.Equal(t, Default().UserAgent, cfg.UserAgent)
}

func TestEnvironmentWins(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
conformant = false
user_agent = "file/1.0"
timeout = "5s"
`)
	t.Setenv("FRAME", "")
	t.Setenv("WEBTREE_CONFORMANT", "true")
	t.Setenv("WEBTREE_USER_AGENT", "env/2.0")
	t.Setenv("WEBTREE_TIMEOUT", "1m")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Frame, "FRAME enables framing by presence")
	assert.True(t, cfg.Conformant)
	assert.Equal(t, "env/2.0", cfg.UserAgent)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, `timeout = "soon"`))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, `colour = "blue"`))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, `max_depth = 0`))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, `frame = `))
	assert.Error(t, err)
	t.Setenv("WEBTREE_CONFORMANT", "maybe")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())
	cfg = Default()
	cfg.UserAgent = ""
	assert.Error(t, cfg.Validate())
}
