package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeflow/internal/narrate"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.hcl")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.PlaybackInterval)

	_, err = Load(path, true)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
playback_interval = 0.5
log_level         = "debug"
log_file          = "/tmp/cf.log"
update_repo       = "someone/codeflow"

narration {
  enabled     = false
  endpoint    = "http://localhost:9999/v1/chat/completions"
  model       = "tiny"
  api_key_env = "CF_TEST_KEY"
  temperature = 0.7
  max_tokens  = 200
  timeout     = "3s"
}
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.PlaybackInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/cf.log", cfg.LogFile)
	assert.Equal(t, "someone/codeflow", cfg.UpdateRepo)
	assert.False(t, cfg.Narration.Enabled)
	assert.Equal(t, "tiny", cfg.Narration.Model)
	assert.Equal(t, 0.7, cfg.Narration.Temperature)
	assert.Equal(t, 200, cfg.Narration.MaxTokens)
	assert.Equal(t, 3*time.Second, cfg.Narration.Timeout)

	t.Setenv("CF_TEST_KEY", "secret")
	cc := cfg.Narration.ClientConfig()
	assert.Equal(t, "secret", cc.APIKey)
	assert.Equal(t, "http://localhost:9999/v1/chat/completions", cc.Endpoint)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
narration {
  model = "other"
}
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.Narration.Model)
	assert.True(t, cfg.Narration.Enabled)
	assert.Equal(t, narrate.DefaultEndpoint, cfg.Narration.Endpoint)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `playback_interval = `},
		{"unknown attribute", `speed = 1`},
		{"bad level", `log_level = "loud"`},
		{"bad timeout", "narration {\n  timeout = \"soon\"\n}\n"},
		{"bad repo", `update_repo = "codeflow"`},
		{"bad max tokens", "narration {\n  max_tokens = 0\n}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), true)
			assert.Error(t, err)
		})
	}
}

func TestSecondsToDuration(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, SecondsToDuration(0.1))
	assert.Equal(t, 1200*time.Millisecond, SecondsToDuration(1.2))
	assert.Equal(t, 2*time.Second, SecondsToDuration(2))
}

func TestAPIKeyUnset(t *testing.T) {
	n := Narration{}
	assert.Equal(t, "", n.APIKey())
}

func TestSplitRepo(t *testing.T) {
	owner, name, err := SplitRepo("a/b")
	require.NoError(t, err)
	assert.Equal(t, "a", owner)
	assert.Equal(t, "b", name)

	for _, bad := range []string{"", "a", "a/", "/b", "a/b/c"} {
		_, _, err := SplitRepo(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadInterpolatesEnv(t *testing.T) {
	t.Setenv("CF_TEST_HOME", "/home/someone")
	path := writeConfig(t, `
log_file  = "${env.CF_TEST_HOME}/codeflow.log"
log_level = "warn"
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/home/someone/codeflow.log", cfg.LogFile)

	path = writeConfig(t, `log_file = "${config_dir}/cf.log"`)
	cfg, err = Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "cf.log"), cfg.LogFile)
}
