// Package config loads application settings from an optional HCL file and
// resolves them against built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"codeflow/internal/narrate"
	"codeflow/internal/trace"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.hcl"

// Config is the resolved application configuration.
type Config struct {
	PlaybackInterval time.Duration
	LogLevel         string
	LogFile          string
	UpdateRepo       string // owner/name on GitHub, used by --update
	Narration        Narration
}

// Narration configures the explanation service.
type Narration struct {
	Enabled     bool
	Endpoint    string
	Model       string
	APIKeyEnv   string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PlaybackInterval: trace.DefaultInterval,
		LogLevel:         "info",
		LogFile:          defaultLogFile(),
		Narration: Narration{
			Enabled:     true,
			Endpoint:    narrate.DefaultEndpoint,
			Model:       narrate.DefaultModel,
			APIKeyEnv:   "GROQ_API_KEY",
			Temperature: narrate.DefaultTemperature,
			MaxTokens:   narrate.DefaultMaxTokens,
			Timeout:     narrate.DefaultTimeout,
		},
	}
}

// hclConfigFile is the on-disk layout. Every field is optional.
type hclConfigFile struct {
	PlaybackInterval *float64      `hcl:"playback_interval,optional"`
	LogLevel         *string       `hcl:"log_level,optional"`
	LogFile          *string       `hcl:"log_file,optional"`
	UpdateRepo       *string       `hcl:"update_repo,optional"`
	Narration        *hclNarration `hcl:"narration,block"`
}

type hclNarration struct {
	Enabled     *bool    `hcl:"enabled,optional"`
	Endpoint    *string  `hcl:"endpoint,optional"`
	Model       *string  `hcl:"model,optional"`
	APIKeyEnv   *string  `hcl:"api_key_env,optional"`
	Temperature *float64 `hcl:"temperature,optional"`
	MaxTokens   *int     `hcl:"max_tokens,optional"`
	Timeout     *string  `hcl:"timeout,optional"`
}

// DefaultPath is $XDG_CONFIG_HOME/codeflow/config.hcl or the platform
// equivalent. It returns "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "codeflow", FileName)
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "codeflow.log")
	}
	return filepath.Join(dir, "codeflow", "codeflow.log")
}

// Load reads path on top of the defaults. When required is false a missing
// file is not an error.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var raw hclConfigFile
	diags = gohcl.DecodeBody(file.Body, evalContext(path), &raw)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	if err := raw.apply(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// evalContext exposes the environment as env.NAME and the directory holding
// the config file as config_dir.
func evalContext(path string) *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{
		"env":        envVal,
		"config_dir": cty.StringVal(filepath.Dir(path)),
	}}
}

func (f *hclConfigFile) apply(cfg *Config) error {
	if f.PlaybackInterval != nil {
		cfg.PlaybackInterval = SecondsToDuration(*f.PlaybackInterval)
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if f.LogFile != nil {
		cfg.LogFile = *f.LogFile
	}
	if err := ValidateLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	if f.UpdateRepo != nil {
		if _, _, err := SplitRepo(*f.UpdateRepo); err != nil {
			return err
		}
		cfg.UpdateRepo = *f.UpdateRepo
	}

	n := f.Narration
	if n == nil {
		return nil
	}
	if n.Enabled != nil {
		cfg.Narration.Enabled = *n.Enabled
	}
	if n.Endpoint != nil {
		cfg.Narration.Endpoint = *n.Endpoint
	}
	if n.Model != nil {
		cfg.Narration.Model = *n.Model
	}
	if n.APIKeyEnv != nil {
		cfg.Narration.APIKeyEnv = *n.APIKeyEnv
	}
	if n.Temperature != nil {
		cfg.Narration.Temperature = *n.Temperature
	}
	if n.MaxTokens != nil {
		if *n.MaxTokens <= 0 {
			return fmt.Errorf("narration.max_tokens must be positive, got %d", *n.MaxTokens)
		}
		cfg.Narration.MaxTokens = *n.MaxTokens
	}
	if n.Timeout != nil {
		d, err := time.ParseDuration(*n.Timeout)
		if err != nil {
			return fmt.Errorf("narration.timeout: %w", err)
		}
		cfg.Narration.Timeout = d
	}
	return nil
}

// ValidateLogLevel accepts debug, info, warn and error.
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", level)
}

// SplitRepo splits "owner/name".
func SplitRepo(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("update_repo must look like owner/name, got %q", repo)
	}
	return owner, name, nil
}

// SecondsToDuration converts seconds to a duration rounded to 0.1s.
func SecondsToDuration(s float64) time.Duration {
	return time.Duration(s*10+0.5) * 100 * time.Millisecond
}

// APIKey returns the narration key from the environment, or "".
func (n Narration) APIKey() string {
	if n.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(n.APIKeyEnv)
}

// ClientConfig converts the settings for narrate.NewClient.
func (n Narration) ClientConfig() narrate.ClientConfig {
	return narrate.ClientConfig{
		Endpoint:    n.Endpoint,
		APIKey:      n.APIKey(),
		Model:       n.Model,
		Temperature: n.Temperature,
		MaxTokens:   n.MaxTokens,
		Timeout:     n.Timeout,
	}
}
