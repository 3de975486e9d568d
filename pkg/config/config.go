// Package config loads qwencoder settings from a YAML file. Environment
// variables referenced as ${VAR} or $VAR are expanded before parsing so API
// keys can live in the environment (e.g. loaded from a .env file) instead of
// the config file itself.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhishek-7-singh/qwen2-coder-extension/pkg/gateway"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no explicit
// config path is given.
const DefaultFileName = "qwencoder.yaml"

// Settings is the on-disk configuration.
type Settings struct {
	BaseURL   string `yaml:"base_url"`
	APIMode   string `yaml:"api_mode"`
	APIKey    string `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	MaxTokens int    `yaml:"max_tokens"`
}

// Default returns the settings used when no config file exists: the loopback
// inference server, automatic format detection, no auth.
func Default() Settings {
	return Settings{
		BaseURL:   gateway.DefaultBaseURL,
		APIMode:   string(gateway.ModeAuto),
		MaxTokens: gateway.DefaultMaxTokens,
	}
}

// Load reads a YAML file and returns Settings with defaults applied to
// unset fields. A missing file is not an error and yields Default().
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	s := Default()
	if err := yaml.Unmarshal([]byte(expanded), &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks the settings for values the gateway cannot work with.
// MaxTokens is deliberately not range-checked: per-call overrides pass
// through unvalidated and the file-level default follows the same policy.
func (s Settings) Validate() error {
	switch gateway.Mode(s.APIMode) {
	case gateway.ModeAuto, gateway.ModeOpenAI, gateway.ModeSimple, "":
	default:
		return fmt.Errorf("config: unknown api_mode %q (want auto, openai or simple)", s.APIMode)
	}

	return nil
}

// Gateway converts the settings into a gateway configuration.
func (s Settings) Gateway() gateway.Config {
	return gateway.Config{
		BaseURL:   s.BaseURL,
		Mode:      gateway.Mode(s.APIMode),
		APIKey:    s.APIKey,
		MaxTokens: s.MaxTokens,
	}
}

// FileSource is a gateway.ConfigSource that re-reads the settings file on
// every call, so edits take effect without restarting. Read failures fall
// back to defaults rather than failing the call.
type FileSource struct {
	Path string
}

// GatewayConfig implements gateway.ConfigSource.
func (f FileSource) GatewayConfig() gateway.Config {
	s, err := Load(f.Path)
	if err != nil {
		s = Default()
	}
	return s.Gateway()
}

// ResolvePath returns the config path to use: the explicit flag value when
// set, otherwise DefaultFileName in the working directory.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return DefaultFileName
}
