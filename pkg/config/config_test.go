package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abhishek-7-singh/qwen2-coder-extension/pkg/config"
	"github.com/abhishek-7-singh/qwen2-coder-extension/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "api_mode: simple\n")

	s, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "simple", s.APIMode)
	assert.Equal(t, gateway.DefaultBaseURL, s.BaseURL)
	assert.Equal(t, gateway.DefaultMaxTokens, s.MaxTokens)
	assert.Empty(t, s.APIKey)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("QWEN_API_KEY", "sk-from-env")

	path := writeConfig(t, "api_key: ${QWEN_API_KEY}\n")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", s.APIKey)
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	path := writeConfig(t, "api_mode: streaming\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_mode")
}

func TestLoad_NegativeMaxTokensPassesThrough(t *testing.T) {
	path := writeConfig(t, "max_tokens: -5\n")

	s, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, -5, s.MaxTokens)
}

func TestFileSource_ReadsFreshOnEveryCall(t *testing.T) {
	path := writeConfig(t, "base_url: http://first:1\n")
	src := config.FileSource{Path: path}

	assert.Equal(t, "http://first:1", src.GatewayConfig().BaseURL)

	require.NoError(t, os.WriteFile(path, []byte("base_url: http://second:2\n"), 0o600))
	assert.Equal(t, "http://second:2", src.GatewayConfig().BaseURL)
}

func TestFileSource_BadFileFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, "api_mode: [broken\n")
	src := config.FileSource{Path: path}

	cfg := src.GatewayConfig()
	assert.Equal(t, gateway.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, gateway.ModeAuto, cfg.Mode)
}

func TestSettings_Gateway(t *testing.T) {
	s := config.Settings{BaseURL: "http://x", APIMode: "openai", APIKey: "k", MaxTokens: 42}

	cfg := s.Gateway()
	assert.Equal(t, gateway.Config{
		BaseURL:   "http://x",
		Mode:      gateway.ModeOpenAI,
		APIKey:    "k",
		MaxTokens: 42,
	}, cfg)
}
