package main

import (
	"path/filepath"
	"testing"

	"github.com/abhishek-7-singh/qwen2-coder-extension/pkg/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCodeBlock(t *testing.T) {
	md := "Here you go:\n\n```go\npackage main\n\nfunc main() {}\n```\n\nI renamed things."

	assert.Equal(t, "package main\n\nfunc main() {}", extractCodeBlock(md))
}

func TestExtractCodeBlock_FirstBlockWins(t *testing.T) {
	md := "```\nfirst\n```\n\n```\nsecond\n```"

	assert.Equal(t, "first", extractCodeBlock(md))
}

func TestExtractCodeBlock_NoBlock(t *testing.T) {
	assert.Empty(t, extractCodeBlock("just prose"))
	assert.Empty(t, extractCodeBlock("```go\nunclosed fence"))
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := unifiedDiff("a\nb\n", "a\nc\n", "x.go")
	require.NoError(t, err)

	assert.Contains(t, diff, "--- x.go")
	assert.Contains(t, diff, "+++ x.go (refactored)")
	assert.Contains(t, diff, "-b")
	assert.Contains(t, diff, "+c")
}

func TestUnifiedDiff_IdenticalInputs(t *testing.T) {
	diff, err := unifiedDiff("same\n", "same", "x.go")
	require.NoError(t, err)
	assert.Empty(t, diff, "trailing-newline differences must not produce a diff")
}

func TestRenderMarkdown_PlainPassesThrough(t *testing.T) {
	assert.Equal(t, "# raw", renderMarkdown("# raw", true))
}

func TestOverrideSource(t *testing.T) {
	inner := gateway.StaticSource(gateway.Config{
		BaseURL:   "http://file:1",
		Mode:      gateway.ModeAuto,
		APIKey:    "k",
		MaxTokens: 256,
	})

	src := overrideSource{inner: inner, baseURL: "http://flag:2", mode: "simple"}

	cfg := src.GatewayConfig()
	assert.Equal(t, "http://flag:2", cfg.BaseURL)
	assert.Equal(t, gateway.ModeSimple, cfg.Mode)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, 256, cfg.MaxTokens)
}

func TestCommonFlags_GatewayRejectsUnknownMode(t *testing.T) {
	cf := &commonFlags{
		mode:       "streaming",
		envFile:    filepath.Join(t.TempDir(), ".env"),
		configPath: filepath.Join(t.TempDir(), "qwencoder.yaml"),
	}

	_, err := cf.gateway()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `-mode "streaming"`)
}

func TestCommonFlags_GatewayAcceptsKnownModes(t *testing.T) {
	for _, mode := range []string{"", "auto", "openai", "simple"} {
		cf := &commonFlags{
			mode:       mode,
			envFile:    filepath.Join(t.TempDir(), ".env"),
			configPath: filepath.Join(t.TempDir(), "qwencoder.yaml"),
		}

		_, err := cf.gateway()
		require.NoError(t, err, "mode %q", mode)
	}
}

func TestCommonFlags_Options(t *testing.T) {
	cf := &commonFlags{}
	assert.Nil(t, cf.options().MaxTokens)

	cf.maxTokens = 64
	opts := cf.options()
	require.NotNil(t, opts.MaxTokens)
	assert.Equal(t, 64, *opts.MaxTokens)
}
