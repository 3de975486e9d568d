// Package gateway sends prompts to a locally hosted code-model HTTP service
// and normalizes its replies. The service may speak either the OpenAI Chat
// Completions wire format or a bare /generate endpoint; the gateway tries the
// chat format first (unless configured otherwise) and falls back to /generate
// when the primary attempt fails for any reason.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	chatCompletionsPath = "/v1/chat/completions"
	generatePath        = "/generate"

	// DefaultBaseURL points at the loopback inference server the extension
	// ships against.
	DefaultBaseURL = "http://127.0.0.1:8755"

	// DefaultMaxTokens is used when neither the call options nor the
	// configuration specify a token budget.
	DefaultMaxTokens = 1024

	// ModelName is the model identifier sent on chat-completions requests.
	// Local servers typically ignore it, but OpenAI-compatible ones require
	// the field to be present.
	ModelName = "qwen2.5-coder"
)

// DefaultPersona is the system message attached to every chat-completions
// request.
const DefaultPersona = "You are Qwen2.5-Coder, an expert coding assistant embedded in a code editor. " +
	"Answer concisely and put code in fenced blocks."

// Mode selects which wire format(s) the gateway uses.
type Mode string

const (
	// ModeAuto tries chat completions first and falls back to /generate.
	ModeAuto Mode = "auto"
	// ModeOpenAI tries chat completions first, same fallback as ModeAuto.
	ModeOpenAI Mode = "openai"
	// ModeSimple skips chat completions and only calls /generate.
	ModeSimple Mode = "simple"
)

// Config holds the per-call gateway settings.
type Config struct {
	BaseURL string // Service base URL; a trailing slash is stripped.
	Mode    Mode   // Wire format selection; empty means ModeAuto.
	APIKey  string // Sent as a bearer token when non-empty.

	// MaxTokens is the default token budget. Any non-zero value is passed
	// through to the wire as-is; 0 means unset and falls back to
	// DefaultMaxTokens.
	MaxTokens int
}

// ConfigSource supplies gateway configuration. It is consulted once per Call,
// so sources backed by mutable settings (a config file, editor settings) take
// effect on the next call without any invalidation machinery.
type ConfigSource interface {
	GatewayConfig() Config
}

// StaticSource is a ConfigSource that always returns the same Config.
type StaticSource Config

// GatewayConfig returns the wrapped Config.
func (s StaticSource) GatewayConfig() Config { return Config(s) }

// Options are per-call overrides.
type Options struct {
	// MaxTokens overrides the configured token budget. The value is passed
	// through as-is, including zero or negative values.
	MaxTokens *int

	// NumTokens is the older name for MaxTokens, still honored when
	// MaxTokens is unset.
	//
	// Deprecated: set MaxTokens instead.
	NumTokens *int
}

// CallError reports a failed /generate request. It is the only error kind the
// gateway surfaces for a responding service; primary-attempt failures are
// absorbed by the fallback.
type CallError struct {
	StatusCode int
	Body       string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("model call failed: status %d: %s", e.StatusCode, e.Body)
}

// Gateway translates prompts into normalized model responses.
type Gateway struct {
	Source  ConfigSource
	Persona string       // System message; empty means DefaultPersona.
	Client  *http.Client // HTTP client; falls back to http.DefaultClient.
}

// New creates a Gateway reading its configuration from src.
func New(src ConfigSource) *Gateway {
	return &Gateway{Source: src}
}

// Call sends prompt to the model service and returns the decoded raw
// response, suitable for ExtractText. When the configured mode allows it, the
// chat-completions endpoint is tried first; a 2xx reply short-circuits.
// Any primary failure (transport error or non-2xx status) is swallowed and
// the /generate endpoint is tried instead. Only a non-2xx /generate reply is
// surfaced to the caller, as a *CallError.
func (g *Gateway) Call(ctx context.Context, prompt string, opts Options) (any, error) {
	cfg := g.Source.GatewayConfig()

	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	mode := cfg.Mode
	if mode == "" {
		mode = ModeAuto
	}

	maxTokens := effectiveMaxTokens(opts, cfg)

	if mode == ModeOpenAI || mode == ModeAuto {
		raw, err := g.postChat(ctx, base, cfg.APIKey, prompt, maxTokens)
		if err == nil {
			return raw, nil
		}
		// Primary failures are not surfaced; the fallback's outcome is the
		// answer of record.
	}

	return g.postGenerate(ctx, base, cfg.APIKey, prompt, maxTokens)
}

// Text is a convenience wrapper combining Call and ExtractText.
func (g *Gateway) Text(ctx context.Context, prompt string, opts Options) (string, error) {
	raw, err := g.Call(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	return ExtractText(raw), nil
}

// effectiveMaxTokens resolves the token budget: call override, then the
// legacy alias, then configuration, then DefaultMaxTokens. Values pass
// through unvalidated at every level; only a zero (unset) Config.MaxTokens
// triggers the built-in default.
func effectiveMaxTokens(opts Options, cfg Config) int {
	if opts.MaxTokens != nil {
		return *opts.MaxTokens
	}
	if opts.NumTokens != nil {
		return *opts.NumTokens
	}
	if cfg.MaxTokens != 0 {
		return cfg.MaxTokens
	}
	return DefaultMaxTokens
}

// --- wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type generateRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// postChat performs the chat-completions attempt. Its error is consumed by
// Call and never reaches the caller.
func (g *Gateway) postChat(ctx context.Context, base, apiKey, prompt string, maxTokens int) (any, error) {
	persona := g.Persona
	if persona == "" {
		persona = DefaultPersona
	}

	body := chatRequest{
		Model: ModelName,
		Messages: []chatMessage{
			{Role: "system", Content: persona},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	}

	resp, err := g.postJSON(ctx, base+chatCompletionsPath, apiKey, body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("gateway: chat completions: unexpected status %d", resp.StatusCode)
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("gateway: chat completions: decode response: %w", err)
	}

	return raw, nil
}

// postGenerate performs the /generate attempt. A non-2xx reply becomes a
// *CallError carrying the status and body text; a 2xx reply is decoded as
// JSON when the Content-Type says so and wrapped as {"text": body} otherwise.
func (g *Gateway) postGenerate(ctx context.Context, base, apiKey, prompt string, maxTokens int) (any, error) {
	resp, err := g.postJSON(ctx, base+generatePath, apiKey, generateRequest{
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: generate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: generate: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &CallError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var raw any
		if err := json.Unmarshal(respBody, &raw); err == nil {
			return raw, nil
		}
		// Mislabeled body; fall through to the text wrapper.
	}

	return map[string]any{"text": string(respBody)}, nil
}

// postJSON marshals payload and POSTs it with the shared headers applied.
func (g *Gateway) postJSON(ctx context.Context, url, apiKey string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	return g.httpClient().Do(req)
}

func (g *Gateway) httpClient() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}
