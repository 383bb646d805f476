package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deskpilot/deskpilot/internal/schema"
)

const defaultAPIBase = "https://api.openai.com/v1"

// OpenAIGateway streams chat completions from any OpenAI-compatible endpoint.
type OpenAIGateway struct {
	apiKey       string
	apiBase      string
	defaultModel string
	extraHeaders map[string]string
	gateway      *ProviderSpec // non-nil for gateway/local providers
	spec         *ProviderSpec // non-nil for standard providers
	httpClient   *http.Client
}

// NewOpenAIGateway constructs a gateway from raw config values.
// The caller extracts these from config.Config to avoid an import cycle.
func NewOpenAIGateway(
	apiKey, apiBase, defaultModel, providerName string,
	extraHeaders map[string]string,
) *OpenAIGateway {
	gateway := FindGateway(providerName, apiKey, apiBase)

	var spec *ProviderSpec
	if gateway == nil {
		spec = FindByName(providerName)
		if spec == nil {
			spec = FindByModel(defaultModel)
		}
	}

	effectiveBase := apiBase
	if effectiveBase == "" {
		switch {
		case gateway != nil && gateway.DefaultAPIBase != "":
			effectiveBase = gateway.DefaultAPIBase
		case spec != nil && spec.DefaultAPIBase != "":
			effectiveBase = spec.DefaultAPIBase
		default:
			effectiveBase = defaultAPIBase
		}
	}

	return &OpenAIGateway{
		apiKey:       apiKey,
		apiBase:      strings.TrimRight(effectiveBase, "/"),
		defaultModel: defaultModel,
		extraHeaders: extraHeaders,
		gateway:      gateway,
		spec:         spec,
		// No overall timeout: a streamed answer may legitimately take minutes.
		httpClient: &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 120 * time.Second,
		}},
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func (p *OpenAIGateway) WithHTTPClient(c *http.Client) *OpenAIGateway {
	p.httpClient = c
	return p
}

func (p *OpenAIGateway) DefaultModel() string { return p.defaultModel }

func (p *OpenAIGateway) APIBase() string { return p.apiBase }

// Generate implements schema.ModelGateway.
func (p *OpenAIGateway) Generate(
	ctx context.Context,
	history schema.Messages,
	tools []schema.ToolDescriptor,
	opts schema.ChatOptions,
) (<-chan schema.Fragment, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	body := map[string]any{
		"model":          p.resolveModel(model),
		"messages":       sanitizeMessages(history),
		"max_tokens":     maxTokens,
		"temperature":    opts.Temperature,
		"stream":         true,
		"stream_options": map[string]any{"include_usage": true},
	}
	if len(tools) > 0 {
		wire := make([]map[string]any, len(tools))
		for i, d := range tools {
			wire[i] = d.ToWireMap()
		}
		body["tools"] = wire
		body["tool_choice"] = "auto"
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, &schema.GenerationError{Op: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, &schema.GenerationError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	for k, v := range p.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &schema.GenerationError{Op: "http request", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, &schema.GenerationError{
			Op:  "http status",
			Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, friendlyHTTPError(resp.StatusCode, raw)),
		}
	}

	out := make(chan schema.Fragment, 16)
	go readStream(ctx, resp.Body, out)
	return out, nil
}

// resolveModel strips routing prefixes so the API receives the model name it expects.
func (p *OpenAIGateway) resolveModel(model string) string {
	if p.gateway != nil {
		if p.gateway.StripModelPrefix {
			if i := strings.LastIndex(model, "/"); i >= 0 {
				return model[i+1:]
			}
		}
		return model
	}
	if p.spec != nil {
		full := p.spec.Name + "/"
		if strings.HasPrefix(strings.ToLower(model), full) {
			return model[len(full):]
		}
	}
	return model
}

// messageToWireMap converts a typed Message to the OpenAI wire-format map.
func messageToWireMap(m schema.Message) map[string]any {
	wire := map[string]any{
		"role":    m.Role,
		"content": m.Content,
	}
	switch m.Role {
	case schema.RoleAssistant:
		if len(m.ToolCalls) > 0 {
			// Strict providers require "content" even for tool-call-only messages.
			if m.Content == "" {
				wire["content"] = nil
			}
			raw := make([]map[string]any, len(m.ToolCalls))
			for i, tc := range m.ToolCalls {
				raw[i] = tc.ToWireMap()
			}
			wire["tool_calls"] = raw
		}
	case schema.RoleTool:
		wire["tool_call_id"] = m.ToolCallID
		wire["name"] = m.ToolName
	}
	return wire
}

// sanitizeMessages converts history to wire format. Tool calls left without a
// result by an aborted turn are dropped so the request stays valid.
func sanitizeMessages(messages schema.Messages) []map[string]any {
	msgs := messages.Messages
	out := make([]map[string]any, 0, len(msgs))
	for i, m := range msgs {
		if m.Role == schema.RoleAssistant && len(m.ToolCalls) > 0 {
			m.ToolCalls = answeredCalls(m.ToolCalls, msgs[i+1:])
		}
		out = append(out, messageToWireMap(m))
	}
	return out
}

func answeredCalls(calls []schema.ToolCall, following []schema.Message) []schema.ToolCall {
	answered := make(map[string]bool)
	for _, m := range following {
		if m.Role != schema.RoleTool {
			break
		}
		answered[m.ToolCallID] = true
	}

	kept := make([]schema.ToolCall, 0, len(calls))
	for _, tc := range calls {
		if answered[tc.ID] {
			kept = append(kept, tc)
		}
	}
	return kept
}

func friendlyHTTPError(code int, body []byte) string {
	if code == http.StatusTooManyRequests {
		return "rate limit exceeded"
	}
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
