package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codecompare-backend/internal/config"
	"codecompare-backend/internal/prompt"
)

var testPayload = prompt.Payload{
	System:     "system preamble",
	Transcript: "",
	User:       "draw a circle",
}

func genConfig() config.GenerationConfig {
	return config.GenerationConfig{MaxTokens: 3600, Temperature: 0.8}
}

func TestLocalClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "finetuned", req["model_type"])
		assert.Equal(t, float64(3600), req["max_new_tokens"])
		assert.Contains(t, req["prompt"], "draw a circle")

		json.NewEncoder(w).Encode(map[string]string{"generated_code": "class Circle(Scene): pass"})
	}))
	defer server.Close()

	client := NewLocalClient(config.LocalConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, genConfig())

	code, err := client.Generate(context.Background(), testPayload, "finetuned")
	require.NoError(t, err)
	assert.Equal(t, "class Circle(Scene): pass", code)
}

func TestLocalClientNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewLocalClient(config.LocalConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, genConfig())

	_, err := client.Generate(context.Background(), testPayload, "finetuned")
	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusServiceUnavailable, backendErr.Status)
}

func TestLocalClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewLocalClient(config.LocalConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, genConfig())

	_, err := client.Generate(context.Background(), testPayload, "finetuned")
	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
}

func TestAnthropicClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-5-sonnet-20241022", req.Model)
		assert.Equal(t, "system preamble", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "<p>hello</p>"}},
		})
	}))
	defer server.Close()

	client := NewAnthropicClient(config.AnthropicConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Version: "2023-06-01",
		Timeout: 5 * time.Second,
	}, genConfig())

	code, err := client.Generate(context.Background(), testPayload, "claude-3-5-sonnet-20241022")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", code)
}

func TestAnthropicClientEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	}))
	defer server.Close()

	client := NewAnthropicClient(config.AnthropicConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Version: "2023-06-01",
		Timeout: 5 * time.Second,
	}, genConfig())

	_, err := client.Generate(context.Background(), testPayload, "claude-3-5-sonnet-20241022")
	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
}

func TestRouterClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer router-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek/deepseek-chat", req["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": "const x = 1;"}}},
		})
	}))
	defer server.Close()

	client := NewRouterClient(config.OpenRouterConfig{
		APIKey:  "router-key",
		BaseURL: server.URL + "/v1",
		Timeout: 5 * time.Second,
	}, genConfig())

	code, err := client.Generate(context.Background(), testPayload, "deepseek/deepseek-chat")
	require.NoError(t, err)
	assert.Equal(t, "const x = 1;", code)
}

func TestRouterClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-2",
			"object":  "chat.completion",
			"choices": []any{},
		})
	}))
	defer server.Close()

	client := NewRouterClient(config.OpenRouterConfig{
		APIKey:  "router-key",
		BaseURL: server.URL + "/v1",
		Timeout: 5 * time.Second,
	}, genConfig())

	_, err := client.Generate(context.Background(), testPayload, "deepseek/deepseek-chat")
	var backendErr *BackendError
	require.ErrorAs(t, err, &backendErr)
}
