package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"codecompare-backend/internal/config"
	"codecompare-backend/internal/prompt"
	"codecompare-backend/internal/utils"
)

// AnthropicClient 调用托管聊天 API 的 messages 接口
// 完整上下文走 system 字段，messages 只放一条固定的用户轮次
type AnthropicClient struct {
	apiKey      string
	baseURL     string
	version     string
	client      *http.Client
	maxTokens   int
	temperature float32
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func NewAnthropicClient(cfg config.AnthropicConfig, gen config.GenerationConfig) *AnthropicClient {
	return &AnthropicClient{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		version:     cfg.Version,
		client:      utils.NewHTTPClient(cfg.Timeout),
		maxTokens:   gen.MaxTokens,
		temperature: gen.Temperature,
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, payload prompt.Payload, model string) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:       model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		System:      payload.System,
		Messages: []anthropicMessage{
			{Role: "user", Content: payload.UserWithContext()},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.version)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &BackendError{Status: 0, Message: fmt.Sprintf("anthropic request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Status: resp.StatusCode, Message: fmt.Sprintf("reading response body: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{Status: resp.StatusCode, Message: string(data)}
	}

	var out anthropicResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &BackendError{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response body: %v", err)}
	}
	if len(out.Content) == 0 || out.Content[0].Text == "" {
		return "", &BackendError{Status: resp.StatusCode, Message: "response missing content"}
	}

	return out.Content[0].Text, nil
}
