package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"codecompare-backend/internal/config"
	"codecompare-backend/internal/prompt"
)

// RouterClient 调用 OpenAI 风格的路由聊天 API
type RouterClient struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
}

func NewRouterClient(cfg config.OpenRouterConfig, gen config.GenerationConfig) *RouterClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &RouterClient{
		client:      openai.NewClientWithConfig(clientConfig),
		maxTokens:   gen.MaxTokens,
		temperature: gen.Temperature,
	}
}

func (c *RouterClient) Generate(ctx context.Context, payload prompt.Payload, model string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: payload.System},
			{Role: openai.ChatMessageRoleUser, Content: payload.UserWithContext()},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &BackendError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return "", &BackendError{Status: 0, Message: fmt.Sprintf("router request failed: %v", err)}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &BackendError{Status: 200, Message: "response missing choices"}
	}

	return resp.Choices[0].Message.Content, nil
}
