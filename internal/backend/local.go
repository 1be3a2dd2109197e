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

// LocalClient 调用本地推理服务的 /generate 接口
type LocalClient struct {
	baseURL     string
	client      *http.Client
	maxTokens   int
	temperature float32
}

type localGenerateRequest struct {
	Prompt       string  `json:"prompt"`
	ModelType    string  `json:"model_type"`
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float32 `json:"temperature"`
}

type localGenerateResponse struct {
	GeneratedCode string `json:"generated_code"`
}

func NewLocalClient(cfg config.LocalConfig, gen config.GenerationConfig) *LocalClient {
	return &LocalClient{
		baseURL:     cfg.BaseURL,
		client:      utils.NewHTTPClient(cfg.Timeout),
		maxTokens:   gen.MaxTokens,
		temperature: gen.Temperature,
	}
}

func (c *LocalClient) Generate(ctx context.Context, payload prompt.Payload, modelType string) (string, error) {
	body, err := json.Marshal(localGenerateRequest{
		Prompt:       payload.Flatten(),
		ModelType:    modelType,
		MaxNewTokens: c.maxTokens,
		Temperature:  c.temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &BackendError{Status: 0, Message: fmt.Sprintf("local inference request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Status: resp.StatusCode, Message: fmt.Sprintf("reading response body: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{Status: resp.StatusCode, Message: string(data)}
	}

	var out localGenerateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &BackendError{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response body: %v", err)}
	}
	if out.GeneratedCode == "" {
		return "", &BackendError{Status: resp.StatusCode, Message: "response missing generated_code"}
	}

	return out.GeneratedCode, nil
}
