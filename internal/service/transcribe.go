package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"codecompare-backend/internal/config"
	"codecompare-backend/internal/model"
	"codecompare-backend/internal/utils"
)

// ErrTranscribeDisabled 未配置转写服务地址
var ErrTranscribeDisabled = errors.New("transcription service not configured")

// TranscribeService 外部 Whisper 转写服务的瘦客户端
// 转写本身在服务端完成，这里只负责上传音频并取回文本
type TranscribeService struct {
	baseURL string
	client  *http.Client
}

func NewTranscribeService(cfg config.WhisperConfig) *TranscribeService {
	return &TranscribeService{
		baseURL: cfg.BaseURL,
		client:  utils.NewHTTPClient(cfg.Timeout),
	}
}

func (s *TranscribeService) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if s.baseURL == "" {
		return "", ErrTranscribeDisabled
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transcribe", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription service returned status %d: %s", resp.StatusCode, data)
	}

	var out model.TranscribeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("malformed transcription response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("transcription failed: %s", out.Error)
	}

	return out.Text, nil
}
