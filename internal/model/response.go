package model

import "time"

// ConversationTurn 历史记录中的一次完整交互，创建后不可变
type ConversationTurn struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Prompt      string    `json:"prompt"`
	Language    string    `json:"language"`
	Model       string    `json:"model"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
}

// GenerationResult 单条请求的最终结果
// 完成时 Code 与 Error 恰好只有一个非空
type GenerationResult struct {
	Model     string    `json:"model"`
	Language  string    `json:"language"`
	Code      string    `json:"code,omitempty"`
	Prompt    string    `json:"prompt,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// CompareResponse 比较调用的响应，Results 与请求批次同序等长
type CompareResponse struct {
	Results []GenerationResult `json:"results"`
	Error   string             `json:"error,omitempty"`
}

// ExecuteResponse 单条 execute 调用的响应
type ExecuteResponse struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

// TranscribeResponse 转写服务响应
type TranscribeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}
