package model

// CodeRequest 单条代码生成/执行请求
// Model 和 Prompt 任一为空时视为直通请求，不会进入调度引擎
type CodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language" binding:"required"`
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
}

// IsPassthrough 缺少模型或提示词的请求按原样回显
func (r CodeRequest) IsPassthrough() bool {
	return r.Model == "" || r.Prompt == ""
}
