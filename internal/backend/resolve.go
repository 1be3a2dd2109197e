package backend

import (
	"fmt"
	"strings"

	"codecompare-backend/internal/model"
)

// Kind 后端变体，解析后封闭不再扩展
type Kind int

const (
	// KindLocal 本地微调模型推理服务
	KindLocal Kind = iota
	// KindAnthropic 托管聊天 API
	KindAnthropic
	// KindRouter OpenAI 风格的路由聊天 API
	KindRouter
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindAnthropic:
		return "anthropic"
	case KindRouter:
		return "router"
	default:
		return "unknown"
	}
}

// Target 解析结果：后端变体加上该后端认识的具体模型名
type Target struct {
	Kind  Kind
	Model string
}

const routerDeepseekModel = "deepseek/deepseek-chat"

// Resolve 把用户侧模型标识映射到后端目标
// manim 语言固定走本地推理服务；claude 前缀走托管 API；
// deepseek 走路由 API；其余一律 ErrUnsupportedModel
func Resolve(modelID, language string) (Target, error) {
	if language == "manim" {
		return Target{Kind: KindLocal, Model: localModelType(modelID)}, nil
	}

	switch {
	case strings.HasPrefix(modelID, "claude"):
		return Target{Kind: KindAnthropic, Model: modelID}, nil
	case modelID == "deepseek":
		return Target{Kind: KindRouter, Model: routerDeepseekModel}, nil
	}

	return Target{}, fmt.Errorf("%w: %q for language %q", model.ErrUnsupportedModel, modelID, language)
}

// localModelType 推理服务只认识 base 和 finetuned 两种 model_type
func localModelType(modelID string) string {
	if modelID == "base" {
		return "base"
	}
	return "finetuned"
}
