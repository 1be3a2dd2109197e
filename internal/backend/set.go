package backend

import (
	"context"
	"fmt"

	"codecompare-backend/internal/config"
	"codecompare-backend/internal/prompt"
)

// Generator 所有后端适配器的统一出口
type Generator interface {
	Generate(ctx context.Context, payload prompt.Payload, model string) (string, error)
}

// Set 三个后端变体的固定集合，按解析出的 Target 分发
type Set struct {
	local     Generator
	anthropic Generator
	router    Generator
}

func NewSet(cfg *config.Config) *Set {
	return &Set{
		local:     NewLocalClient(cfg.Local, cfg.Generation),
		anthropic: NewAnthropicClient(cfg.Anthropic, cfg.Generation),
		router:    NewRouterClient(cfg.OpenRouter, cfg.Generation),
	}
}

func (s *Set) Generate(ctx context.Context, target Target, payload prompt.Payload) (string, error) {
	switch target.Kind {
	case KindLocal:
		return s.local.Generate(ctx, payload, target.Model)
	case KindAnthropic:
		return s.anthropic.Generate(ctx, payload, target.Model)
	case KindRouter:
		return s.router.Generate(ctx, payload, target.Model)
	default:
		return "", fmt.Errorf("unknown backend kind %d", target.Kind)
	}
}
