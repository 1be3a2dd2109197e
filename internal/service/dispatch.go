package service

import (
	"context"

	"codecompare-backend/internal/backend"
	"codecompare-backend/internal/model"
	"codecompare-backend/internal/prompt"
	"codecompare-backend/internal/storage"
	"codecompare-backend/pkg/logger"
)

// backendSet 调度引擎对后端集合的最小依赖，便于测试替换
type backendSet interface {
	Generate(ctx context.Context, target backend.Target, payload prompt.Payload) (string, error)
}

// Dispatcher 单条请求的调度引擎：解析一次，受限重试
type Dispatcher struct {
	backends backendSet
	builder  *prompt.Builder
	history  *storage.HistoryStore
	window   int
	attempts int
}

func NewDispatcher(backends backendSet, builder *prompt.Builder, history *storage.HistoryStore, window, attempts int) *Dispatcher {
	if attempts <= 0 {
		attempts = 3
	}
	return &Dispatcher{
		backends: backends,
		builder:  builder,
		history:  history,
		window:   window,
		attempts: attempts,
	}
}

// Dispatch 解析失败（模型不受支持）立即返回，不消耗重试次数；
// 后端失败最多重试到次数上限，每次尝试都基于当前历史重建载荷
func (d *Dispatcher) Dispatch(ctx context.Context, promptText, language, modelID string) (string, error) {
	target, err := backend.Resolve(modelID, language)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		payload := d.builder.Build(d.history.Window(d.window), promptText, language)

		code, err := d.backends.Generate(ctx, target, payload)
		if err == nil {
			if attempt > 1 {
				logger.Infof("model %s succeeded on attempt %d/%d", modelID, attempt, d.attempts)
			}
			return code, nil
		}

		lastErr = err
		logger.Warnf("model %s attempt %d/%d failed: %v", modelID, attempt, d.attempts, err)
	}

	return "", &model.GenerationFailed{Model: modelID, Attempts: d.attempts, Err: lastErr}
}
