package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"codecompare-backend/internal/model"
	"codecompare-backend/internal/storage"
	"codecompare-backend/pkg/logger"
)

const descriptionLimit = 120

// dispatcher CompareService 对调度引擎的最小依赖
type dispatcher interface {
	Dispatch(ctx context.Context, promptText, language, modelID string) (string, error)
}

// CompareService 并行比较执行器
// 批次整体校验后按请求并发调度，结果保持输入顺序，
// 成功结果写入历史（触发广播）和最近结果缓存
type CompareService struct {
	dispatcher dispatcher
	history    *storage.HistoryStore
	results    *storage.ResultsCache
	languages  map[string]struct{}
}

func NewCompareService(d dispatcher, history *storage.HistoryStore, results *storage.ResultsCache, allowedLanguages []string) *CompareService {
	languages := make(map[string]struct{}, len(allowedLanguages))
	for _, l := range allowedLanguages {
		languages[l] = struct{}{}
	}
	return &CompareService{
		dispatcher: d,
		history:    history,
		results:    results,
		languages:  languages,
	}
}

// Compare 校验失败时不做任何调度；直通请求立即回显；
// 各条调度相互独立，单条失败只体现在自己的结果里
func (s *CompareService) Compare(ctx context.Context, reqs []model.CodeRequest) ([]model.GenerationResult, error) {
	if err := s.validate(reqs); err != nil {
		return nil, err
	}

	results := make([]model.GenerationResult, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		if req.IsPassthrough() {
			results[i] = model.GenerationResult{
				Model:     req.Model,
				Language:  req.Language,
				Code:      req.Code,
				Prompt:    req.Prompt,
				Timestamp: time.Now(),
			}
			continue
		}

		wg.Add(1)
		go func(i int, req model.CodeRequest) {
			defer wg.Done()
			results[i] = s.dispatchOne(ctx, req)
		}(i, req)
	}

	wg.Wait()
	return results, nil
}

func (s *CompareService) validate(reqs []model.CodeRequest) error {
	for _, req := range reqs {
		if _, ok := s.languages[req.Language]; !ok {
			return fmt.Errorf("%w: %q", model.ErrUnsupportedLanguage, req.Language)
		}
	}

	// 结果按模型标识回归请求，同一批次内不允许重复
	seen := make(map[string]struct{})
	for _, req := range reqs {
		if req.IsPassthrough() {
			continue
		}
		if _, dup := seen[req.Model]; dup {
			return fmt.Errorf("%w: %q", model.ErrDuplicateModel, req.Model)
		}
		seen[req.Model] = struct{}{}
	}

	return nil
}

func (s *CompareService) dispatchOne(ctx context.Context, req model.CodeRequest) model.GenerationResult {
	result := model.GenerationResult{
		Model:     req.Model,
		Language:  req.Language,
		Prompt:    req.Prompt,
		Timestamp: time.Now(),
	}

	code, err := s.dispatcher.Dispatch(ctx, req.Prompt, req.Language, req.Model)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Code = code
	s.record(req, result)
	return result
}

// record 成功结果进历史和回查缓存，历史追加自带广播
func (s *CompareService) record(req model.CodeRequest, result model.GenerationResult) {
	turn := model.ConversationTurn{
		ID:          uuid.NewString(),
		Timestamp:   result.Timestamp,
		Prompt:      req.Prompt,
		Language:    req.Language,
		Model:       req.Model,
		Code:        result.Code,
		Description: describe(req.Prompt),
	}
	s.history.Append(turn)
	s.results.Add(turn.ID, result)
	logger.Debugf("recorded turn %s for model %s", turn.ID, req.Model)
}

// Execute 单条请求的校验/执行，不经过调度引擎
func (s *CompareService) Execute(req model.CodeRequest) (string, error) {
	if _, ok := s.languages[req.Language]; !ok {
		return "", fmt.Errorf("%w: %q", model.ErrUnsupportedLanguage, req.Language)
	}

	switch req.Language {
	case "manim":
		return "Manim execution not implemented yet", nil
	case "javascript":
		return "JavaScript execution not implemented yet", nil
	default:
		// html 和 css 原样返回
		return req.Code, nil
	}
}

// History 当前历史快照
func (s *CompareService) History() []model.ConversationTurn {
	return s.history.Snapshot()
}

// ClearHistory 清空历史，触发广播
func (s *CompareService) ClearHistory() {
	s.history.Clear()
}

// RecentResults 最近成功结果，按写入先后排列
func (s *CompareService) RecentResults() []model.GenerationResult {
	return s.results.Recent()
}

func describe(promptText string) string {
	if len(promptText) <= descriptionLimit {
		return promptText
	}
	return promptText[:descriptionLimit] + "..."
}
