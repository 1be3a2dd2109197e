package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage 批次内任一语言不在白名单，整批在调度前失败
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrUnsupportedModel 模型标识无法解析到任何后端，不参与重试
	ErrUnsupportedModel = errors.New("unsupported model")
	// ErrDuplicateModel 同一批次内两条可调度请求使用了相同的模型标识
	ErrDuplicateModel = errors.New("duplicate model in batch")
)

// GenerationFailed 重试次数耗尽后的终态错误，只影响对应请求
type GenerationFailed struct {
	Model    string
	Attempts int
	Err      error
}

func (e *GenerationFailed) Error() string {
	return fmt.Sprintf("generation failed for model %q after %d attempts: %v", e.Model, e.Attempts, e.Err)
}

func (e *GenerationFailed) Unwrap() error {
	return e.Err
}
