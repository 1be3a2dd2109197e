package backend

import "fmt"

// BackendError 后端返回非成功状态或响应体无法解析
// 属于可重试错误，由调度引擎决定是否继续尝试
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}
