package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient 各后端适配器共用的 HTTP 客户端
// Timeout 是单次调用的总上限，也是一次尝试最长的挂起时间
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
