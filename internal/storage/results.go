package storage

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"codecompare-backend/internal/model"
)

// ResultsCache 最近成功结果的只读回查缓存
// 只写不读，LRU 的淘汰顺序因此退化为先进先出
type ResultsCache struct {
	cache *lru.Cache[string, model.GenerationResult]
}

func NewResultsCache(capacity int) (*ResultsCache, error) {
	if capacity <= 0 {
		capacity = 10
	}
	cache, err := lru.New[string, model.GenerationResult](capacity)
	if err != nil {
		return nil, err
	}
	return &ResultsCache{cache: cache}, nil
}

func (c *ResultsCache) Add(key string, result model.GenerationResult) {
	c.cache.Add(key, result)
}

// Recent 按写入先后返回缓存内容
func (c *ResultsCache) Recent() []model.GenerationResult {
	return c.cache.Values()
}

func (c *ResultsCache) Len() int {
	return c.cache.Len()
}
