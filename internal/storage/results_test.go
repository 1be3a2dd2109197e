package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codecompare-backend/internal/model"
)

func TestResultsCacheEvictsOldestFirst(t *testing.T) {
	cache, err := NewResultsCache(10)
	require.NoError(t, err)

	for i := 1; i <= 12; i++ {
		cache.Add(fmt.Sprintf("r-%d", i), model.GenerationResult{
			Model: fmt.Sprintf("model-%d", i),
		})
	}

	recent := cache.Recent()
	require.Len(t, recent, 10)

	// 只写不读，淘汰顺序即写入顺序
	assert.Equal(t, "model-3", recent[0].Model)
	assert.Equal(t, "model-12", recent[9].Model)
}
