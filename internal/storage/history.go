package storage

import (
	"sync"

	"codecompare-backend/internal/model"
)

// HistoryStore 容量固定的对话历史，满员时淘汰最旧一条
// 追加和清空会触发变更回调，读取方拿到的都是快照副本
type HistoryStore struct {
	mu       sync.RWMutex
	turns    []model.ConversationTurn
	capacity int
	onChange func()
}

func NewHistoryStore(capacity int) *HistoryStore {
	if capacity <= 0 {
		capacity = 10
	}
	return &HistoryStore{
		turns:    make([]model.ConversationTurn, 0, capacity),
		capacity: capacity,
	}
}

// SetOnChange 注册变更回调，回调在锁外执行
func (s *HistoryStore) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *HistoryStore) Append(turn model.ConversationTurn) {
	s.mu.Lock()
	if len(s.turns) >= s.capacity {
		s.turns = s.turns[1:]
	}
	s.turns = append(s.turns, turn)
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Window 返回最近 n 条，按时间先后排列
func (s *HistoryStore) Window(n int) []model.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.turns) {
		n = len(s.turns)
	}
	window := make([]model.ConversationTurn, n)
	copy(window, s.turns[len(s.turns)-n:])
	return window
}

// Snapshot 返回全部历史的副本
func (s *HistoryStore) Snapshot() []model.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]model.ConversationTurn, len(s.turns))
	copy(snapshot, s.turns)
	return snapshot
}

func (s *HistoryStore) Clear() {
	s.mu.Lock()
	s.turns = s.turns[:0]
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}
