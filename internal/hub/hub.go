package hub

import (
	"encoding/json"

	"codecompare-backend/internal/model"
	"codecompare-backend/pkg/logger"
)

// historyUpdate 推送给所有观看端的历史快照
type historyUpdate struct {
	Type string                   `json:"type"`
	Data []model.ConversationTurn `json:"data"`
}

// Hub 维护在线观看端集合并向它们推送历史变更
// 集合只由 Run 协程改动，注册、注销、广播都经由通道串行化
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	snapshot   func() []model.ConversationTurn
}

// NewHub snapshot 提供当前历史的副本，Hub 自身不持有历史
func NewHub(snapshot func() []model.ConversationTurn) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 8),
		snapshot:   snapshot,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			// 新观看端立即收到注册时刻的快照
			h.send(client, h.snapshotMessage())
			logger.Infof("viewer connected, %d online", len(h.clients))

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.broadcast:
			for client := range h.clients {
				h.send(client, message)
			}
		}
	}
}

// send 发送失败（缓冲已满）的观看端当场剔除，不影响其余观看端
func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.outbound <- message:
	default:
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.done)
	logger.Infof("viewer disconnected, %d online", len(h.clients))
}

// Register 连接建立后调用
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 连接关闭或写失败后调用，重复注销无害
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastHistory 向所有观看端推送当前历史快照
func (h *Hub) BroadcastHistory() {
	h.broadcast <- h.snapshotMessage()
}

func (h *Hub) snapshotMessage() []byte {
	turns := h.snapshot()
	if turns == nil {
		turns = []model.ConversationTurn{}
	}
	message, err := json.Marshal(historyUpdate{Type: "history_update", Data: turns})
	if err != nil {
		logger.Errorf("failed to marshal history snapshot: %v", err)
		return []byte(`{"type":"history_update","data":[]}`)
	}
	return message
}
