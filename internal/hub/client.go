package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"codecompare-backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// inboundMessage 观看端主动发来的控制消息
type inboundMessage struct {
	Type string `json:"type"`
}

// Client 一个在线观看端连接
// 写统一走 writePump，读走 readPump，hub 通过 done 通知退出
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	outbound chan []byte
	done     chan struct{}
}

func NewClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		outbound: make(chan []byte, 32),
		done:     make(chan struct{}),
	}
}

// ReadPump 处理 ping 和 get_history，两者都只回给当前连接，不触发全体广播
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("viewer read error: %v", err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Debugf("ignoring malformed viewer message: %v", err)
			continue
		}

		switch msg.Type {
		case "ping":
			c.reply([]byte(`{"type":"pong"}`))
		case "get_history":
			c.reply(c.hub.snapshotMessage())
		}
	}
}

// reply 连接已被 hub 剔除时静默丢弃
func (c *Client) reply(message []byte) {
	select {
	case <-c.done:
	case c.outbound <- message:
	default:
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.outbound:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}
