package ws

import (
	"sync"
	"time"

	"concentration/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

type Client struct {
	SessionID string
	PlayerID  string
	Conn      *websocket.Conn
	Send      chan []byte

	Hub  *Hub
	Room *Room

	mu     sync.Mutex
	closed bool
}

func NewClient(sessionID, playerID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		SessionID: sessionID,
		PlayerID:  playerID,
		Conn:      conn,
		Send:      make(chan []byte, 64),
		Hub:       hub,
	}
}

// Run регистрирует клиента в комнате и читает сообщения до разрыва соединения
func (c *Client) Run(dispatch func(*Client, []byte)) {
	// writer первым, чтобы ready ушел сразу
	go c.writePump()

	c.Room = c.Hub.Join(c)
	send(c, Message{Type: MsgReady})

	c.readPump(dispatch)
}

// enqueue кладет сообщение в очередь записи, не блокируясь.
// После close или при полной очереди сообщение отбрасывается
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		logger.Warn("ws send queue full, dropping message", "session", c.SessionID, "player", c.PlayerID)
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// read
func (c *Client) readPump(dispatch func(*Client, []byte)) {
	defer func() {
		c.Hub.Leave(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read failed", "session", c.SessionID, "error", err)
			}
			return
		}
		dispatch(c, msg)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("ws write failed", "session", c.SessionID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
