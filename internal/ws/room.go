package ws

import (
	"encoding/json"
	"sync"

	"concentration/internal/logger"
)

// Room все соединения, подключенные к одной партии (вкладки игрока, наблюдатели)
type Room struct {
	SessionID string
	clients   map[*Client]struct{}
	mu        sync.RWMutex
}

func NewRoom(sessionID string) *Room {
	return &Room{SessionID: sessionID, clients: make(map[*Client]struct{})}
}

// добавляет клиента, false если он уже в комнате
func (r *Room) add(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[c]; ok {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// удаляет клиента. Возвращает сколько осталось и был ли он в комнате
func (r *Room) remove(c *Client) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.clients[c]
	delete(r.clients, c)
	return len(r.clients), ok
}

func (r *Room) snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}

func (r *Room) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// broadcast отправляет сообщение всем клиентам комнаты
func (r *Room) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("room broadcast marshal failed", "session", r.SessionID, "error", err)
		return
	}

	// рассылаем без блокировки комнаты
	for _, c := range r.snapshot() {
		c.enqueue(data)
	}
}

// send отправляет сообщение одному клиенту
func send(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("ws send marshal failed", "session", c.SessionID, "error", err)
		return
	}
	c.enqueue(data)
}
