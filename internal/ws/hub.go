package ws

import (
	"sync"

	"concentration/internal/logger"
	"concentration/internal/metrics"
)

// Hub комнаты по id партии
type Hub struct {
	rooms map[string]*Room
	mu    sync.Mutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*Room)}
}

// Join добавляет клиента в комнату его партии
func (h *Hub) Join(c *Client) *Room {
	h.mu.Lock()
	room, ok := h.rooms[c.SessionID]
	if !ok {
		room = NewRoom(c.SessionID)
		h.rooms[c.SessionID] = room
	}
	if room.add(c) {
		metrics.WSConnections.Inc()
	}
	h.mu.Unlock()

	logger.Debug("ws client joined", "session", c.SessionID, "player", c.PlayerID, "clients", room.size())
	return room
}

// Leave убирает клиента и закрывает его очередь. Пустая комната удаляется
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.SessionID]; ok {
		left, removed := room.remove(c)
		if removed {
			metrics.WSConnections.Dec()
		}
		if left == 0 {
			delete(h.rooms, c.SessionID)
		}
	}
	h.mu.Unlock()

	c.close()
	logger.Debug("ws client left", "session", c.SessionID, "player", c.PlayerID)
}

// Broadcast сообщение всем клиентам партии
func (h *Hub) Broadcast(sessionID string, msg Message) {
	h.mu.Lock()
	room, ok := h.rooms[sessionID]
	h.mu.Unlock()
	if ok {
		room.broadcast(msg)
	}
}

// Clients количество подключений к партии
func (h *Hub) Clients(sessionID string) int {
	h.mu.Lock()
	room, ok := h.rooms[sessionID]
	h.mu.Unlock()
	if !ok {
		return 0
	}
	return room.size()
}
