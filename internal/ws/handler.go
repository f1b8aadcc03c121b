package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"concentration/internal/logger"
	"concentration/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// содержит зависимости для обработки WebSocket
type WSHandler struct {
	Hub           *Hub
	Games         *service.ConcentrationService
	Tokens        *service.TokenIssuer
	AllowedOrigin string
}

func NewWSHandler(hub *Hub, games *service.ConcentrationService, tokens *service.TokenIssuer, allowedOrigin string) *WSHandler {
	return &WSHandler{
		Hub:           hub,
		Games:         games,
		Tokens:        tokens,
		AllowedOrigin: allowedOrigin,
	}
}

func (h *WSHandler) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		claims, err := h.Tokens.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if _, err := h.Games.GetGame(c.Request.Context(), claims.SessionID()); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}

		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if h.AllowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == h.AllowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		client := NewClient(claims.SessionID(), claims.PlayerID, conn, h.Hub)
		go func() {
			client.Run(h.HandleMessage)
		}()
	}
}

// HandleMessage обрабатывает одно входящее сообщение клиента
func (h *WSHandler) HandleMessage(c *Client, raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		send(c, Message{Type: MsgError, Payload: gin.H{"error": "malformed message"}})
		return
	}

	// соединение живет дольше http запроса, поэтому свой контекст
	ctx := context.Background()

	switch msg.Type {
	case MsgState:
		g, err := h.Games.GetGame(ctx, c.SessionID)
		if err != nil {
			send(c, Message{Type: MsgError, Payload: gin.H{"error": err.Error()}})
			return
		}
		send(c, Message{Type: MsgState, Payload: g.State()})

	case MsgPick:
		res, g, err := h.Games.Pick(ctx, c.SessionID, msg.Row, msg.Col)
		if err != nil {
			send(c, Message{Type: MsgError, Payload: gin.H{"error": err.Error()}})
			return
		}
		h.Hub.Broadcast(c.SessionID, Message{Type: MsgTurn, Payload: gin.H{
			"result": res,
			"game":   g.State(),
		}})

	default:
		send(c, Message{Type: MsgError, Payload: gin.H{"error": "unknown message type: " + msg.Type}})
	}
}
