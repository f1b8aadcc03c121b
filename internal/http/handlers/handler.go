package handlers

import (
	"errors"
	"net/http"
	"strings"

	"concentration/internal/game"
	"concentration/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ctxSessionID = "session_id"
	ctxPlayerID  = "player_id"
)

type Handler struct {
	Games  *service.ConcentrationService
	Tokens *service.TokenIssuer
}

func NewHandler(games *service.ConcentrationService, tokens *service.TokenIssuer) *Handler {
	return &Handler{Games: games, Tokens: tokens}
}

// RequireSession проверяет bearer токен и что он выдан на партию из пути
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		claims, err := h.Tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if id := c.Param("id"); id != "" && id != claims.SessionID() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is not valid for this game"})
			return
		}

		c.Set(ctxSessionID, claims.SessionID())
		c.Set(ctxPlayerID, claims.PlayerID)
		c.Next()
	}
}

func getPlayerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxPlayerID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// writeError переводит ошибки игры в http статусы
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errors.Is(err, game.ErrOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrInvalidSelection),
		errors.Is(err, game.ErrAlreadyPicked),
		errors.Is(err, game.ErrGameNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrConfiguration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
