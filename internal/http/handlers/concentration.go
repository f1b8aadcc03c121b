package handlers

import (
	"net/http"
	"strconv"

	"concentration/internal/game"

	"github.com/gin-gonic/gin"
)

type StartRequest struct {
	PlayerID string `json:"player_id"`
}

type StartResponse struct {
	Game  game.SessionView `json:"game"`
	Token string           `json:"token"`
}

// PickRequest указатели, чтобы отличить 0 от отсутствующего поля
type PickRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

type PickResponse struct {
	Result *game.TurnResult `json:"result"`
	Game   game.SessionView `json:"game"`
}

// StartGame создает партию и выдает токен на нее
func (h *Handler) StartGame(c *gin.Context) {
	var req StartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
	}

	g, err := h.Games.StartGame(c.Request.Context(), req.PlayerID)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := h.Tokens.Issue(g.ID, g.PlayerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StartResponse{Game: g.State(), Token: token})
}

// GetGame текущее состояние партии
func (h *Handler) GetGame(c *gin.Context) {
	g, err := h.Games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g.State())
}

// GetBoard текстовое представление поля
func (h *Handler) GetBoard(c *gin.Context) {
	g, err := h.Games.GetGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.String(http.StatusOK, g.Render())
}

// Pick открывает ячейку, второй выбор в ходе сравнивает пару
func (h *Handler) Pick(c *gin.Context) {
	var req PickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	res, g, err := h.Games.Pick(c.Request.Context(), c.Param("id"), *req.Row, *req.Col)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, PickResponse{Result: res, Game: g.State()})
}

// Abandon бросает партию
func (h *Handler) Abandon(c *gin.Context) {
	g, err := h.Games.Abandon(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g.State())
}

// History последние партии владельца токена
func (h *Handler) History(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	limit := 20
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	games, err := h.Games.History(c.Request.Context(), playerID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}
