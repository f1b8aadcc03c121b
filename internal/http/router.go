package http

import (
	nethttp "net/http"

	"concentration/internal/http/handlers"
	"concentration/internal/service"
	"concentration/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Games         *service.ConcentrationService
	Tokens        *service.TokenIssuer
	Hub           *ws.Hub
	AllowedOrigin string
	Version       string
}

// RegisterRoutes вешает REST, WebSocket и служебные маршруты на роутер
func RegisterRoutes(r *gin.Engine, deps RouterDeps) {
	h := handlers.NewHandler(deps.Games, deps.Tokens)
	hub := deps.Hub
	if hub == nil {
		hub = ws.NewHub()
	}
	wsHandler := ws.NewWSHandler(hub, deps.Games, deps.Tokens, deps.AllowedOrigin)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{
			"status":       "ok",
			"version":      deps.Version,
			"active_games": deps.Games.ActiveCount(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/concentration", wsHandler.HandleWS())

	api := r.Group("/api/concentration")
	api.POST("/games", h.StartGame)

	auth := api.Group("", h.RequireSession())
	auth.GET("/games/:id", h.GetGame)
	auth.GET("/games/:id/board", h.GetBoard)
	auth.POST("/games/:id/picks", h.Pick)
	auth.DELETE("/games/:id", h.Abandon)
	auth.GET("/history", h.History)
}
