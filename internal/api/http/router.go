package http

import (
	"github.com/gin-gonic/gin"

	"obstruction/internal/api/ws"
	"obstruction/internal/room"
)

func NewRouter(rm *room.Manager, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// WebSocket for FE live updates
	r.GET("/ws", hub.HandleWS)

	// --- ROOM ENDPOINTS ---
	r.POST("/create-room", CreateRoomHandler(rm))
	r.GET("/room", GetRoomHandler(rm))
	r.POST("/next-round", NextRoundHandler(rm))
	r.GET("/rounds", RoundsHandler(rm))

	// --- GAME ENDPOINTS ---
	r.GET("/possible-moves", PossibleMovesHandler(rm))
	r.POST("/move", MoveHandler(rm))
	r.POST("/move-bot", MoveBotHandler(rm))

	// --- CONFIG ENDPOINTS ---
	r.GET("/config", GetConfigHandler(rm.Config()))

	return r
}
