package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"obstruction/internal/room"
)

// Hub fans room events out to every websocket subscribed to that room.
type Hub struct {
	// mu also serialises writes; a gorilla conn allows one writer at a time.
	mu          sync.Mutex
	rooms       map[string]map[*websocket.Conn]struct{}
	roomManager RoomManager
}

func NewHub(roomManager RoomManager) *Hub {
	return &Hub{
		rooms:       make(map[string]map[*websocket.Conn]struct{}),
		roomManager: roomManager,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

type message struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

type moveData struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (h *Hub) HandleWS(c *gin.Context) {
	roomCode := c.Query("roomCode")
	if roomCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing roomCode"})
		return
	}
	if _, ok := h.roomManager.Get(roomCode); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("room", roomCode).Msg("ws-upgrade-failed")
		return
	}
	log.Info().Str("room", roomCode).Msg("ws-connected")

	h.mu.Lock()
	if _, ok := h.rooms[roomCode]; !ok {
		h.rooms[roomCode] = make(map[*websocket.Conn]struct{})
	}
	h.rooms[roomCode][conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.rooms[roomCode], conn)
		if len(h.rooms[roomCode]) == 0 {
			delete(h.rooms, roomCode)
		}
		h.mu.Unlock()
		_ = conn.Close()
		log.Info().Str("room", roomCode).Msg("ws-disconnected")
	}()

	// outlives the hijacked request
	ctx := context.WithoutCancel(c.Request.Context())
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("room", roomCode).Msg("ws-read-failed")
			}
			return
		}

		switch msg.Action {
		case "human_move":
			err = h.handleHumanMove(ctx, roomCode, msg.Data)
		case "bot_move":
			_, err = h.roomManager.BotMove(ctx, roomCode)
		default:
			err = errors.New("unknown action: " + msg.Action)
		}
		if err != nil {
			log.Debug().Err(err).Str("room", roomCode).Str("action", msg.Action).Msg("ws-action-rejected")
			h.send(conn, "error", gin.H{"action": msg.Action, "error": err.Error()})
		}
	}
}

// handleHumanMove plays the human move and lets the computer answer while the
// round is still open. The manager broadcasts both moves.
func (h *Hub) handleHumanMove(ctx context.Context, roomCode string, data json.RawMessage) error {
	var move moveData
	if err := json.Unmarshal(data, &move); err != nil {
		return errors.New("invalid move data")
	}
	out, err := h.roomManager.ApplyMove(ctx, roomCode, move.Row, move.Col)
	if err != nil {
		return err
	}
	if out.Winner != "" || out.Room.Turn != room.SideComputer {
		return nil
	}
	_, err = h.roomManager.BotMove(ctx, roomCode)
	return err
}

func (h *Hub) Broadcast(roomCode string, action string, data interface{}) {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[roomCode]
	if !ok {
		return
	}

	msg := map[string]interface{}{
		"action": action,
		"data":   data,
	}
	for conn := range clients {
		if err := conn.WriteJSON(msg); err != nil {
			log.Error().Err(err).Str("room", roomCode).Str("action", action).Msg("ws-send-failed")
			conn.Close()
			delete(clients, conn)
		}
	}
}

func (h *Hub) send(conn *websocket.Conn, action string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := conn.WriteJSON(map[string]interface{}{"action": action, "data": data}); err != nil {
		log.Error().Err(err).Str("action", action).Msg("ws-send-failed")
	}
}

// Subscribers reports how many sockets listen on a room.
func (h *Hub) Subscribers(roomCode string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomCode])
}
