package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"obstruction/internal/game"
	"obstruction/internal/room"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrNotYourTurn),
		errors.Is(err, room.ErrRoundOver),
		errors.Is(err, room.ErrRoundInProgress):
		return http.StatusConflict
	case errors.Is(err, game.ErrOutOfBounds), errors.Is(err, game.ErrCellOccupied):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request-failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// @Summary Create new room
// @Description Open a room for one human (X) against the computer (O)
// @Tags Room
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /create-room [post]
func CreateRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := rm.CreateRoom(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomCode": r.Code, "room": r.View()})
	}
}

// @Summary Get room state
// @Tags Room
// @Produce json
// @Param roomCode query string true "Room Code"
// @Success 200 {object} map[string]interface{}
// @Router /room [get]
func GetRoomHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := rm.Get(c.Query("roomCode"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": r.View()})
	}
}

// @Summary Get possible moves
// @Description Returns every empty cell with the number of cells it would block
// @Tags Game
// @Produce json
// @Param roomCode query string true "Room Code"
// @Success 200 {object} map[string]interface{}
// @Router /possible-moves [get]
func PossibleMovesHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cands, err := rm.PossibleMoves(c.Query("roomCode"))
		if err != nil {
			fail(c, err)
			return
		}
		if cands == nil {
			cands = game.Candidates{}
		}
		c.JSON(http.StatusOK, gin.H{"moves": cands, "best": cands.Best()})
	}
}

// @Summary Player makes a move
// @Description Place X at (row, col); the computer answers while the round is open
// @Tags Game
// @Accept json
// @Produce json
// @Param request body MoveRequest true "Move data"
// @Success 200 {object} MoveResponse
// @Router /move [post]
func MoveHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MoveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode, row and col required"})
			return
		}
		ctx := c.Request.Context()
		out, err := rm.ApplyMove(ctx, req.RoomCode, *req.Row, *req.Col)
		if err != nil {
			fail(c, err)
			return
		}
		resp := MoveResponse{Player: out, Room: out.Room}
		if out.Winner == "" {
			reply, err := rm.BotMove(ctx, req.RoomCode)
			if err != nil {
				fail(c, err)
				return
			}
			resp.Computer = &reply
			resp.Room = reply.Room
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary Let the computer move
// @Description Used when the computer starts a round
// @Tags Game
// @Accept json
// @Produce json
// @Param request body RoomRequest true "Room"
// @Success 200 {object} map[string]interface{}
// @Router /move-bot [post]
func MoveBotHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode required"})
			return
		}
		out, err := rm.BotMove(c.Request.Context(), req.RoomCode)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Start the next round
// @Description The winner of the finished round moves first
// @Tags Room
// @Accept json
// @Produce json
// @Param request body RoomRequest true "Room"
// @Success 200 {object} map[string]interface{}
// @Router /next-round [post]
func NextRoundHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomCode required"})
			return
		}
		v, err := rm.NextRound(c.Request.Context(), req.RoomCode)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": v})
	}
}

// @Summary List finished rounds
// @Tags Room
// @Produce json
// @Param limit query int false "Maximum rounds (default 20)"
// @Success 200 {object} map[string]interface{}
// @Router /rounds [get]
func RoundsHandler(rm *room.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}
		rounds, err := rm.Rounds(c.Request.Context(), limit)
		if err != nil {
			fail(c, err)
			return
		}
		if rounds == nil {
			rounds = []room.RoundRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"rounds": rounds})
	}
}
