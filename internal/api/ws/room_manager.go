package ws

import (
	"context"

	"obstruction/internal/room"
)

type RoomManager interface {
	Get(roomCode string) (*room.Room, bool)
	ApplyMove(ctx context.Context, roomCode string, row, col int) (room.Outcome, error)
	BotMove(ctx context.Context, roomCode string) (room.Outcome, error)
}
