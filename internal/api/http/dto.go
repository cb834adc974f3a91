package http

import "obstruction/internal/room"

// RoomRequest names the room for actions that need nothing else.
type RoomRequest struct {
	RoomCode string `json:"roomCode" binding:"required"`
}

// MoveRequest represents a human move at a zero-based coordinate.
type MoveRequest struct {
	RoomCode string `json:"roomCode" binding:"required"`
	Row      *int   `json:"row" binding:"required"`
	Col      *int   `json:"col" binding:"required"`
}

// MoveResponse carries the human move and, when the round is still open,
// the computer's answer.
type MoveResponse struct {
	Player   room.Outcome  `json:"player"`
	Computer *room.Outcome `json:"computer,omitempty"`
	Room     room.View     `json:"room"`
}
