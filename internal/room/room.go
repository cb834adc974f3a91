package room

import (
	"context"
	"sync"
	"time"

	"obstruction/internal/game"
)

// Side is who plays a mark in a room: the human always plays X.
type Side string

const (
	SidePlayer   Side = "player"
	SideComputer Side = "computer"
)

func (s Side) Mark() game.Cell {
	if s == SidePlayer {
		return game.CellX
	}
	return game.CellO
}

func (s Side) Other() Side {
	if s == SidePlayer {
		return SideComputer
	}
	return SidePlayer
}

func (s Side) Valid() bool { return s == SidePlayer || s == SideComputer }

type Score struct {
	Player   int `json:"player"`
	Computer int `json:"computer"`
}

func (s *Score) add(side Side) {
	if side == SidePlayer {
		s.Player++
	} else {
		s.Computer++
	}
}

// Room holds the current round of one human against the computer. All
// fields are guarded by mu; read them through View.
type Room struct {
	mu sync.Mutex

	ID   string
	Code string

	grid      *game.Grid
	bot       *game.Bot
	round     int
	starter   Side
	turn      Side
	winner    Side
	score     Score
	history   []game.Move
	createdAt time.Time
	startedAt time.Time
}

func newRoom(id, code string, bot *game.Bot, now time.Time) *Room {
	return &Room{ID: id, Code: code, bot: bot, createdAt: now}
}

func (r *Room) startRound(size int, starter Side, now time.Time) {
	r.grid = game.NewGrid(size)
	r.round++
	r.starter = starter
	r.turn = starter
	r.winner = ""
	r.history = nil
	r.startedAt = now
}

// play records a committed move and closes the round when the grid is full.
func (r *Room) play(side Side, p game.Pos) bool {
	r.history = append(r.history, game.Move{Row: p.Row, Col: p.Col, Mark: side.Mark()})
	if _, over := game.WinnerAfter(r.grid, side.Mark()); over {
		r.winner = side
		r.turn = ""
		r.score.add(side)
		return true
	}
	r.turn = side.Other()
	return false
}

// View is a consistent copy of a room that is safe to serialise.
type View struct {
	ID        string      `json:"id"`
	Code      string      `json:"code"`
	Round     int         `json:"round"`
	Starter   Side        `json:"starter"`
	Turn      Side        `json:"turn,omitempty"`
	Winner    Side        `json:"winner,omitempty"`
	Score     Score       `json:"score"`
	Grid      *game.Grid  `json:"grid"`
	History   []game.Move `json:"history"`
	CreatedAt time.Time   `json:"createdAt"`
	StartedAt time.Time   `json:"startedAt"`
}

func (r *Room) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view()
}

func (r *Room) view() View {
	return View{
		ID:        r.ID,
		Code:      r.Code,
		Round:     r.round,
		Starter:   r.starter,
		Turn:      r.turn,
		Winner:    r.winner,
		Score:     r.score,
		Grid:      r.grid.Clone(),
		History:   append([]game.Move(nil), r.history...),
		CreatedAt: r.createdAt,
		StartedAt: r.startedAt,
	}
}

// RoundRecord is a finished round as kept in the archive.
type RoundRecord struct {
	ID         string      `json:"id"`
	RoomCode   string      `json:"roomCode"`
	Round      int         `json:"round"`
	Size       int         `json:"size"`
	Starter    Side        `json:"starter"`
	Winner     Side        `json:"winner"`
	Moves      []game.Move `json:"moves"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
}

type Store interface {
	GetRoom(code string) (*Room, bool)
	SaveRoom(r *Room)
}

// Archive persists finished rounds and the winner that starts the next room.
type Archive interface {
	SaveRound(ctx context.Context, rec RoundRecord) error
	Rounds(ctx context.Context, limit int) ([]RoundRecord, error)
	// LastWinner returns "" when no round has been recorded yet.
	LastWinner(ctx context.Context) (Side, error)
	SetLastWinner(ctx context.Context, s Side) error
}
