package room

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"obstruction/internal/config"
	"obstruction/internal/game"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrRoundOver       = errors.New("round is over")
	ErrRoundInProgress = errors.New("round still in progress")
)

// Outcome describes one committed move and the room right after it.
type Outcome struct {
	Side   Side      `json:"side"`
	Move   game.Move `json:"move"`
	Winner Side      `json:"winner,omitempty"`
	Room   View      `json:"room"`
}

type Manager struct {
	store   Store
	archive Archive
	cfg     config.Config
	hub     Broadcaster
	now     func() time.Time

	mu         sync.Mutex
	lastWinner Side
	rooms      int64
}

// NewManager wires rooms to their store. archive and hub may be nil.
func NewManager(s Store, a Archive, cfg config.Config, hub Broadcaster) *Manager {
	m := &Manager{store: s, archive: a, cfg: cfg, now: time.Now}
	m.SetHub(hub)
	return m
}

func (m *Manager) SetHub(hub Broadcaster) {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	m.hub = hub
}

func (m *Manager) Config() config.Config { return m.cfg }

// CreateRoom opens a room whose first round is started by the last recorded
// winner, or by the computer when there is none.
func (m *Manager) CreateRoom(ctx context.Context) (*Room, error) {
	starter, err := m.nextStarter(ctx)
	if err != nil {
		return nil, err
	}
	now := m.now()
	r := newRoom(uuid.NewString(), randCode(6), game.NewBot(SideComputer.Mark(), m.source()), now)
	r.startRound(m.cfg.BoardSize, starter, now)
	m.store.SaveRoom(r)
	log.Info().Str("room", r.Code).Str("starter", string(starter)).Int("size", m.cfg.BoardSize).Msg("room-created")
	return r, nil
}

func (m *Manager) Get(code string) (*Room, bool) {
	return m.store.GetRoom(code)
}

func (m *Manager) mustGet(code string) (*Room, error) {
	r, ok := m.store.GetRoom(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	return r, nil
}

// ApplyMove plays the human's X at (row, col).
func (m *Manager) ApplyMove(ctx context.Context, code string, row, col int) (Outcome, error) {
	r, err := m.mustGet(code)
	if err != nil {
		return Outcome{}, err
	}
	r.mu.Lock()
	if err := r.checkTurn(SidePlayer); err != nil {
		r.mu.Unlock()
		return Outcome{}, err
	}
	if err := r.grid.ApplyMove(row, col, SidePlayer.Mark()); err != nil {
		r.mu.Unlock()
		return Outcome{}, err
	}
	out := m.commit(ctx, r, SidePlayer, game.Pos{Row: row, Col: col})
	r.mu.Unlock()

	m.announce(r.Code, "move-applied", out)
	return out, nil
}

// BotMove lets the computer play its O. The first computer move of a round
// that the computer starts is a random opening.
func (m *Manager) BotMove(ctx context.Context, code string) (Outcome, error) {
	r, err := m.mustGet(code)
	if err != nil {
		return Outcome{}, err
	}
	r.mu.Lock()
	if err := r.checkTurn(SideComputer); err != nil {
		r.mu.Unlock()
		return Outcome{}, err
	}
	var p game.Pos
	if len(r.history) == 0 {
		p, err = r.bot.OpeningMove(r.grid)
	} else {
		p, err = r.bot.DecideMove(r.grid)
	}
	if err != nil {
		r.mu.Unlock()
		return Outcome{}, err
	}
	out := m.commit(ctx, r, SideComputer, p)
	r.mu.Unlock()

	m.announce(r.Code, "bot-move", out)
	return out, nil
}

// NextRound starts a fresh grid once the current round has a winner, who
// then moves first.
func (m *Manager) NextRound(ctx context.Context, code string) (View, error) {
	r, err := m.mustGet(code)
	if err != nil {
		return View{}, err
	}
	r.mu.Lock()
	if r.winner == "" {
		r.mu.Unlock()
		return View{}, ErrRoundInProgress
	}
	r.startRound(m.cfg.BoardSize, r.winner, m.now())
	v := r.view()
	r.mu.Unlock()

	log.Info().Str("room", code).Int("round", v.Round).Str("starter", string(v.Starter)).Msg("round-started")
	m.hub.Broadcast(code, "round-started", v)
	return v, nil
}

// PossibleMoves lists the scored legal moves of the current grid.
func (m *Manager) PossibleMoves(code string) (game.Candidates, error) {
	r, err := m.mustGet(code)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return game.EnumerateCandidates(r.grid), nil
}

func (m *Manager) Rounds(ctx context.Context, limit int) ([]RoundRecord, error) {
	if m.archive == nil {
		return nil, nil
	}
	return m.archive.Rounds(ctx, limit)
}

func (r *Room) checkTurn(side Side) error {
	if r.winner != "" {
		return ErrRoundOver
	}
	if r.turn != side {
		return ErrNotYourTurn
	}
	return nil
}

// commit records a move already applied to the grid. r.mu must be held.
func (m *Manager) commit(ctx context.Context, r *Room, side Side, p game.Pos) Outcome {
	over := r.play(side, p)
	log.Debug().Str("room", r.Code).Str("side", string(side)).Int("row", p.Row).Int("col", p.Col).Msg("move-committed")
	if over {
		m.finish(ctx, r)
	}
	return Outcome{
		Side:   side,
		Move:   r.history[len(r.history)-1],
		Winner: r.winner,
		Room:   r.view(),
	}
}

func (m *Manager) finish(ctx context.Context, r *Room) {
	m.mu.Lock()
	m.lastWinner = r.winner
	m.mu.Unlock()

	log.Info().Str("room", r.Code).Int("round", r.round).Str("winner", string(r.winner)).
		Int("moves", len(r.history)).Msg("round-over")
	if m.archive == nil {
		return
	}
	rec := RoundRecord{
		ID:         uuid.NewString(),
		RoomCode:   r.Code,
		Round:      r.round,
		Size:       r.grid.Size(),
		Starter:    r.starter,
		Winner:     r.winner,
		Moves:      append([]game.Move(nil), r.history...),
		StartedAt:  r.startedAt,
		FinishedAt: m.now(),
	}
	if err := m.archive.SaveRound(ctx, rec); err != nil {
		log.Error().Err(err).Str("room", r.Code).Msg("save-round-failed")
	}
	if err := m.archive.SetLastWinner(ctx, r.winner); err != nil {
		log.Error().Err(err).Str("room", r.Code).Msg("save-last-winner-failed")
	}
}

func (m *Manager) announce(code, action string, out Outcome) {
	m.hub.Broadcast(code, action, out)
	if out.Winner != "" {
		m.hub.Broadcast(code, "round-over", out)
	}
}

func (m *Manager) nextStarter(ctx context.Context) (Side, error) {
	m.mu.Lock()
	last := m.lastWinner
	m.mu.Unlock()
	if last == "" && m.archive != nil {
		var err error
		if last, err = m.archive.LastWinner(ctx); err != nil {
			return "", fmt.Errorf("read last winner: %w", err)
		}
	}
	if !last.Valid() {
		return SideComputer, nil
	}
	return last, nil
}

// source gives each room its own tie-break stream. With a configured seed
// the n-th room is reproducible across runs.
func (m *Manager) source() game.Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms++
	if m.cfg.AISeed == 0 {
		return game.NewSource(0)
	}
	return game.NewSource(m.cfg.AISeed + m.rooms - 1)
}

const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[frand.Intn(len(letters))]
	}
	return string(b)
}
