package room_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"obstruction/internal/config"
	"obstruction/internal/game"
	"obstruction/internal/room"
	"obstruction/internal/store"
)

type recordingHub struct {
	mu      sync.Mutex
	actions []string
}

func (h *recordingHub) Broadcast(_ string, action string, _ interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, action)
}

func newManager(t *testing.T, size int, last room.Side) (*room.Manager, *store.MemoryStore, *recordingHub) {
	t.Helper()
	mem := store.NewMemoryStore()
	if last != "" {
		_ = mem.SetLastWinner(context.Background(), last)
	}
	hub := &recordingHub{}
	return room.NewManager(mem, mem, config.Config{BoardSize: size, AISeed: 7}, hub), mem, hub
}

func TestCreateRoomComputerStartsByDefault(t *testing.T) {
	m, _, _ := newManager(t, 6, "")
	r, err := m.CreateRoom(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	v := r.View()
	if len(v.Code) != 6 || v.ID == "" {
		t.Fatalf("bad identifiers %q %q", v.Code, v.ID)
	}
	if v.Round != 1 || v.Starter != room.SideComputer || v.Turn != room.SideComputer {
		t.Fatalf("unexpected start %+v", v)
	}
	if got, ok := m.Get(v.Code); !ok || got != r {
		t.Fatalf("room not stored")
	}
}

func TestCreateRoomLastWinnerStarts(t *testing.T) {
	m, _, _ := newManager(t, 6, room.SidePlayer)
	r, err := m.CreateRoom(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v := r.View(); v.Turn != room.SidePlayer {
		t.Fatalf("expected player to start, got %q", v.Turn)
	}
}

func TestTurnsAlternate(t *testing.T) {
	ctx := context.Background()
	m, _, hub := newManager(t, 6, room.SidePlayer)
	r, _ := m.CreateRoom(ctx)

	if _, err := m.BotMove(ctx, r.Code); !errors.Is(err, room.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn for computer, got %v", err)
	}
	out, err := m.ApplyMove(ctx, r.Code, 1, 1)
	if err != nil {
		t.Fatalf("human move: %v", err)
	}
	if out.Move != (game.Move{Row: 1, Col: 1, Mark: game.CellX}) || out.Room.Turn != room.SideComputer {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if _, err := m.ApplyMove(ctx, r.Code, 4, 4); !errors.Is(err, room.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn for player, got %v", err)
	}
	out, err = m.BotMove(ctx, r.Code)
	if err != nil {
		t.Fatalf("bot move: %v", err)
	}
	if out.Move.Mark != game.CellO || out.Room.Turn != room.SidePlayer || len(out.Room.History) != 2 {
		t.Fatalf("unexpected bot outcome %+v", out)
	}
	if len(hub.actions) != 2 || hub.actions[0] != "move-applied" || hub.actions[1] != "bot-move" {
		t.Fatalf("unexpected broadcasts %v", hub.actions)
	}
}

func TestIllegalHumanMoveKeepsTurn(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t, 6, room.SidePlayer)
	r, _ := m.CreateRoom(ctx)
	_, err := m.ApplyMove(ctx, r.Code, 6, 0)
	if !errors.Is(err, game.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	v := r.View()
	if v.Turn != room.SidePlayer || len(v.History) != 0 || v.Grid.CountEmpty() != 36 {
		t.Fatalf("room changed after illegal move: %+v", v)
	}
}

func TestPlayerWinsRoundAndArchives(t *testing.T) {
	ctx := context.Background()
	m, mem, hub := newManager(t, 2, room.SidePlayer)
	r, _ := m.CreateRoom(ctx)

	out, err := m.ApplyMove(ctx, r.Code, 0, 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if out.Winner != room.SidePlayer || out.Room.Score != (room.Score{Player: 1}) || out.Room.Turn != "" {
		t.Fatalf("expected player win, got %+v", out)
	}
	if _, err := m.ApplyMove(ctx, r.Code, 1, 1); !errors.Is(err, room.ErrRoundOver) {
		t.Fatalf("expected ErrRoundOver, got %v", err)
	}
	if _, err := m.BotMove(ctx, r.Code); !errors.Is(err, room.ErrRoundOver) {
		t.Fatalf("expected ErrRoundOver for bot, got %v", err)
	}

	rounds, _ := m.Rounds(ctx, 10)
	if len(rounds) != 1 || rounds[0].Winner != room.SidePlayer || len(rounds[0].Moves) != 1 || rounds[0].Size != 2 {
		t.Fatalf("round not archived: %+v", rounds)
	}
	if w, _ := mem.LastWinner(ctx); w != room.SidePlayer {
		t.Fatalf("last winner not saved, got %q", w)
	}
	if len(hub.actions) != 2 || hub.actions[1] != "round-over" {
		t.Fatalf("unexpected broadcasts %v", hub.actions)
	}
}

func TestComputerOpensAndWinsTinyGrid(t *testing.T) {
	ctx := context.Background()
	m, mem, _ := newManager(t, 1, "")
	r, _ := m.CreateRoom(ctx)
	out, err := m.BotMove(ctx, r.Code)
	if err != nil {
		t.Fatalf("bot move: %v", err)
	}
	if out.Move != (game.Move{Row: 0, Col: 0, Mark: game.CellO}) || out.Winner != room.SideComputer {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if w, _ := mem.LastWinner(ctx); w != room.SideComputer {
		t.Fatalf("expected computer as last winner, got %q", w)
	}
}

func TestNextRound(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t, 2, room.SidePlayer)
	r, _ := m.CreateRoom(ctx)

	if _, err := m.NextRound(ctx, r.Code); !errors.Is(err, room.ErrRoundInProgress) {
		t.Fatalf("expected ErrRoundInProgress, got %v", err)
	}
	if _, err := m.ApplyMove(ctx, r.Code, 1, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	v, err := m.NextRound(ctx, r.Code)
	if err != nil {
		t.Fatalf("next round: %v", err)
	}
	if v.Round != 2 || v.Starter != room.SidePlayer || v.Turn != room.SidePlayer || v.Winner != "" {
		t.Fatalf("unexpected round %+v", v)
	}
	if v.Grid.CountEmpty() != 4 || len(v.History) != 0 || v.Score.Player != 1 {
		t.Fatalf("round not reset: %+v", v)
	}
}

func TestSelfPlayThroughManager(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t, 6, "")
	r, _ := m.CreateRoom(ctx)
	for i := 0; i < 36; i++ {
		v := r.View()
		if v.Winner != "" {
			break
		}
		var err error
		if v.Turn == room.SideComputer {
			_, err = m.BotMove(ctx, r.Code)
		} else {
			cands, _ := m.PossibleMoves(r.Code)
			_, err = m.ApplyMove(ctx, r.Code, cands[0].Row, cands[0].Col)
		}
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}
	v := r.View()
	if v.Winner == "" || !v.Grid.IsTerminal() {
		t.Fatalf("round did not finish: %+v", v)
	}
	if v.History[len(v.History)-1].Mark != v.Winner.Mark() {
		t.Fatalf("winner %q did not make the last move", v.Winner)
	}
}

func TestUnknownRoom(t *testing.T) {
	m, _, _ := newManager(t, 6, "")
	if _, err := m.ApplyMove(context.Background(), "NOPE", 0, 0); !errors.Is(err, room.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := m.PossibleMoves("NOPE"); !errors.Is(err, room.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}
