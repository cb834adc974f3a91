package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"obstruction/internal/api/ws"
	"obstruction/internal/config"
	"obstruction/internal/room"
	"obstruction/internal/store"
)

func setup(t *testing.T, size int, last room.Side) (*gin.Engine, *room.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mem := store.NewMemoryStore()
	if last != "" {
		_ = mem.SetLastWinner(context.Background(), last)
	}
	rm := room.NewManager(mem, mem, config.Config{BoardSize: size, AISeed: 3}, nil)
	hub := ws.NewHub(rm)
	rm.SetHub(hub)
	return NewRouter(rm, hub), rm
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func createRoom(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/create-room", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("create-room: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		RoomCode string `json:"roomCode"`
	}
	decode(t, w, &resp)
	return resp.RoomCode
}

func TestMoveGetsComputerReply(t *testing.T) {
	r, _ := setup(t, 6, room.SidePlayer)
	code := createRoom(t, r)

	w := do(t, r, http.MethodPost, "/move", gin.H{"roomCode": code, "row": 1, "col": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("move: %d %s", w.Code, w.Body.String())
	}
	var resp MoveResponse
	decode(t, w, &resp)
	if resp.Player.Move.Row != 1 || resp.Player.Move.Col != 1 {
		t.Fatalf("unexpected player move %+v", resp.Player.Move)
	}
	if resp.Computer == nil || resp.Room.Turn != room.SidePlayer || len(resp.Room.History) != 2 {
		t.Fatalf("expected a computer reply, got %s", w.Body.String())
	}
}

func TestMoveErrors(t *testing.T) {
	r, _ := setup(t, 6, room.SidePlayer)
	code := createRoom(t, r)

	cases := []struct {
		name string
		body gin.H
		want int
	}{
		{"missing col", gin.H{"roomCode": code, "row": 1}, http.StatusBadRequest},
		{"out of bounds", gin.H{"roomCode": code, "row": 9, "col": 0}, http.StatusBadRequest},
		{"unknown room", gin.H{"roomCode": "NOPE22", "row": 0, "col": 0}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(t, r, http.MethodPost, "/move", tc.body); w.Code != tc.want {
				t.Fatalf("expected %d, got %d %s", tc.want, w.Code, w.Body.String())
			}
		})
	}

	if w := do(t, r, http.MethodPost, "/move-bot", gin.H{"roomCode": code}); w.Code != http.StatusConflict {
		t.Fatalf("expected conflict for out of turn bot move, got %d", w.Code)
	}
}

func TestComputerStartsThroughMoveBot(t *testing.T) {
	r, _ := setup(t, 6, "")
	code := createRoom(t, r)
	w := do(t, r, http.MethodPost, "/move-bot", gin.H{"roomCode": code})
	if w.Code != http.StatusOK {
		t.Fatalf("move-bot: %d %s", w.Code, w.Body.String())
	}
	var out room.Outcome
	decode(t, w, &out)
	if out.Side != room.SideComputer || out.Room.Turn != room.SidePlayer {
		t.Fatalf("unexpected outcome %s", w.Body.String())
	}
}

func TestRoundLifecycle(t *testing.T) {
	r, _ := setup(t, 2, room.SidePlayer)
	code := createRoom(t, r)

	if w := do(t, r, http.MethodPost, "/next-round", gin.H{"roomCode": code}); w.Code != http.StatusConflict {
		t.Fatalf("expected conflict before the round ends, got %d", w.Code)
	}
	w := do(t, r, http.MethodPost, "/move", gin.H{"roomCode": code, "row": 0, "col": 0})
	var resp MoveResponse
	decode(t, w, &resp)
	if resp.Player.Winner != room.SidePlayer || resp.Computer != nil {
		t.Fatalf("expected the player to win outright, got %s", w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/next-round", gin.H{"roomCode": code})
	if w.Code != http.StatusOK {
		t.Fatalf("next-round: %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/rounds?limit=5", nil)
	var rounds struct {
		Rounds []room.RoundRecord `json:"rounds"`
	}
	decode(t, w, &rounds)
	if len(rounds.Rounds) != 1 || rounds.Rounds[0].RoomCode != code {
		t.Fatalf("unexpected archive %s", w.Body.String())
	}
	if w := do(t, r, http.MethodGet, "/rounds?limit=x", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected bad limit to fail, got %d", w.Code)
	}
}

func TestPossibleMovesAndRoom(t *testing.T) {
	r, _ := setup(t, 6, room.SidePlayer)
	code := createRoom(t, r)

	w := do(t, r, http.MethodGet, "/possible-moves?roomCode="+code, nil)
	var resp struct {
		Moves []struct {
			Row   int `json:"row"`
			Col   int `json:"col"`
			Score int `json:"score"`
		} `json:"moves"`
		Best struct {
			Score int `json:"score"`
		} `json:"best"`
	}
	decode(t, w, &resp)
	if len(resp.Moves) != 36 || resp.Best.Score != 8 {
		t.Fatalf("unexpected candidates %s", w.Body.String())
	}
	if resp.Moves[0].Score != 3 || resp.Moves[1].Score != 5 {
		t.Fatalf("unexpected corner/edge scores %+v", resp.Moves[:2])
	}

	if w := do(t, r, http.MethodGet, "/room?roomCode="+code, nil); w.Code != http.StatusOK {
		t.Fatalf("room: %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/room?roomCode=NOPE22", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestConfigEndpoint(t *testing.T) {
	r, _ := setup(t, 7, "")
	w := do(t, r, http.MethodGet, "/config", nil)
	var resp struct {
		BoardSize int  `json:"boardSize"`
		Seeded    bool `json:"seeded"`
	}
	decode(t, w, &resp)
	if resp.BoardSize != 7 || !resp.Seeded {
		t.Fatalf("unexpected config %s", w.Body.String())
	}
}
