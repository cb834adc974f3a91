package store

import (
	"context"
	"sync"

	"obstruction/internal/room"
)

// MemoryStore keeps rooms, and optionally the round archive, in process.
type MemoryStore struct {
	mu         sync.RWMutex
	rooms      map[string]*room.Room
	rounds     []room.RoundRecord
	lastWinner room.Side
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: map[string]*room.Room{},
	}
}

func (m *MemoryStore) GetRoom(code string) (*room.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[code]
	return r, ok
}

func (m *MemoryStore) SaveRoom(r *room.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.Code] = r
}

func (m *MemoryStore) SaveRound(_ context.Context, rec room.RoundRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, rec)
	return nil
}

// Rounds returns the newest rounds first.
func (m *MemoryStore) Rounds(_ context.Context, limit int) ([]room.RoundRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]room.RoundRecord, 0, len(m.rounds))
	for i := len(m.rounds) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, m.rounds[i])
	}
	return out, nil
}

func (m *MemoryStore) LastWinner(context.Context) (room.Side, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastWinner, nil
}

func (m *MemoryStore) SetLastWinner(_ context.Context, s room.Side) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastWinner = s
	return nil
}
