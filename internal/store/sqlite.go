package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"obstruction/internal/room"
)

const schema = `
CREATE TABLE IF NOT EXISTS rounds (
	id TEXT PRIMARY KEY,
	room_code TEXT NOT NULL,
	round INTEGER NOT NULL,
	size INTEGER NOT NULL,
	starter TEXT NOT NULL,
	winner TEXT NOT NULL,
	moves TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const lastWinnerKey = "last_winner"

// SQLite is the round archive and settings file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path, creating its directory.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	log.Info().Str("path", path).Msg("database-ready")
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) SaveRound(ctx context.Context, rec room.RoundRecord) error {
	moves, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("encode moves: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rounds (id, room_code, round, size, starter, winner, moves, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RoomCode, rec.Round, rec.Size, string(rec.Starter), string(rec.Winner),
		string(moves), rec.StartedAt.UnixMilli(), rec.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert round %s: %w", rec.ID, err)
	}
	return nil
}

// Rounds returns the newest rounds first. A non-positive limit returns all.
func (s *SQLite) Rounds(ctx context.Context, limit int) ([]room.RoundRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_code, round, size, starter, winner, moves, started_at, finished_at
		FROM rounds ORDER BY finished_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var out []room.RoundRecord
	for rows.Next() {
		var (
			rec               room.RoundRecord
			starter, winner   string
			moves             string
			started, finished int64
		)
		if err := rows.Scan(&rec.ID, &rec.RoomCode, &rec.Round, &rec.Size, &starter, &winner, &moves, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		if err := json.Unmarshal([]byte(moves), &rec.Moves); err != nil {
			return nil, fmt.Errorf("decode moves of round %s: %w", rec.ID, err)
		}
		rec.Starter, rec.Winner = room.Side(starter), room.Side(winner)
		rec.StartedAt, rec.FinishedAt = time.UnixMilli(started).UTC(), time.UnixMilli(finished).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) LastWinner(ctx context.Context) (room.Side, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, lastWinnerKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", lastWinnerKey, err)
	}
	side := room.Side(v)
	if !side.Valid() {
		log.Warn().Str("value", v).Msg("ignoring-unknown-last-winner")
		return "", nil
	}
	return side, nil
}

func (s *SQLite) SetLastWinner(ctx context.Context, side room.Side) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, lastWinnerKey, string(side))
	if err != nil {
		return fmt.Errorf("write %s: %w", lastWinnerKey, err)
	}
	return nil
}
