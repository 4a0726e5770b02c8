package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS round_event_stream (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	round_id   INTEGER NOT NULL,
	seq        INTEGER NOT NULL,
	event_type TEXT    NOT NULL,
	payload    TEXT    NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (round_id, seq)
);
CREATE TABLE IF NOT EXISTS match_round_history (
	round_id INTEGER PRIMARY KEY,
	ended_at TIMESTAMP NOT NULL,
	summary  TEXT      NOT NULL
);
`

// SQLiteService stores history in a local file (or ":memory:"). The
// schema is created on open.
type SQLiteService struct {
	db *sql.DB
}

func NewSQLiteService(path string) (*SQLiteService, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if path != ":memory:" {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// Single writer: the room goroutine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteService{db: db}, nil
}

func (s *SQLiteService) AppendRoundEvent(ctx context.Context, roundID, seq uint64, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO round_event_stream (round_id, seq, event_type, payload)
		 VALUES (?, ?, ?, ?)`,
		int64(roundID), int64(seq), eventType, string(raw))
	return err
}

func (s *SQLiteService) UpsertRoundSummary(ctx context.Context, roundID uint64, endedAt time.Time, summary any) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO match_round_history (round_id, ended_at, summary)
		 VALUES (?, ?, ?)
		 ON CONFLICT (round_id) DO UPDATE
		 SET ended_at = excluded.ended_at, summary = excluded.summary`,
		int64(roundID), endedAt, string(raw))
	return err
}

func (s *SQLiteService) ListRecent(ctx context.Context, limit int) ([]RoundItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round_id, ended_at, summary
		 FROM match_round_history
		 ORDER BY ended_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRoundItems(rows)
}

func (s *SQLiteService) Close() error {
	return s.db.Close()
}
