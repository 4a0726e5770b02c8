// Package ledger keeps an append-only history of finished rounds.
// Game state never reads it back; it exists for operators who want to
// see what happened after the fact.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// RoundItem is one finished round as stored in the history table.
type RoundItem struct {
	RoundID uint64          `json:"round_id"`
	EndedAt time.Time       `json:"ended_at"`
	Summary json.RawMessage `json:"summary"`
}

type Service interface {
	// AppendRoundEvent records one in-round event. (roundID, seq) is
	// unique; replays of the same pair are ignored.
	AppendRoundEvent(ctx context.Context, roundID, seq uint64, eventType string, payload any) error

	// UpsertRoundSummary records or replaces the final summary row for
	// a round.
	UpsertRoundSummary(ctx context.Context, roundID uint64, endedAt time.Time, summary any) error

	// ListRecent returns up to limit finished rounds, newest first.
	ListRecent(ctx context.Context, limit int) ([]RoundItem, error)

	Close() error
}

// NoopService drops everything. Used when history is switched off.
type NoopService struct{}

func (NoopService) AppendRoundEvent(context.Context, uint64, uint64, string, any) error {
	return nil
}

func (NoopService) UpsertRoundSummary(context.Context, uint64, time.Time, any) error {
	return nil
}

func (NoopService) ListRecent(context.Context, int) ([]RoundItem, error) {
	return nil, nil
}

func (NoopService) Close() error { return nil }

// NewServiceFromEnv selects the backing store from LEDGER_MODE:
// "sqlite" (default), "postgres", or "memory" for no history at all.
func NewServiceFromEnv() (Service, error) {
	mode := strings.ToLower(os.Getenv("LEDGER_MODE"))
	switch mode {
	case "", "sqlite":
		path := os.Getenv("LEDGER_LOCAL_DATABASE_PATH")
		if path == "" {
			path = "oldmaid.db"
		}
		return NewSQLiteService(path)
	case "postgres":
		dsn := os.Getenv("LEDGER_DATABASE_DSN")
		if dsn == "" {
			return nil, errors.New("LEDGER_MODE=postgres requires LEDGER_DATABASE_DSN")
		}
		return NewPostgresService(dsn)
	case "memory":
		return NoopService{}, nil
	default:
		return nil, fmt.Errorf("unknown LEDGER_MODE %q", mode)
	}
}

// PostgresService stores history in a pre-provisioned postgres
// database. Unlike sqlite, it does not create its own schema; run the
// DDL from the deployment docs first.
type PostgresService struct {
	db *sql.DB
}

func NewPostgresService(dsn string) (*PostgresService, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresService{db: db}, nil
}

func (s *PostgresService) AppendRoundEvent(ctx context.Context, roundID, seq uint64, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO round_event_stream (round_id, seq, event_type, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (round_id, seq) DO NOTHING`,
		int64(roundID), int64(seq), eventType, string(raw))
	return err
}

func (s *PostgresService) UpsertRoundSummary(ctx context.Context, roundID uint64, endedAt time.Time, summary any) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO match_round_history (round_id, ended_at, summary)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (round_id) DO UPDATE
		 SET ended_at = EXCLUDED.ended_at, summary = EXCLUDED.summary`,
		int64(roundID), endedAt, string(raw))
	return err
}

func (s *PostgresService) ListRecent(ctx context.Context, limit int) ([]RoundItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT round_id, ended_at, summary
		 FROM match_round_history
		 ORDER BY ended_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRoundItems(rows)
}

func (s *PostgresService) Close() error {
	return s.db.Close()
}

func scanRoundItems(rows *sql.Rows) ([]RoundItem, error) {
	var items []RoundItem
	for rows.Next() {
		var (
			item    RoundItem
			roundID int64
			summary string
		)
		if err := rows.Scan(&roundID, &item.EndedAt, &summary); err != nil {
			return nil, err
		}
		item.RoundID = uint64(roundID)
		item.Summary = json.RawMessage(summary)
		items = append(items, item)
	}
	return items, rows.Err()
}
