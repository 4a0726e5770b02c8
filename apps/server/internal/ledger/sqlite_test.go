package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func newMemoryService(t *testing.T) *SQLiteService {
	t.Helper()
	s, err := NewSQLiteService(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteService: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteAppendIsIdempotent(t *testing.T) {
	s := newMemoryService(t)
	ctx := context.Background()

	payload := map[string]any{"player": "alice"}
	if err := s.AppendRoundEvent(ctx, 1, 1, "draw", payload); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Same (round, seq) again must not error or duplicate.
	if err := s.AppendRoundEvent(ctx, 1, 1, "draw", payload); err != nil {
		t.Fatalf("replayed append: %v", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM round_event_stream`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 event row, got %d", n)
	}
}

func TestSQLiteSummaryUpsert(t *testing.T) {
	s := newMemoryService(t)
	ctx := context.Background()
	endedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := s.UpsertRoundSummary(ctx, 7, endedAt, map[string]any{"winner": "bob"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertRoundSummary(ctx, 7, endedAt, map[string]any{"winner": "carol"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	items, err := s.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 round, got %d", len(items))
	}
	if items[0].RoundID != 7 {
		t.Fatalf("round id = %d, want 7", items[0].RoundID)
	}

	var summary struct {
		Winner string `json:"winner"`
	}
	if err := json.Unmarshal(items[0].Summary, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Winner != "carol" {
		t.Fatalf("winner = %q, want carol (upsert should replace)", summary.Winner)
	}
}

func TestSQLiteListRecentOrder(t *testing.T) {
	s := newMemoryService(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		endedAt := base.Add(time.Duration(i) * time.Minute)
		if err := s.UpsertRoundSummary(ctx, uint64(i), endedAt, map[string]any{"winner": "alice"}); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	items, err := s.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(items))
	}
	if items[0].RoundID != 3 || items[1].RoundID != 2 {
		t.Fatalf("wrong order: %d, %d", items[0].RoundID, items[1].RoundID)
	}
}
