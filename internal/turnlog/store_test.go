package turnlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.New(filepath.Join(t.TempDir(), "turns.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background(), "assistant", Migrations()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return New(db.DB())
}

func TestInsertAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Timestamp: base, SessionID: "a", UserMessage: "what's trending", Action: "GetTrending", Outcome: "success", DurationMs: 120},
		{Timestamp: base.Add(time.Minute), SessionID: "a", UserMessage: "hi", Outcome: "fallback", DurationMs: 40},
		{Timestamp: base.Add(2 * time.Minute), SessionID: "b", UserMessage: "trending again", Action: "GetTrending", Outcome: "error", Error: "trakt down"},
	}
	for _, e := range entries {
		if err := s.Insert(ctx, e); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	all, total, err := s.List(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("total = %d, len = %d, want 3", total, len(all))
	}
	if all[0].SessionID != "b" || all[0].Error != "trakt down" {
		t.Errorf("newest = %+v, want session b with error", all[0])
	}
	if !all[2].Timestamp.Equal(base) {
		t.Errorf("oldest timestamp = %v, want %v", all[2].Timestamp, base)
	}

	filtered, total, err := s.List(ctx, "GetTrending", 1, 1)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if total != 2 {
		t.Errorf("filtered total = %d, want 2", total)
	}
	if len(filtered) != 1 || filtered[0].Outcome != "success" {
		t.Errorf("page = %+v, want the older trending turn", filtered)
	}
}

func TestInsert_DefaultsTimestamp(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if err := s.Insert(ctx, Entry{SessionID: "x", Outcome: "fallback"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, _, err := s.List(ctx, "", 5, 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("List = %v, %v", got, err)
	}
	if got[0].Timestamp.Before(before) {
		t.Errorf("timestamp = %v, want now", got[0].Timestamp)
	}
}
