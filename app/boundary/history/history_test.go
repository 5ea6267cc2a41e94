package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/wasya-io/les-environs/app/boundary/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	codes := []string{"s.boot;", "foo();\nbar();", "CmdPeriod.run;"}
	for i, code := range codes {
		err := store.Record(ctx, history.Evaluation{
			SessionID:   "session-1",
			File:        "synth.scd",
			Kind:        "scd",
			Code:        code,
			EvaluatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d entries", len(got))
	}
	if got[0].Code != "CmdPeriod.run;" || got[1].Code != "foo();\nbar();" {
		t.Errorf("Recent() should be newest first, got %q, %q", got[0].Code, got[1].Code)
	}
	if !got[0].EvaluatedAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("EvaluatedAt = %v", got[0].EvaluatedAt)
	}
	if got[1].File != "synth.scd" || got[1].Kind != "scd" || got[1].SessionID != "session-1" {
		t.Errorf("unexpected entry: %+v", got[1])
	}
}

func TestRecordDefaultsTime(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	before := time.Now()
	if err := store.Record(ctx, history.Evaluation{File: "sketch.js", Kind: "js", Code: "draw()"}); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 1 || got[0].EvaluatedAt.Before(before) {
		t.Errorf("Recent() = %+v", got)
	}
}

func TestRecentNonPositive(t *testing.T) {
	store := openStore(t)
	got, err := store.Recent(context.Background(), 0)
	if err != nil || got != nil {
		t.Errorf("Recent(0) = %v, %v", got, err)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	store.Record(ctx, history.Evaluation{File: "a.scd", Kind: "scd", Code: "1"})
	store.Close()

	store, err = history.Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer store.Close()

	got, _ := store.Recent(ctx, 5)
	if len(got) != 1 || got[0].Code != "1" {
		t.Errorf("history not persisted: %+v", got)
	}
}
