package history_test

import (
	"context"
	"testing"
	"time"

	"mediaconv/internal/history"
	"mediaconv/internal/testsupport"
)

func newStore(t *testing.T, limit int) *history.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.History.Limit = limit

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndList(t *testing.T) {
	store := newStore(t, 100)
	ctx := context.Background()

	rec, err := store.Append(ctx, history.Record{
		Kind:    "convert",
		Input:   "/media/in.avi",
		Outputs: []string{"/media/out.mp4"},
		Status:  history.StatusSucceeded,
		TwoPass: true,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected generated record ID")
	}

	records, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	got := records[0]
	if got.ID != rec.ID || got.Kind != "convert" || got.Input != "/media/in.avi" {
		t.Fatalf("unexpected record: %#v", got)
	}
	if len(got.Outputs) != 1 || got.Outputs[0] != "/media/out.mp4" {
		t.Fatalf("unexpected outputs: %#v", got.Outputs)
	}
	if !got.TwoPass {
		t.Fatal("expected two-pass flag to round-trip")
	}
	if got.Status != history.StatusSucceeded {
		t.Fatalf("unexpected status: %s", got.Status)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := newStore(t, 100)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, history.Record{
			Kind:       "convert",
			Input:      "/media/in.avi",
			Outputs:    []string{"/media/out.mp4"},
			Status:     history.StatusFailed,
			Detail:     "attempt",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected two records, got %d", len(records))
	}
	if !records[0].FinishedAt.After(records[1].FinishedAt) {
		t.Fatalf("expected newest first: %v then %v", records[0].FinishedAt, records[1].FinishedAt)
	}
}

func TestAppendPrunesBeyondLimit(t *testing.T) {
	store := newStore(t, 2)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		_, err := store.Append(ctx, history.Record{
			Kind:       "segment",
			Input:      "/media/in.mp4",
			Outputs:    []string{"/media/hls/list.m3u8"},
			Status:     history.StatusSucceeded,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	records, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected pruning to keep 2 records, got %d", len(records))
	}
	if records[0].FinishedAt != base.Add(3*time.Minute) {
		t.Fatalf("expected newest record kept, got %v", records[0].FinishedAt)
	}
}
