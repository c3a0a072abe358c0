package memstore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"neuronos/pkg/errs"
	"neuronos/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCoreSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.CoreSet(ctx, "persona", "You are NeuronOS."); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.CoreGet(ctx, "persona")
	if err != nil || !ok {
		t.Fatalf("get: err=%v ok=%v", err, ok)
	}
	if got != "You are NeuronOS." {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestCoreGetMissingReturnsFalseNotError(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.CoreGet(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected missing block")
	}
}

func TestCoreSetRejectsOversizedText(t *testing.T) {
	s := openTestStore(t)
	big := strings.Repeat("x", CoreBlockSizeLimit+1)
	err := s.CoreSet(context.Background(), "big", big)
	if !errs.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument error, got %v", err)
	}
}

func TestCoreSetEnforcesBlockLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < CoreBlockLimit; i++ {
		name := string(rune('a' + i))
		if err := s.CoreSet(ctx, name, "v"); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	err := s.CoreSet(ctx, "overflow", "v")
	if !errs.IsResourceExhausted(err) {
		t.Fatalf("expected resource exhausted, got %v", err)
	}
	// Updating an existing block must still succeed once at the cap.
	if err := s.CoreSet(ctx, "a", "updated"); err != nil {
		t.Fatalf("update existing block at cap: %v", err)
	}
}

func TestRecallAppendAndSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.RecallAppend(ctx, types.RoleUser, "the capybara wandered into the lobby", ""); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := s.RecallAppend(ctx, types.RoleAssistant, "unrelated turn about weather", ""); err != nil {
		t.Fatalf("append: %v", err)
	}

	results, err := s.RecallSearch(ctx, "capybara lobby", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d: %+v", len(results), results)
	}
	if !strings.Contains(results[0].Entry.Text, "capybara") {
		t.Fatalf("unexpected match: %+v", results[0])
	}
}

func TestRecallRecentReturnsChronologicalOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if _, err := s.RecallAppend(ctx, types.RoleUser, text, ""); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	recent, err := s.RecallRecent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Text != "second" || recent[1].Text != "third" {
		t.Fatalf("unexpected order: %+v", recent)
	}
}

func TestRecallGCTruncatesAndInsertsSummaryAfterCapExceeded(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const cap = 5
	for i := 0; i < cap+3; i++ {
		if _, err := s.RecallAppend(ctx, types.RoleUser, "turn", ""); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	ran, err := s.RecallGC(ctx, cap, "gc summary")
	if err != nil {
		t.Fatalf("gc: %v", err)
	}
	if !ran {
		t.Fatalf("expected gc to run")
	}

	ranAgain, err := s.RecallGC(ctx, cap, "gc summary 2")
	if err != nil {
		t.Fatalf("gc 2: %v", err)
	}
	_ = ranAgain // count may or may not still exceed cap after one batch; not asserted here
}

func TestArchivalSearchFindsStoredMemory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.ArchivalAppend(ctx, types.RoleUser, "the deployment key rotates every Tuesday", "fact"); err != nil {
		t.Fatalf("append: %v", err)
	}
	results, err := s.ArchivalSearch(ctx, "deployment key rotates", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestSearchEmptyQueryReturnsNoResults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if _, err := s.RecallAppend(ctx, types.RoleUser, "something", ""); err != nil {
		t.Fatalf("append: %v", err)
	}
	results, err := s.RecallSearch(ctx, "", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for empty query, got %d", len(results))
	}
}
