package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/akshat/stint/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stint.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSessionAppendAndAll(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	// Empty log loads clean.
	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All on empty store: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("got %d sessions, want 0", len(all))
	}

	ts := time.Date(2026, 8, 30, 21, 15, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		rec := &session.Session{
			ID:               uuid.NewString(),
			Subject:          "Chemistry",
			DurationMinutes:  25,
			QuestionsTotal:   8,
			QuestionsCorrect: 6,
			Timestamp:        ts.Add(time.Duration(i) * time.Hour),
			Type:             session.TypeQuestion,
		}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
		if rec.Sequence == 0 {
			t.Errorf("Append %d did not assign a sequence", i)
		}
	}

	all, err = repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d sessions, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Sequence <= all[i-1].Sequence {
			t.Errorf("sequence not monotonic: %d then %d", all[i-1].Sequence, all[i].Sequence)
		}
	}

	got := all[0]
	if got.Subject != "Chemistry" || got.DurationMinutes != 25 ||
		got.QuestionsTotal != 8 || got.QuestionsCorrect != 6 ||
		got.Type != session.TypeQuestion {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, ts)
	}
}

func TestSessionTimestampKeepsOffset(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	zone := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2026, 8, 30, 0, 30, 0, 0, zone)
	rec := &session.Session{
		ID:        uuid.NewString(),
		Subject:   "Kanji",
		Timestamp: ts,
		Type:      session.TypeTheory,
	}
	if err := repo.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	loaded := all[0].Timestamp
	if !loaded.Equal(ts) {
		t.Fatalf("timestamp instant drifted: %v vs %v", loaded, ts)
	}
	// The calendar date in the recorded offset must survive the
	// roundtrip; in UTC this instant is still the 29th.
	if loaded.Format("2006-01-02") != "2026-08-30" {
		t.Errorf("local date = %s, want 2026-08-30", loaded.Format("2006-01-02"))
	}
}

func TestSequenceSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stint.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := &session.Session{ID: uuid.NewString(), Subject: "A", Timestamp: time.Now(), Type: session.TypeTheory}
	if err := s.SessionRepo().Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	first := rec.Sequence
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	rec2 := &session.Session{ID: uuid.NewString(), Subject: "B", Timestamp: time.Now(), Type: session.TypeTheory}
	if err := s2.SessionRepo().Append(ctx, rec2); err != nil {
		t.Fatalf("Append after reopen: %v", err)
	}
	if rec2.Sequence <= first {
		t.Errorf("sequence reused after reopen: %d then %d", first, rec2.Sequence)
	}
}

func TestSubjectRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.SubjectRepo()
	ctx := context.Background()

	subjects, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(subjects) != 0 {
		t.Fatalf("got %d subjects, want 0", len(subjects))
	}

	if _, err := repo.Add(ctx, "Physics", "#F97316"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := repo.Add(ctx, "Algebra", "#14B8A6"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	subjects, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(subjects) != 2 || subjects[0].Name != "Algebra" {
		t.Errorf("List = %+v, want sorted by name", subjects)
	}

	if err := repo.Remove(ctx, "Physics"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := repo.Remove(ctx, "Physics"); err == nil {
		t.Error("Remove of a missing subject succeeded")
	}
}
