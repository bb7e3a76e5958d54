package stats

import (
	"context"
	"testing"
	"time"

	"github.com/akshat/stint/internal/session"
)

type sliceSource struct {
	sessions []session.Session
}

func (s *sliceSource) All(ctx context.Context) ([]session.Session, error) {
	out := make([]session.Session, len(s.sessions))
	copy(out, s.sessions)
	return out, nil
}

func (s *sliceSource) append(rec session.Session) {
	rec.Sequence = int64(len(s.sessions) + 1)
	s.sessions = append(s.sessions, rec)
}

func TestViewMemoizesAcrossReads(t *testing.T) {
	src := &sliceSource{}
	src.append(sessionOn(time.Now()))
	v := NewView(src)

	first, err := v.Buckets(context.Background())
	if err != nil {
		t.Fatalf("Buckets: %v", err)
	}
	second, err := v.Buckets(context.Background())
	if err != nil {
		t.Fatalf("Buckets: %v", err)
	}

	// Unchanged revision returns the cached aggregation, not a rebuild.
	for k, b := range first {
		if second[k] != b {
			t.Errorf("bucket %s rebuilt despite unchanged log", k)
		}
	}
}

func TestViewRefreshesOnAppend(t *testing.T) {
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.Local)
	src := &sliceSource{}
	src.append(sessionOn(today.AddDate(0, 0, -1)))
	v := NewView(src)
	v.now = func() time.Time { return today }

	got, err := v.Streak(context.Background())
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if got != 1 {
		t.Fatalf("streak = %d, want 1", got)
	}

	// The append must be visible on the very next read.
	src.append(sessionOn(today))
	got, err = v.Streak(context.Background())
	if err != nil {
		t.Fatalf("Streak: %v", err)
	}
	if got != 2 {
		t.Errorf("streak after append = %d, want 2", got)
	}
}

func TestViewStreakRollsOverAtMidnight(t *testing.T) {
	day := time.Date(2026, 8, 30, 23, 50, 0, 0, time.Local)
	src := &sliceSource{}
	src.append(sessionOn(day))
	v := NewView(src)

	now := day
	v.now = func() time.Time { return now }

	got, _ := v.Streak(context.Background())
	if got != 1 {
		t.Fatalf("streak = %d, want 1", got)
	}

	// Same log, next day: today no longer has a session but yesterday
	// does, so the streak holds at 1 until the day after.
	now = day.Add(20 * time.Minute)
	got, _ = v.Streak(context.Background())
	if got != 1 {
		t.Errorf("streak after midnight = %d, want 1", got)
	}

	now = day.Add(24*time.Hour + 20*time.Minute)
	got, _ = v.Streak(context.Background())
	if got != 0 {
		t.Errorf("streak two days on = %d, want 0", got)
	}
}
