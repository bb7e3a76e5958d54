package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akshat/stint/internal/session"
)

// Source is the read side of the session store.
type Source interface {
	All(ctx context.Context) ([]session.Session, error)
}

// View memoizes aggregations over the session log. Recomputation happens
// only when the log revision (record count plus last sequence) moves, so
// repeated reads between appends are free. Appends are synchronous and
// single-writer, which makes the revision pair a sufficient change
// detector.
type View struct {
	mu  sync.Mutex
	src Source
	now func() time.Time

	count    int
	lastSeq  int64
	loaded   bool
	sessions []session.Session
	buckets  map[string]*DayBucket

	streakDay string
	streak    int
}

// NewView creates a View over src.
func NewView(src Source) *View {
	return &View{src: src, now: time.Now}
}

// Buckets returns the per-day rollups, recomputing if the log changed.
// The returned map is the memoized cache itself and must be treated as
// read-only; mutating a bucket corrupts every later read.
func (v *View) Buckets(ctx context.Context) (map[string]*DayBucket, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return v.buckets, nil
}

// Days returns the rollups most recent first. The slice is freshly
// sorted per call but the buckets it points at are shared; read-only, as
// with Buckets.
func (v *View) Days(ctx context.Context) ([]*DayBucket, error) {
	buckets, err := v.Buckets(ctx)
	if err != nil {
		return nil, err
	}
	return SortedDays(buckets), nil
}

// Streak returns the current consecutive-day streak.
func (v *View) Streak(ctx context.Context) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.refreshLocked(ctx); err != nil {
		return 0, err
	}

	// The streak also changes at midnight with an unchanged log.
	today := v.now()
	if day := localDate(today); day != v.streakDay {
		v.streak = Streak(v.sessions, today)
		v.streakDay = day
	}
	return v.streak, nil
}

// Sessions returns the loaded log, most recent revision. Read-only, as
// with Buckets.
func (v *View) Sessions(ctx context.Context) ([]session.Session, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return v.sessions, nil
}

func (v *View) refreshLocked(ctx context.Context) error {
	sessions, err := v.src.All(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	var lastSeq int64
	if len(sessions) > 0 {
		lastSeq = sessions[len(sessions)-1].Sequence
	}
	if v.loaded && len(sessions) == v.count && lastSeq == v.lastSeq {
		return nil
	}

	v.sessions = sessions
	v.count = len(sessions)
	v.lastSeq = lastSeq
	v.loaded = true
	v.buckets = DailyBuckets(sessions)
	v.streakDay = "" // force streak recompute on next read
	return nil
}
