package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akshat/stint/internal/session"
)

// Trigger identifies which path produced a pending finalization.
type Trigger int

const (
	// TriggerCompleted means the focus countdown reached zero on its own.
	TriggerCompleted Trigger = iota
	// TriggerStopped means the user ended a focus run early with elapsed
	// time on the clock.
	TriggerStopped
)

func (t Trigger) String() string {
	if t == TriggerStopped {
		return "stopped"
	}
	return "completed"
}

// Pending is an unfinalized focus run waiting on the question-entry
// prompt. It freezes everything duration computation needs, so the
// machine can already be reset or counting a break underneath it.
type Pending struct {
	Trigger        Trigger
	ElapsedSeconds int
	Subject        string
	At             time.Time
}

// Resolution is the outcome of the question-entry prompt.
type Resolution struct {
	// Submitted is true when the user entered question counts; false
	// records a skip (zero questions).
	Submitted        bool
	QuestionsTotal   int
	QuestionsCorrect int
	Type             session.Type
}

// SessionStore is the narrow persistence contract the finalizer appends
// through. The store assigns the record's monotonic sequence.
type SessionStore interface {
	Append(ctx context.Context, rec *session.Session) error
}

// Finalizer converts elapsed timer activity into a Session record and
// appends it to the store. It is the only creator of Session values.
type Finalizer struct {
	store SessionStore
	now   func() time.Time
	newID func() string
}

// FinalizerOption configures a Finalizer.
type FinalizerOption func(*Finalizer)

// WithFinalizerClock overrides the timestamp source.
func WithFinalizerClock(now func() time.Time) FinalizerOption {
	return func(f *Finalizer) { f.now = now }
}

// WithIDSource overrides session ID generation.
func WithIDSource(newID func() string) FinalizerOption {
	return func(f *Finalizer) { f.newID = newID }
}

// NewFinalizer creates a Finalizer appending through store.
func NewFinalizer(store SessionStore, opts ...FinalizerOption) *Finalizer {
	f := &Finalizer{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Finalize builds and appends the Session for a pending run.
//
// Duration: natural completion credits the configured study length
// exactly (remaining is truly zero, so the configured value is exact and
// free of tick rounding); a manual stop credits ceil(elapsed/60), floored
// to one minute. Question counts come from the resolution, with correct
// clamped to total at this boundary.
func (f *Finalizer) Finalize(ctx context.Context, cfg Config, p Pending, res Resolution) (session.Session, error) {
	total, correct := 0, 0
	typ := session.TypeTheory
	if res.Submitted {
		total = res.QuestionsTotal
		if total < 0 {
			total = 0
		}
		correct = res.QuestionsCorrect
		if correct < 0 {
			correct = 0
		}
		if correct > total {
			correct = total
		}
		if res.Type != "" {
			typ = res.Type
		}
	}

	subject := p.Subject
	if subject == "" {
		subject = session.FreeStudySubject
	}

	ts := p.At
	if ts.IsZero() {
		ts = f.now()
	}

	rec := session.Session{
		ID:               f.newID(),
		Subject:          subject,
		DurationMinutes:  durationMinutes(cfg, p),
		QuestionsTotal:   total,
		QuestionsCorrect: correct,
		Timestamp:        ts.Local(),
		Type:             typ,
	}

	if err := f.store.Append(ctx, &rec); err != nil {
		return session.Session{}, fmt.Errorf("append session: %w", err)
	}
	return rec, nil
}

// durationMinutes computes the credited study time for a pending run.
func durationMinutes(cfg Config, p Pending) int {
	if p.Trigger == TriggerCompleted {
		return cfg.StudyMinutes
	}
	m := (p.ElapsedSeconds + 59) / 60
	if m < 1 {
		m = 1
	}
	return m
}
