package session

import "time"

// FreeStudySubject is the sentinel subject recorded when a session was
// started without selecting one.
const FreeStudySubject = "Free study"

// Type distinguishes what kind of work a session contained.
type Type string

const (
	TypeTheory   Type = "theory"
	TypeQuestion Type = "question"
)

// Session is a single finished focus interval. Records are immutable once
// created; only the finalizer builds them, and only the store assigns the
// sequence.
type Session struct {
	// ID is the external identifier (UUID).
	ID string

	// Sequence is the store-assigned monotonic ordering token.
	Sequence int64

	// Subject is the subject studied, or FreeStudySubject.
	Subject string

	// DurationMinutes is the credited study time, always >= 1 for a
	// recorded session.
	DurationMinutes int

	// QuestionsTotal and QuestionsCorrect are the self-reported question
	// counts (both zero when the entry prompt was skipped).
	QuestionsTotal   int
	QuestionsCorrect int

	// Timestamp is the local wall-clock time of finalization. The offset
	// it carries is authoritative for calendar-day bucketing.
	Timestamp time.Time

	// Type marks the session as theory or question work.
	Type Type
}

// Accuracy returns the fraction of correct answers, or 0 if no questions
// were recorded.
func (s Session) Accuracy() float64 {
	if s.QuestionsTotal <= 0 {
		return 0
	}
	return float64(s.QuestionsCorrect) / float64(s.QuestionsTotal)
}

// Subject is a study subject available for selection before a focus run.
// The timer core only reads these; management lives outside the engine.
type Subject struct {
	ID    string
	Name  string
	Color string
}
