// Package stats derives streaks and per-day rollups from the session
// log. Everything here is a pure recomputation: nothing derived is ever
// persisted, and the log may have been hand-edited out of order, so every
// function must tolerate arbitrary record contents without failing.
package stats

import (
	"sort"
	"time"

	"github.com/akshat/stint/internal/session"
)

// DateLayout is the calendar-date key format for day buckets.
const DateLayout = "2006-01-02"

// Totals accumulates the three tracked quantities.
type Totals struct {
	DurationMinutes int
	Questions       int
	Correct         int
}

// DayBucket aggregates all sessions sharing a calendar date.
type DayBucket struct {
	Date       string
	Totals     Totals
	Sessions   int
	PerSubject map[string]Totals
}

// localDate buckets a timestamp by the calendar date of the offset it was
// recorded with. Converting to UTC first would shift late-night sessions
// into the wrong day.
func localDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DailyBuckets groups the session log by local calendar date. Input order
// is irrelevant. Malformed records (negative counts, correct above total,
// missing subject) are counted with defensive defaults, never rejected.
func DailyBuckets(sessions []session.Session) map[string]*DayBucket {
	buckets := make(map[string]*DayBucket)

	for _, s := range sessions {
		day := localDate(s.Timestamp)
		b := buckets[day]
		if b == nil {
			b = &DayBucket{Date: day, PerSubject: make(map[string]Totals)}
			buckets[day] = b
		}

		dur := s.DurationMinutes
		if dur < 0 {
			dur = 0
		}
		total := s.QuestionsTotal
		if total < 0 {
			total = 0
		}
		correct := s.QuestionsCorrect
		if correct < 0 {
			correct = 0
		}
		if correct > total {
			correct = total
		}

		subject := s.Subject
		if subject == "" {
			subject = session.FreeStudySubject
		}

		b.Totals.DurationMinutes += dur
		b.Totals.Questions += total
		b.Totals.Correct += correct
		b.Sessions++

		ps := b.PerSubject[subject]
		ps.DurationMinutes += dur
		ps.Questions += total
		ps.Correct += correct
		b.PerSubject[subject] = ps
	}

	return buckets
}

// SortedDays returns the buckets ordered by date descending (most recent
// first).
func SortedDays(buckets map[string]*DayBucket) []*DayBucket {
	days := make([]*DayBucket, 0, len(buckets))
	for _, b := range buckets {
		days = append(days, b)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}
