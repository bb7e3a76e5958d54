package stats

import (
	"time"

	"github.com/akshat/stint/internal/session"
)

// Streak counts consecutive calendar days with at least one session,
// ending today or yesterday. Today contributes 1 if it has a session;
// the walk then steps backward from yesterday, one day at a time, until
// the first day without a session. Each session's day is taken from the
// offset its timestamp was recorded with.
func Streak(sessions []session.Session, today time.Time) int {
	if len(sessions) == 0 {
		return 0
	}

	days := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		days[localDate(s.Timestamp)] = true
	}

	count := 0
	if days[localDate(today)] {
		count = 1
	}
	for d := today.AddDate(0, 0, -1); days[localDate(d)]; d = d.AddDate(0, 0, -1) {
		count++
	}
	return count
}
