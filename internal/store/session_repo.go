package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akshat/stint/internal/session"
)

// SessionRepo is the session-log collaborator: append-only writes from
// the finalizer, ordered reads for the aggregator.
type SessionRepo interface {
	// Append stores a new session record, assigning its sequence.
	Append(ctx context.Context, rec *session.Session) error

	// All returns the full log ordered by sequence.
	All(ctx context.Context) ([]session.Session, error)
}

type sessionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *sessionRepo) Append(ctx context.Context, rec *session.Session) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	rec.Sequence = seqNum

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions
			(id, sequence, subject, duration_minutes, questions_total, questions_correct, timestamp, session_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Sequence,
		rec.Subject,
		rec.DurationMinutes,
		rec.QuestionsTotal,
		rec.QuestionsCorrect,
		rec.Timestamp.Format(time.RFC3339),
		string(rec.Type),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) All(ctx context.Context) ([]session.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, subject, duration_minutes, questions_total, questions_correct, timestamp, session_type
		FROM sessions ORDER BY sequence`,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []session.Session
	for rows.Next() {
		var rec session.Session
		var ts, typ string
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.Subject,
			&rec.DurationMinutes, &rec.QuestionsTotal, &rec.QuestionsCorrect,
			&ts, &typ,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}

		// RFC3339 keeps the offset the session was recorded with, which
		// the aggregator needs for calendar-day bucketing. A hand-edited
		// unparseable timestamp degrades to the zero time rather than
		// failing the whole load.
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Type = session.Type(typ)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}
