package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/akshat/stint/internal/session"
)

// SubjectRepo manages the subject list. The timer engine only ever calls
// List (to gate subject selection before a fresh focus run); Add and
// Remove exist for the seed CLI.
type SubjectRepo interface {
	List(ctx context.Context) ([]session.Subject, error)
	Add(ctx context.Context, name, color string) (session.Subject, error)
	Remove(ctx context.Context, name string) error
}

type subjectRepo struct {
	db *sql.DB
}

func (r *subjectRepo) List(ctx context.Context) ([]session.Subject, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color FROM subjects ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var out []session.Subject
	for rows.Next() {
		var s session.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Color); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return out, nil
}

func (r *subjectRepo) Add(ctx context.Context, name, color string) (session.Subject, error) {
	s := session.Subject{ID: uuid.NewString(), Name: name, Color: color}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subjects (id, name, color) VALUES (?, ?, ?)`,
		s.ID, s.Name, s.Color,
	)
	if err != nil {
		return session.Subject{}, fmt.Errorf("insert subject: %w", err)
	}
	return s, nil
}

func (r *subjectRepo) Remove(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("subject %q not found", name)
	}
	return nil
}
