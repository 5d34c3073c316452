package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// JoinLogRepo appends to the semester_logs audit trail.  The trail is
// write-once: nothing in the application reads it back, it exists for
// operators.
type JoinLogRepo struct{ DB *sql.DB }

func NewJoinLogRepo(db *sql.DB) *JoinLogRepo { return &JoinLogRepo{DB: db} }

// Append writes one audit row.
func (r *JoinLogRepo) Append(ctx context.Context, e model.JoinLogEntry) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO semester_logs (semester_id, user_id, user_email, action) VALUES (?,?,?,?)",
		e.SemesterID, e.UserID, e.UserEmail, e.Action)
	return err
}
