package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// AccessRepo provides CRUD operations for semester access records.  Records
// live in the semester_access table under the composite
// "<semesterID>_<userID>" key, which makes grants naturally idempotent:
// inserting an existing pair is a no-op.  Records are never updated or
// deleted.
type AccessRepo struct{ DB *sql.DB }

func NewAccessRepo(db *sql.DB) *AccessRepo { return &AccessRepo{DB: db} }

// execer abstracts *sql.DB and *sql.Tx so grants can run standalone or
// inside the semester-creation transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const accessColumns = "id, semester_id, user_id, user_email, role, invited_by, joined_at"

// Grant idempotently inserts an access record.  It returns true when a new
// row was written and false when the (semester, user) pair already had one.
func (r *AccessRepo) Grant(ctx context.Context, rec *model.AccessRecord) (bool, error) {
	return grantAccess(ctx, r.DB, rec)
}

// GrantTx is Grant within the scope of an existing transaction.  The caller
// must commit or rollback.
func (r *AccessRepo) GrantTx(ctx context.Context, tx *sql.Tx, rec *model.AccessRecord) (bool, error) {
	return grantAccess(ctx, tx, rec)
}

func grantAccess(ctx context.Context, ex execer, rec *model.AccessRecord) (bool, error) {
	rec.ID = model.AccessKey(rec.SemesterID, rec.UserID)
	res, err := ex.ExecContext(ctx,
		`INSERT IGNORE INTO semester_access (id, semester_id, user_id, user_email, role, invited_by)
		 VALUES (?,?,?,?,?,?)`,
		rec.ID, rec.SemesterID, rec.UserID, rec.UserEmail, rec.Role, rec.InvitedBy)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Get fetches the access record for a (semester, user) pair.  Returns
// ErrNotFound when the user has not joined the semester.
func (r *AccessRepo) Get(ctx context.Context, semesterID, userID string) (model.AccessRecord, error) {
	var rec model.AccessRecord
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+accessColumns+" FROM semester_access WHERE semester_id=? AND user_id=? LIMIT 1",
		semesterID, userID).Scan(
		&rec.ID, &rec.SemesterID, &rec.UserID, &rec.UserEmail, &rec.Role, &rec.InvitedBy, &rec.JoinedAt)
	if err == sql.ErrNoRows {
		return rec, ErrNotFound
	}
	return rec, err
}

// ListByUser returns every access record held by a user, newest first.
// The result determines which semesters the user's session can open.
func (r *AccessRepo) ListByUser(ctx context.Context, userID string) ([]model.AccessRecord, error) {
	return r.list(ctx,
		"SELECT "+accessColumns+" FROM semester_access WHERE user_id=? ORDER BY joined_at DESC",
		userID)
}

// ListBySemester returns every member record of a semester, oldest first so
// the creator naturally comes on top.
func (r *AccessRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.AccessRecord, error) {
	return r.list(ctx,
		"SELECT "+accessColumns+" FROM semester_access WHERE semester_id=? ORDER BY joined_at ASC",
		semesterID)
}

// CountBySemester returns the number of members, used for the public
// semester preview.
func (r *AccessRepo) CountBySemester(ctx context.Context, semesterID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM semester_access WHERE semester_id=?", semesterID).Scan(&n)
	return n, err
}

func (r *AccessRepo) list(ctx context.Context, query string, arg any) ([]model.AccessRecord, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.AccessRecord
	for rows.Next() {
		var rec model.AccessRecord
		if err := rows.Scan(&rec.ID, &rec.SemesterID, &rec.UserID, &rec.UserEmail,
			&rec.Role, &rec.InvitedBy, &rec.JoinedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
