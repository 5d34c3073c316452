package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// SemesterRepo provides persistence for semester metadata.  Semesters are
// written once at creation and read many times; no update or delete
// statements exist on purpose.
type SemesterRepo struct{ DB *sql.DB }

func NewSemesterRepo(db *sql.DB) *SemesterRepo { return &SemesterRepo{DB: db} }

const semesterColumns = "id, name, description, password, creator_id, is_password_protected, created_at"

// CreateWithAccess inserts the semester and its creator access record in a
// single transaction, so a semester can never exist without a recorded
// creator. The generated timestamps are read back into both records.
func (r *SemesterRepo) CreateWithAccess(ctx context.Context, sem *model.Semester, rec *model.AccessRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO semesters (id, name, description, password, creator_id, is_password_protected)
		 VALUES (?,?,?,?,?,?)`,
		sem.ID, sem.Name, sem.Description, sem.Password, sem.CreatorID, sem.IsPasswordProtected)
	if err != nil {
		return err
	}
	if _, err := grantAccess(ctx, tx, rec); err != nil {
		return err
	}

	// Query back server-assigned timestamps before committing.
	err = tx.QueryRowContext(ctx,
		"SELECT created_at FROM semesters WHERE id=?", sem.ID).Scan(&sem.CreatedAt)
	if err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx,
		"SELECT joined_at FROM semester_access WHERE id=?", rec.ID).Scan(&rec.JoinedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns semester metadata or ErrNotFound.
func (r *SemesterRepo) Get(ctx context.Context, id string) (model.Semester, error) {
	var s model.Semester
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+semesterColumns+" FROM semesters WHERE id=? LIMIT 1", id).Scan(
		&s.ID, &s.Name, &s.Description, &s.Password, &s.CreatorID,
		&s.IsPasswordProtected, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}
