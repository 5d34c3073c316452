package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/semester-scrapbook/internal/model"
)

// PostRepo provides CRUD operations for wall posts.  Posts are ordered for
// display by created_at descending; the auto-increment seq column breaks
// ties in insertion order.  Deletion is unconditional at this layer: no
// author check is performed (see the access design notes).
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = `seq, id, semester_id, type, content, author,
	COALESCE(image_data,''), COALESCE(image_url,''),
	COALESCE(event_title,''), COALESCE(event_date,''),
	color_tag, created_at, updated_at`

// Create inserts a post and reads back the server-assigned seq and
// timestamps. The caller must have validated the post shape already; the
// store does not re-validate.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO posts (id, semester_id, type, content, author, image_data, image_url, event_title, event_date, color_tag)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.SemesterID, p.Type, p.Content, p.Author,
		nullable(p.ImageData), nullable(p.ImageURL),
		nullable(p.EventTitle), nullable(p.EventDate), p.ColorTag)
	if err != nil {
		return err
	}
	got, err := r.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// Get returns a single post by id or ErrNotFound.
func (r *PostRepo) Get(ctx context.Context, id string) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1", id).Scan(
		&p.Seq, &p.ID, &p.SemesterID, &p.Type, &p.Content, &p.Author,
		&p.ImageData, &p.ImageURL, &p.EventTitle, &p.EventDate,
		&p.ColorTag, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// ListBySemester returns the full wall of a semester, newest first.
// created_at ties resolve by insertion order.
func (r *PostRepo) ListBySemester(ctx context.Context, semesterID string) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE semester_id=? ORDER BY created_at DESC, seq DESC",
		semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.Seq, &p.ID, &p.SemesterID, &p.Type, &p.Content, &p.Author,
			&p.ImageData, &p.ImageURL, &p.EventTitle, &p.EventDate,
			&p.ColorTag, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Delete removes a post by id. Returns ErrNotFound when no row matched.
func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Update merges the non-nil fields of upd into the post and refreshes
// updated_at (handled by the column's ON UPDATE clause).
func (r *PostRepo) Update(ctx context.Context, id string, upd model.PostUpdate) error {
	query := "UPDATE posts SET "
	args := make([]any, 0, 4)
	first := true
	appendSet := func(col string, v any) {
		if !first {
			query += ", "
		}
		query += col + "=?"
		args = append(args, v)
		first = false
	}
	if upd.Content != nil {
		appendSet("content", *upd.Content)
	}
	if upd.Author != nil {
		appendSet("author", *upd.Author)
	}
	if upd.ColorTag != nil {
		appendSet("color_tag", *upd.ColorTag)
	}
	if upd.EventTitle != nil {
		appendSet("event_title", *upd.EventTitle)
	}
	if upd.EventDate != nil {
		appendSet("event_date", *upd.EventDate)
	}
	if first {
		// An empty patch still counts as an update: touch updated_at so
		// the post surfaces as freshly modified.
		appendSet("updated_at", time.Now().UTC())
	}
	query += " WHERE id=?"
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish missing rows from no-op merges.
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
