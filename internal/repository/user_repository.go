package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/semester-scrapbook/internal/model"
	"github.com/iliyamo/semester-scrapbook/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

// Create inserts the account and its denormalized profile, returning the
// generated user id.
func (r *UserRepo) Create(ctx context.Context, email, password, displayName string, cost int) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, display_name) VALUES (?,?,?,?)",
		id, email, hash, displayName)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrEmailExists
		}
		return "", err
	}
	return id, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(ctx,
		"SELECT id,email,password_hash,display_name,is_active,created_at,updated_at,last_login FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT id,email,password_hash,display_name,is_active,created_at,updated_at,last_login FROM users WHERE id=? LIMIT 1",
		id)
}

// UpdatePassword rehashes and stores a new account password.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// TouchLastLogin records a successful sign-in.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login=NOW() WHERE id=?", id)
	return err
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt, &lastLogin)
	if err != nil {
		return u, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}
