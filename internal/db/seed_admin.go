package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/security"
)

type execQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AdminAccount struct {
	Email    string
	Password string
	Name     string
}

// EnsureAdminUser creates the admin account unless a user with that email exists.
// It is a no-op when email or password is empty.
func EnsureAdminUser(ctx context.Context, db execQuerier, acct AdminAccount) (created bool, err error) {
	email := user.NormalizeEmail(acct.Email)
	if email == "" || acct.Password == "" {
		return false, nil
	}

	var existing string

	err = db.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&existing)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	u := user.User{
		ID:        uuid.NewString(),
		Name:      acct.Name,
		Email:     email,
		Role:      user.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if u.Name == "" {
		u.Name = "Admin"
	}

	if err := u.ValidateWithPassword(acct.Password); err != nil {
		return false, err
	}

	u.PasswordHash, err = security.HashPassword(acct.Password)
	if err != nil {
		return false, err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (id, name, email, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		return false, err
	}

	return true, nil
}
