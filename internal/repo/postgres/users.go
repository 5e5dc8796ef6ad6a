package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

const userColumns = `id, name, email, role, created_at`

var userSort = map[string]string{
	"name":      "name",
	"email":     "email",
	"role":      "role",
	"createdAt": "created_at",
}

type UsersRepo struct {
	store
}

func NewUsersRepo(db DBTX, obs Observer) *UsersRepo {
	return &UsersRepo{store{db: db, obs: obs}}
}

func scanUser(row pgx.Row, withHash bool) (user.User, error) {
	var u user.User

	dest := []any{&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt}
	if withHash {
		dest = append(dest, &u.PasswordHash)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	err := r.observe("users.create", func() error {
		_, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO users (id, name, email, role, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, u.Name, u.Email, u.Role, u.PasswordHash, u.CreatedAt,
		)
		return err
	})
	if err != nil {
		return user.User{}, err
	}

	u.PasswordHash = ""
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := r.observe("users.get_by_id", func() error {
		var err error
		u, err = scanUser(r.conn(ctx).QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, id), false)
		return err
	})
	return u, err
}

// GetCredentialsByID is GetByID plus the password hash.
func (r *UsersRepo) GetCredentialsByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := r.observe("users.get_credentials", func() error {
		var err error
		u, err = scanUser(r.conn(ctx).QueryRow(ctx,
			`SELECT `+userColumns+`, password_hash FROM users WHERE id = $1`, id), true)
		return err
	})
	return u, err
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.observe("users.get_by_email", func() error {
		var err error
		u, err = scanUser(r.conn(ctx).QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`, email), false)
		return err
	})
	return u, err
}

// GetCredentialsByEmail is the login lookup and the only email read that selects the hash.
func (r *UsersRepo) GetCredentialsByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.observe("users.get_credentials", func() error {
		var err error
		u, err = scanUser(r.conn(ctx).QueryRow(ctx,
			`SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, email), true)
		return err
	})
	return u, err
}

func (r *UsersRepo) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (user.User, error) {
	var u user.User
	err := r.observe("users.get_by_reset_token", func() error {
		var err error
		u, err = scanUser(r.conn(ctx).QueryRow(ctx,
			`SELECT `+userColumns+` FROM users
			WHERE reset_password_token = $1 AND reset_password_expire > $2`,
			tokenHash, now), false)
		return err
	})
	return u, err
}

func (r *UsersRepo) List(ctx context.Context, f user.ListFilter) ([]user.User, int, error) {
	var w whereBuilder
	if f.Role != nil {
		w.add("role = ?", *f.Role)
	}

	query := `SELECT ` + userColumns + `, COUNT(*) OVER() AS total FROM users` + w.sql() +
		orderBy(f.Sort, userSort, []utils.SortField{{Column: "created_at", Desc: true}}) +
		w.page(f.Limit, f.Offset)

	out := make([]user.User, 0, f.Limit)
	total := 0

	err := r.observe("users.list", func() error {
		rows, err := r.conn(ctx).Query(ctx, query, w.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt, &total); err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// Update writes name, email and role.
func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	var out user.User
	err := r.observe("users.update", func() error {
		var err error
		out, err = scanUser(r.conn(ctx).QueryRow(ctx,
			`UPDATE users SET name = $2, email = $3, role = $4
			WHERE id = $1
			RETURNING `+userColumns,
			u.ID, u.Name, u.Email, u.Role), false)
		return err
	})
	return out, err
}

// UpdatePassword stores a new hash and clears any pending reset token.
func (r *UsersRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.observe("users.update_password", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`UPDATE users
			SET password_hash = $2, reset_password_token = NULL, reset_password_expire = NULL
			WHERE id = $1`,
			id, passwordHash,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}
		return nil
	})
}

// SetResetToken stores the hashed token and expiry. Nil values clear both.
func (r *UsersRepo) SetResetToken(ctx context.Context, id string, tokenHash *string, expire *time.Time) error {
	return r.observe("users.set_reset_token", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`UPDATE users SET reset_password_token = $2, reset_password_expire = $3 WHERE id = $1`,
			id, tokenHash, expire,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}
		return nil
	})
}

func (r *UsersRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int, error) {
	var n int64
	err := r.observe("users.clear_expired_reset_tokens", func() error {
		tag, err := r.conn(ctx).Exec(ctx,
			`UPDATE users SET reset_password_token = NULL, reset_password_expire = NULL
			WHERE reset_password_expire IS NOT NULL AND reset_password_expire <= $1`,
			now,
		)
		n = tag.RowsAffected()
		return err
	})
	return int(n), err
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	return r.observe("users.delete", func() error {
		tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}
		return nil
	})
}
