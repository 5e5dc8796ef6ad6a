package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
)

type UsersRepo struct {
	s *Store
}

var userSort = map[string]comparator[user.User]{
	"name":      func(a, b user.User) int { return strings.Compare(a.Name, b.Name) },
	"email":     func(a, b user.User) int { return strings.Compare(a.Email, b.Email) },
	"role":      func(a, b user.User) int { return strings.Compare(a.Role, b.Role) },
	"createdAt": func(a, b user.User) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

// public strips credential and reset state the way default projections do.
func (rec userRecord) public() user.User {
	u := rec.User
	u.PasswordHash = ""
	u.ResetPasswordToken = nil
	u.ResetPasswordExpire = nil
	return u
}

func (r *UsersRepo) emailTaken(email, exceptID string) bool {
	for id, rec := range r.s.users {
		if id != exceptID && rec.Email == email {
			return true
		}
	}
	return false
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(u.Email, "") {
		return user.User{}, errDuplicate("users_email_key")
	}

	rec := userRecord{User: u, passwordHash: u.PasswordHash}
	r.s.users[u.ID] = rec

	return rec.public(), nil
}

func (r *UsersRepo) get(id string) (userRecord, error) {
	if err := checkID(id); err != nil {
		return userRecord{}, err
	}

	rec, ok := r.s.users[id]
	if !ok {
		return userRecord{}, user.ErrNotFound
	}
	return rec, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, err := r.get(id)
	if err != nil {
		return user.User{}, err
	}
	return rec.public(), nil
}

func (r *UsersRepo) GetCredentialsByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, err := r.get(id)
	if err != nil {
		return user.User{}, err
	}

	u := rec.public()
	u.PasswordHash = rec.passwordHash
	return u, nil
}

func (r *UsersRepo) findByEmail(email string) (userRecord, bool) {
	for _, rec := range r.s.users {
		if rec.Email == email {
			return rec, true
		}
	}
	return userRecord{}, false
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.findByEmail(email)
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return rec.public(), nil
}

func (r *UsersRepo) GetCredentialsByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.findByEmail(email)
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	u := rec.public()
	u.PasswordHash = rec.passwordHash
	return u, nil
}

func (r *UsersRepo) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.users {
		if rec.ResetPasswordToken != nil && *rec.ResetPasswordToken == tokenHash &&
			rec.ResetPasswordExpire != nil && rec.ResetPasswordExpire.After(now) {
			return rec.public(), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

// ResetState exposes the stored reset token hash and expiry for assertions.
func (r *UsersRepo) ResetState(id string) (*string, *time.Time) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec := r.s.users[id]
	return rec.ResetPasswordToken, rec.ResetPasswordExpire
}

func (r *UsersRepo) List(ctx context.Context, f user.ListFilter) ([]user.User, int, error) {
	r.s.mu.RLock()
	out := make([]user.User, 0, len(r.s.users))
	for _, rec := range r.s.users {
		if f.Role != nil && rec.Role != *f.Role {
			continue
		}
		out = append(out, rec.public())
	}
	r.s.mu.RUnlock()

	sortBy(out, f.Sort, userSort, "-createdAt", func(u user.User) string { return u.ID })

	return window(out, f.Limit, f.Offset), len(out), nil
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, err := r.get(u.ID)
	if err != nil {
		return user.User{}, err
	}
	if r.emailTaken(u.Email, u.ID) {
		return user.User{}, errDuplicate("users_email_key")
	}

	rec.Name, rec.Email, rec.Role = u.Name, u.Email, u.Role
	r.s.users[u.ID] = rec

	return rec.public(), nil
}

func (r *UsersRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, err := r.get(id)
	if err != nil {
		return err
	}

	rec.passwordHash = passwordHash
	rec.ResetPasswordToken, rec.ResetPasswordExpire = nil, nil
	r.s.users[id] = rec
	return nil
}

func (r *UsersRepo) SetResetToken(ctx context.Context, id string, tokenHash *string, expire *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, err := r.get(id)
	if err != nil {
		return err
	}

	rec.ResetPasswordToken, rec.ResetPasswordExpire = tokenHash, expire
	r.s.users[id] = rec
	return nil
}

func (r *UsersRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for id, rec := range r.s.users {
		if rec.ResetPasswordExpire != nil && !rec.ResetPasswordExpire.After(now) {
			rec.ResetPasswordToken, rec.ResetPasswordExpire = nil, nil
			r.s.users[id] = rec
			n++
		}
	}
	return n, nil
}

// Delete mirrors the foreign keys: courses and reviews by the user go with it,
// owned bootcamps block the delete.
func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.get(id); err != nil {
		return err
	}
	for _, b := range r.s.bootcamps {
		if b.UserID == id {
			return errForeignKey("bootcamps_user_id_fkey")
		}
	}

	for cid, c := range r.s.courses {
		if c.UserID == id {
			delete(r.s.courses, cid)
		}
	}
	for rid, rv := range r.s.reviews {
		if rv.UserID == id {
			delete(r.s.reviews, rid)
		}
	}
	delete(r.s.users, id)
	return nil
}
