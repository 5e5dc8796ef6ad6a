package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/security"
)

// UserService backs the admin user management routes.
type UserService struct {
	users     UserStore
	bootcamps BootcampStore
}

func NewUserService(users UserStore, bootcamps BootcampStore) *UserService {
	return &UserService{users: users, bootcamps: bootcamps}
}

func userNotFound(id string) error {
	return apperr.NotFound(fmt.Sprintf("No user with the id of %s", id))
}

func (s *UserService) List(ctx context.Context, f user.ListFilter) ([]user.User, int, error) {
	return s.users.List(ctx, f)
}

func (s *UserService) Get(ctx context.Context, id string) (user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, userNotFound(id)
	}
	return u, err
}

func (s *UserService) Create(ctx context.Context, req user.CreateRequest) (user.User, error) {
	u := user.User{
		Name:  strings.TrimSpace(req.Name),
		Email: user.NormalizeEmail(req.Email),
		Role:  req.Role,
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}

	if err := u.ValidateWithPassword(req.Password); err != nil {
		return user.User{}, err
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return user.User{}, apperr.Internal("Server Error", err)
	}
	u.PasswordHash = hash

	return s.users.Create(ctx, u)
}

func (s *UserService) Update(ctx context.Context, id string, req user.UpdateRequest) (user.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return user.User{}, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = user.NormalizeEmail(*req.Email)
	}
	if req.Role != nil {
		u.Role = *req.Role
	}

	if err := u.Validate(); err != nil {
		return user.User{}, err
	}

	updated, err := s.users.Update(ctx, u)
	if errors.Is(err, user.ErrNotFound) {
		return user.User{}, userNotFound(id)
	}
	return updated, err
}

// Delete refuses to remove a user who still owns bootcamps; their courses and
// reviews go with them.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	n, err := s.bootcamps.CountByOwner(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.BadRequest(fmt.Sprintf("User %s still owns %d bootcamp(s)", id, n))
	}

	err = s.users.Delete(ctx, id)
	if errors.Is(err, user.ErrNotFound) {
		return userNotFound(id)
	}
	return err
}
