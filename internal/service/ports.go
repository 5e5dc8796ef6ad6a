// Package service orchestrates the stores, the geocoder and the mailer behind
// each API operation. Every failure it returns is either an *apperr.Error, a
// *validation.Errors or a raw store error left for the error handler to classify.
package service

import (
	"context"
	"time"

	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
)

type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetCredentialsByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (user.User, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (user.User, error)
	List(ctx context.Context, f user.ListFilter) ([]user.User, int, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id string, tokenHash *string, expire *time.Time) error
	Delete(ctx context.Context, id string) error
}

type BootcampStore interface {
	Create(ctx context.Context, b bootcamp.Bootcamp) (bootcamp.Bootcamp, error)
	GetByID(ctx context.Context, id string) (bootcamp.Bootcamp, error)
	List(ctx context.Context, f bootcamp.ListFilter) ([]bootcamp.Bootcamp, int, error)
	ListWithinRadius(ctx context.Context, lat, lng, miles float64) ([]bootcamp.Bootcamp, error)
	Update(ctx context.Context, b bootcamp.Bootcamp, ownerID string) (bootcamp.Bootcamp, error)
	Delete(ctx context.Context, id, ownerID string) error
	CountByOwner(ctx context.Context, userID string) (int, error)
}

type CourseStore interface {
	Create(ctx context.Context, c course.Course) (course.Course, error)
	GetByID(ctx context.Context, id string) (course.Course, error)
	List(ctx context.Context, f course.ListFilter) ([]course.Course, int, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]course.Course, error)
	Update(ctx context.Context, c course.Course, ownerID string) (course.Course, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error)
}

type ReviewStore interface {
	Create(ctx context.Context, r review.Review) (review.Review, error)
	GetByID(ctx context.Context, id string) (review.Review, error)
	List(ctx context.Context, f review.ListFilter) ([]review.Review, int, error)
	Update(ctx context.Context, r review.Review, ownerID string) (review.Review, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error)
}

// TxRunner runs fn in one transaction; stores called with fn's ctx join it.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TokenIssuer interface {
	GenerateToken(userID, role string) (string, *auth.Claims, error)
}
