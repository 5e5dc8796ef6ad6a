// Package memory holds in-process stores used by tests and STORAGE_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

// Store is shared by all memory repos so joins and aggregates see one dataset.
type Store struct {
	mu        sync.RWMutex
	users     map[string]userRecord
	bootcamps map[string]bootcamp.Bootcamp
	courses   map[string]course.Course
	reviews   map[string]review.Review
}

type userRecord struct {
	user.User
	passwordHash string
}

func NewStore() *Store {
	return &Store{
		users:     make(map[string]userRecord),
		bootcamps: make(map[string]bootcamp.Bootcamp),
		courses:   make(map[string]course.Course),
		reviews:   make(map[string]review.Review),
	}
}

func (s *Store) Users() *UsersRepo         { return &UsersRepo{s: s} }
func (s *Store) Bootcamps() *BootcampsRepo { return &BootcampsRepo{s: s} }
func (s *Store) Courses() *CoursesRepo     { return &CoursesRepo{s: s} }
func (s *Store) Reviews() *ReviewsRepo     { return &ReviewsRepo{s: s} }

// WithinTx restores the dataset to its prior state if fn fails. Writes from
// concurrent callers during fn are lost on rollback.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.RLock()
	users, bootcamps := maps.Clone(s.users), maps.Clone(s.bootcamps)
	courses, reviews := maps.Clone(s.courses), maps.Clone(s.reviews)
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.users, s.bootcamps, s.courses, s.reviews = users, bootcamps, courses, reviews
		s.mu.Unlock()
		return err
	}
	return nil
}

// DestroyAll empties the store.
func (s *Store) DestroyAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.users)
	clear(s.bootcamps)
	clear(s.courses)
	clear(s.reviews)
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// errDuplicate has the shape postgres reports for a unique violation.
func errDuplicate(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

func errForeignKey(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint, Message: "update or delete violates foreign key constraint"}
}

func checkID(id string) error {
	if !utils.IsUUID(id) {
		return apperr.MalformedID(id)
	}
	return nil
}

// window applies limit/offset to an already sorted slice.
func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ownerMatches mirrors the guarded SQL writes: empty owner means unguarded.
func ownerMatches(recordOwner, guard string) bool {
	return guard == "" || recordOwner == guard
}
