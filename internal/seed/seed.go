// Package seed loads fixture JSON files into a store and wipes them again.
//
// The files use the legacy document layout: every record carries an "_id" and
// references other records by those ids. Ids are mapped to UUIDs
// deterministically, so a re-import produces the same keys.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/geocode"
	"github.com/gauravsharma29/Dev-Camper-API/internal/security"
	"github.com/gauravsharma29/Dev-Camper-API/internal/service"
)

var (
	ErrMissingFile = errors.New("seed: fixture file missing")
	ErrBadRecord   = errors.New("seed: invalid record")
)

// idSpace namespaces the UUIDs derived from legacy ids.
var idSpace = uuid.MustParse("3f1d2c4e-9a7b-4c1e-8d2f-6b5a4e3c2d1f")

func mapID(legacy string) string {
	if legacy == "" {
		return ""
	}
	if _, err := uuid.Parse(legacy); err == nil {
		return legacy
	}
	return uuid.NewSHA1(idSpace, []byte(legacy)).String()
}

type Stores struct {
	Users interface {
		Create(ctx context.Context, u user.User) (user.User, error)
	}
	Bootcamps interface {
		Create(ctx context.Context, b bootcamp.Bootcamp) (bootcamp.Bootcamp, error)
	}
	Courses interface {
		Create(ctx context.Context, c course.Course) (course.Course, error)
	}
	Reviews interface {
		Create(ctx context.Context, r review.Review) (review.Review, error)
	}
	Tx interface {
		WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	}
}

type Counts struct {
	Users     int
	Bootcamps int
	Courses   int
	Reviews   int
}

type userRecord struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type bootcampRecord struct {
	ID   string `json:"_id"`
	User string `json:"user"`
	bootcamp.CreateRequest
}

type courseRecord struct {
	ID       string `json:"_id"`
	User     string `json:"user"`
	Bootcamp string `json:"bootcamp"`
	course.CreateRequest
}

type reviewRecord struct {
	ID       string `json:"_id"`
	User     string `json:"user"`
	Bootcamp string `json:"bootcamp"`
	review.CreateRequest
}

type Importer struct {
	stores   Stores
	geocoder geocode.Geocoder
	log      *slog.Logger
}

func NewImporter(stores Stores, g geocode.Geocoder, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{stores: stores, geocoder: g, log: log}
}

func readFile[T any](dir, name string) ([]T, error) {
	path := filepath.Join(dir, name)

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	if err != nil {
		return nil, err
	}

	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadRecord, path, err)
	}
	return out, nil
}

// Import reads users.json, bootcamps.json, courses.json and reviews.json from
// dir and stores them in one transaction. Addresses are geocoded as on create.
func (im *Importer) Import(ctx context.Context, dir string) (Counts, error) {
	users, err := readFile[userRecord](dir, "users.json")
	if err != nil {
		return Counts{}, err
	}
	bootcamps, err := readFile[bootcampRecord](dir, "bootcamps.json")
	if err != nil {
		return Counts{}, err
	}
	courses, err := readFile[courseRecord](dir, "courses.json")
	if err != nil {
		return Counts{}, err
	}
	reviews, err := readFile[reviewRecord](dir, "reviews.json")
	if err != nil {
		return Counts{}, err
	}

	// geocode before the transaction opens; provider calls are slow
	located := make([]bootcamp.Bootcamp, 0, len(bootcamps))
	for _, rec := range bootcamps {
		b, err := im.bootcamp(ctx, rec)
		if err != nil {
			return Counts{}, err
		}
		located = append(located, b)
	}

	var counts Counts
	err = im.stores.Tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, rec := range users {
			u, err := newUser(rec)
			if err != nil {
				return err
			}
			if _, err := im.stores.Users.Create(ctx, u); err != nil {
				return fmt.Errorf("user %s: %w", rec.Email, err)
			}
			counts.Users++
		}

		for _, b := range located {
			if _, err := im.stores.Bootcamps.Create(ctx, b); err != nil {
				return fmt.Errorf("bootcamp %s: %w", b.Name, err)
			}
			counts.Bootcamps++
		}

		for _, rec := range courses {
			c := course.NewFromCreateRequest(rec.CreateRequest, mapID(rec.Bootcamp), mapID(rec.User))
			c.ID = mapID(rec.ID)
			if err := c.Validate(); err != nil {
				return fmt.Errorf("%w: course %s: %v", ErrBadRecord, rec.Title, err)
			}
			if _, err := im.stores.Courses.Create(ctx, c); err != nil {
				return fmt.Errorf("course %s: %w", rec.Title, err)
			}
			counts.Courses++
		}

		for _, rec := range reviews {
			r := review.NewFromCreateRequest(rec.CreateRequest, mapID(rec.Bootcamp), mapID(rec.User))
			r.ID = mapID(rec.ID)
			if err := r.Validate(); err != nil {
				return fmt.Errorf("%w: review %s: %v", ErrBadRecord, rec.Title, err)
			}
			if _, err := im.stores.Reviews.Create(ctx, r); err != nil {
				return fmt.Errorf("review %s: %w", rec.Title, err)
			}
			counts.Reviews++
		}

		return nil
	})
	if err != nil {
		return Counts{}, err
	}

	im.log.InfoContext(ctx, "seed.imported",
		"users", counts.Users, "bootcamps", counts.Bootcamps,
		"courses", counts.Courses, "reviews", counts.Reviews)
	return counts, nil
}

func newUser(rec userRecord) (user.User, error) {
	u := user.User{
		ID:    mapID(rec.ID),
		Name:  strings.TrimSpace(rec.Name),
		Email: user.NormalizeEmail(rec.Email),
		Role:  rec.Role,
	}
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	if err := u.ValidateWithPassword(rec.Password); err != nil {
		return user.User{}, fmt.Errorf("%w: user %s: %v", ErrBadRecord, rec.Email, err)
	}

	hash, err := security.HashPassword(rec.Password)
	if err != nil {
		return user.User{}, err
	}
	u.PasswordHash = hash
	return u, nil
}

func (im *Importer) bootcamp(ctx context.Context, rec bootcampRecord) (bootcamp.Bootcamp, error) {
	b := bootcamp.NewFromCreateRequest(rec.CreateRequest, mapID(rec.User))
	b.ID = mapID(rec.ID)
	if err := b.Validate(true); err != nil {
		return bootcamp.Bootcamp{}, fmt.Errorf("%w: bootcamp %s: %v", ErrBadRecord, rec.Name, err)
	}
	b.DeriveSlug()

	res, err := im.geocoder.Geocode(ctx, b.Address)
	if err != nil {
		return bootcamp.Bootcamp{}, fmt.Errorf("geocode bootcamp %s: %w", rec.Name, err)
	}
	b.Location = service.LocationOf(res)
	b.Address = ""
	return b, nil
}

// Destroyer wipes every table or map the API writes.
type Destroyer interface {
	DestroyAll(ctx context.Context) error
}

// DestroyFunc adapts a plain function to Destroyer.
type DestroyFunc func(ctx context.Context) error

func (f DestroyFunc) DestroyAll(ctx context.Context) error { return f(ctx) }

func Destroy(ctx context.Context, d Destroyer, log *slog.Logger) error {
	if err := d.DestroyAll(ctx); err != nil {
		return fmt.Errorf("destroy: %w", err)
	}
	if log != nil {
		log.InfoContext(ctx, "seed.destroyed")
	}
	return nil
}
