package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
	"github.com/gauravsharma29/Dev-Camper-API/internal/geocode"
	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

// BootcampDetail is a bootcamp together with its courses.
type BootcampDetail struct {
	bootcamp.Bootcamp
	Courses []course.Course `json:"courses"`
}

type BootcampService struct {
	bootcamps BootcampStore
	courses   CourseStore
	reviews   ReviewStore
	tx        TxRunner
	geocoder  geocode.Geocoder
	log       *slog.Logger
}

func NewBootcampService(bootcamps BootcampStore, courses CourseStore, reviews ReviewStore, tx TxRunner, g geocode.Geocoder, log *slog.Logger) *BootcampService {
	if log == nil {
		log = slog.Default()
	}
	return &BootcampService{bootcamps: bootcamps, courses: courses, reviews: reviews, tx: tx, geocoder: g, log: log}
}

func bootcampNotFound(id string) error {
	return apperr.NotFound(fmt.Sprintf("Bootcamp not found with id of %s", id))
}

func (s *BootcampService) List(ctx context.Context, f bootcamp.ListFilter) ([]bootcamp.Bootcamp, int, error) {
	return s.bootcamps.List(ctx, f)
}

func (s *BootcampService) get(ctx context.Context, id string) (bootcamp.Bootcamp, error) {
	b, err := s.bootcamps.GetByID(ctx, id)
	if errors.Is(err, bootcamp.ErrNotFound) {
		return bootcamp.Bootcamp{}, bootcampNotFound(id)
	}
	return b, err
}

func (s *BootcampService) Get(ctx context.Context, id string) (BootcampDetail, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return BootcampDetail{}, err
	}

	courses, err := s.courses.ListByBootcamp(ctx, id)
	if err != nil {
		return BootcampDetail{}, err
	}

	return BootcampDetail{Bootcamp: b, Courses: courses}, nil
}

// WithinRadius geocodes a zipcode and returns the bootcamps within distance miles of it.
func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, distance float64) ([]bootcamp.Bootcamp, error) {
	if distance < 0 {
		var errs validation.Errors
		errs.Add("distance", "Please provide a non-negative distance")
		return nil, errs.Err()
	}

	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}

	return s.bootcamps.ListWithinRadius(ctx, loc.Latitude, loc.Longitude, distance)
}

// locate replaces the raw address on b with the geocoded location.
func (s *BootcampService) locate(ctx context.Context, b *bootcamp.Bootcamp) error {
	res, err := s.geocoder.Geocode(ctx, b.Address)
	if err != nil {
		return err
	}

	b.Location = LocationOf(res)
	b.Address = ""
	return nil
}

// LocationOf converts a geocoder hit into the stored GeoJSON point.
func LocationOf(res geocode.Result) bootcamp.Location {
	return bootcamp.Location{
		Type:             "Point",
		Coordinates:      [2]float64{res.Longitude, res.Latitude},
		FormattedAddress: res.FormattedAddress,
		Street:           res.Street,
		City:             res.City,
		State:            res.StateCode,
		Zipcode:          res.Zipcode,
		Country:          res.CountryCode,
	}
}

// Create stores a bootcamp owned by the actor. Publishers may own one bootcamp.
func (s *BootcampService) Create(ctx context.Context, actor actorctx.Actor, req bootcamp.CreateRequest) (bootcamp.Bootcamp, error) {
	if !actor.IsAdmin() {
		n, err := s.bootcamps.CountByOwner(ctx, actor.ID)
		if err != nil {
			return bootcamp.Bootcamp{}, err
		}
		if n > 0 {
			return bootcamp.Bootcamp{}, apperr.BadRequest(fmt.Sprintf("The user with ID %s has already published a bootcamp", actor.ID))
		}
	}

	b := bootcamp.NewFromCreateRequest(req, actor.ID)
	if err := b.Validate(true); err != nil {
		return bootcamp.Bootcamp{}, err
	}
	b.DeriveSlug()

	if err := s.locate(ctx, &b); err != nil {
		return bootcamp.Bootcamp{}, err
	}

	created, err := s.bootcamps.Create(ctx, b)
	if err != nil {
		return bootcamp.Bootcamp{}, err
	}

	s.log.InfoContext(ctx, "bootcamp.created", "bootcamp_id", created.ID, "user_id", actor.ID)
	return created, nil
}

func (s *BootcampService) Update(ctx context.Context, actor actorctx.Actor, id string, req bootcamp.UpdateRequest) (bootcamp.Bootcamp, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return bootcamp.Bootcamp{}, err
	}

	guard, err := authorizeOwner(actor, b.UserID, "update", "bootcamp")
	if err != nil {
		return bootcamp.Bootcamp{}, err
	}

	addressChanged := b.Apply(req)
	if err := b.Validate(addressChanged); err != nil {
		return bootcamp.Bootcamp{}, err
	}
	b.DeriveSlug()

	if addressChanged {
		if err := s.locate(ctx, &b); err != nil {
			return bootcamp.Bootcamp{}, err
		}
	}

	updated, err := s.bootcamps.Update(ctx, b, guard)
	if errors.Is(err, bootcamp.ErrNotFound) {
		return bootcamp.Bootcamp{}, bootcampNotFound(id)
	}
	return updated, err
}

// Delete removes the bootcamp's courses, its reviews and then the bootcamp in
// one transaction. Nothing is removed unless all three succeed.
func (s *BootcampService) Delete(ctx context.Context, actor actorctx.Actor, id string) error {
	b, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	guard, err := authorizeOwner(actor, b.UserID, "delete", "bootcamp")
	if err != nil {
		return err
	}

	var removedCourses, removedReviews int

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if removedCourses, err = s.courses.DeleteByBootcamp(ctx, id); err != nil {
			return fmt.Errorf("delete courses of bootcamp %s: %w", id, err)
		}
		if removedReviews, err = s.reviews.DeleteByBootcamp(ctx, id); err != nil {
			return fmt.Errorf("delete reviews of bootcamp %s: %w", id, err)
		}
		return s.bootcamps.Delete(ctx, id, guard)
	})
	if errors.Is(err, bootcamp.ErrNotFound) {
		return bootcampNotFound(id)
	}
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "bootcamp.deleted",
		"bootcamp_id", id,
		"courses_removed", removedCourses,
		"reviews_removed", removedReviews,
	)
	return nil
}
