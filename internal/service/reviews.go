package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
)

type ReviewService struct {
	reviews   ReviewStore
	bootcamps BootcampStore
}

func NewReviewService(reviews ReviewStore, bootcamps BootcampStore) *ReviewService {
	return &ReviewService{reviews: reviews, bootcamps: bootcamps}
}

func (s *ReviewService) List(ctx context.Context, f review.ListFilter) ([]review.Review, int, error) {
	return s.reviews.List(ctx, f)
}

func (s *ReviewService) Get(ctx context.Context, id string) (review.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if errors.Is(err, review.ErrNotFound) {
		return review.Review{}, apperr.NotFound(fmt.Sprintf("No review found with id of %s", id))
	}
	return r, err
}

func (s *ReviewService) Create(ctx context.Context, actor actorctx.Actor, bootcampID string, req review.CreateRequest) (review.Review, error) {
	_, err := s.bootcamps.GetByID(ctx, bootcampID)
	if errors.Is(err, bootcamp.ErrNotFound) {
		return review.Review{}, apperr.NotFound(fmt.Sprintf("No bootcamp with the id of %s", bootcampID))
	}
	if err != nil {
		return review.Review{}, err
	}

	r := review.NewFromCreateRequest(req, bootcampID, actor.ID)
	if err := r.Validate(); err != nil {
		return review.Review{}, err
	}

	return s.reviews.Create(ctx, r)
}

// existing fetches a review for mutation; absence is reported before any ownership check.
func (s *ReviewService) existing(ctx context.Context, id string) (review.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if errors.Is(err, review.ErrNotFound) {
		return review.Review{}, apperr.NotFound(fmt.Sprintf("No review with the id of %s", id))
	}
	return r, err
}

func (s *ReviewService) Update(ctx context.Context, actor actorctx.Actor, id string, req review.UpdateRequest) (review.Review, error) {
	r, err := s.existing(ctx, id)
	if err != nil {
		return review.Review{}, err
	}

	if !actor.Owns(r.UserID) {
		return review.Review{}, apperr.Forbidden("Not authorized to update review")
	}
	guard := actor.ID
	if actor.IsAdmin() {
		guard = ""
	}

	r.Apply(req)
	if err := r.Validate(); err != nil {
		return review.Review{}, err
	}

	updated, err := s.reviews.Update(ctx, r, guard)
	if errors.Is(err, review.ErrNotFound) {
		return review.Review{}, apperr.NotFound(fmt.Sprintf("No review with the id of %s", id))
	}
	return updated, err
}

func (s *ReviewService) Delete(ctx context.Context, actor actorctx.Actor, id string) error {
	r, err := s.existing(ctx, id)
	if err != nil {
		return err
	}

	if !actor.Owns(r.UserID) {
		return apperr.Forbidden("Not authorized to delete review")
	}
	guard := actor.ID
	if actor.IsAdmin() {
		guard = ""
	}

	err = s.reviews.Delete(ctx, id, guard)
	if errors.Is(err, review.ErrNotFound) {
		return apperr.NotFound(fmt.Sprintf("No review with the id of %s", id))
	}
	return err
}
