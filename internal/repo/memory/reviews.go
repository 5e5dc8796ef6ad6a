package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
)

type ReviewsRepo struct {
	s *Store
}

var reviewSort = map[string]comparator[review.Review]{
	"title":     func(a, b review.Review) int { return strings.Compare(a.Title, b.Title) },
	"rating":    func(a, b review.Review) int { return a.Rating - b.Rating },
	"createdAt": func(a, b review.Review) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func (r *ReviewsRepo) joined(rv review.Review) review.Review {
	b := r.s.bootcamps[rv.BootcampID]
	rv.Bootcamp = &bootcamp.Summary{ID: b.ID, Name: b.Name, Description: b.Description}
	return rv
}

func (r *ReviewsRepo) Create(ctx context.Context, rv review.Review) (review.Review, error) {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	if rv.CreatedAt.IsZero() {
		rv.CreatedAt = time.Now().UTC()
	}
	rv.Bootcamp = nil

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bootcamps[rv.BootcampID]; !ok {
		return review.Review{}, errForeignKey("reviews_bootcamp_id_fkey")
	}
	for _, other := range r.s.reviews {
		if other.BootcampID == rv.BootcampID && other.UserID == rv.UserID {
			return review.Review{}, errDuplicate("reviews_bootcamp_id_user_id_key")
		}
	}
	r.s.reviews[rv.ID] = rv

	return rv, nil
}

func (r *ReviewsRepo) GetByID(ctx context.Context, id string) (review.Review, error) {
	if err := checkID(id); err != nil {
		return review.Review{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rv, ok := r.s.reviews[id]
	if !ok {
		return review.Review{}, review.ErrNotFound
	}
	return r.joined(rv), nil
}

func (r *ReviewsRepo) List(ctx context.Context, f review.ListFilter) ([]review.Review, int, error) {
	r.s.mu.RLock()
	out := make([]review.Review, 0, len(r.s.reviews))
	for _, rv := range r.s.reviews {
		if f.BootcampID != nil && rv.BootcampID != *f.BootcampID {
			continue
		}
		out = append(out, r.joined(rv))
	}
	r.s.mu.RUnlock()

	sortBy(out, f.Sort, reviewSort, "-createdAt", func(rv review.Review) string { return rv.ID })

	return window(out, f.Limit, f.Offset), len(out), nil
}

func (r *ReviewsRepo) Update(ctx context.Context, rv review.Review, ownerID string) (review.Review, error) {
	if err := checkID(rv.ID); err != nil {
		return review.Review{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.reviews[rv.ID]
	if !ok || !ownerMatches(cur.UserID, ownerID) {
		return review.Review{}, review.ErrNotFound
	}

	rv.BootcampID, rv.UserID, rv.CreatedAt = cur.BootcampID, cur.UserID, cur.CreatedAt
	rv.Bootcamp = nil
	r.s.reviews[rv.ID] = rv

	return r.joined(rv), nil
}

func (r *ReviewsRepo) Delete(ctx context.Context, id, ownerID string) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.reviews[id]
	if !ok || !ownerMatches(cur.UserID, ownerID) {
		return review.ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r *ReviewsRepo) DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for id, rv := range r.s.reviews {
		if rv.BootcampID == bootcampID {
			delete(r.s.reviews, id)
			n++
		}
	}
	return n, nil
}
