package memory

import (
	"context"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

type BootcampsRepo struct {
	s *Store
}

var bootcampSort = map[string]comparator[bootcamp.Bootcamp]{
	"name":          func(a, b bootcamp.Bootcamp) int { return strings.Compare(a.Name, b.Name) },
	"createdAt":     func(a, b bootcamp.Bootcamp) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"averageCost":   func(a, b bootcamp.Bootcamp) int { return floatPtrCmp(a.AverageCost, b.AverageCost) },
	"averageRating": func(a, b bootcamp.Bootcamp) int { return floatPtrCmp(a.AverageRating, b.AverageRating) },
}

func bootcampID(b bootcamp.Bootcamp) string { return b.ID }

// withAggregates fills the derived averages. Callers hold the read lock.
func (r *BootcampsRepo) withAggregates(b bootcamp.Bootcamp) bootcamp.Bootcamp {
	var ratingSum, ratingN, tuitionSum, tuitionN int

	for _, rv := range r.s.reviews {
		if rv.BootcampID == b.ID {
			ratingSum += rv.Rating
			ratingN++
		}
	}
	for _, c := range r.s.courses {
		if c.BootcampID == b.ID {
			tuitionSum += c.Tuition
			tuitionN++
		}
	}

	b.AverageRating, b.AverageCost = nil, nil
	if ratingN > 0 {
		avg := float64(ratingSum) / float64(ratingN)
		b.AverageRating = &avg
	}
	if tuitionN > 0 {
		avg := math.Ceil(float64(tuitionSum)/float64(tuitionN)/10) * 10
		b.AverageCost = &avg
	}

	b.Careers = slices.Clone(b.Careers)
	return b
}

func (r *BootcampsRepo) nameTaken(name, exceptID string) bool {
	for id, b := range r.s.bootcamps {
		if id != exceptID && b.Name == name {
			return true
		}
	}
	return false
}

func (r *BootcampsRepo) Create(ctx context.Context, b bootcamp.Bootcamp) (bootcamp.Bootcamp, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.Photo == "" {
		b.Photo = bootcamp.DefaultPhoto
	}
	b.Address = ""
	b.AverageRating, b.AverageCost = nil, nil
	b.Careers = slices.Clone(b.Careers)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(b.Name, "") {
		return bootcamp.Bootcamp{}, errDuplicate("bootcamps_name_key")
	}
	r.s.bootcamps[b.ID] = b

	return b, nil
}

func (r *BootcampsRepo) GetByID(ctx context.Context, id string) (bootcamp.Bootcamp, error) {
	if err := checkID(id); err != nil {
		return bootcamp.Bootcamp{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bootcamps[id]
	if !ok {
		return bootcamp.Bootcamp{}, bootcamp.ErrNotFound
	}
	return r.withAggregates(b), nil
}

func matchesFilter(b bootcamp.Bootcamp, f bootcamp.ListFilter) bool {
	if f.Careers != nil && !slices.Contains(b.Careers, *f.Careers) {
		return false
	}
	if f.City != nil && !strings.EqualFold(b.Location.City, *f.City) {
		return false
	}
	if f.State != nil && !strings.EqualFold(b.Location.State, *f.State) {
		return false
	}
	if f.Housing != nil && b.Housing != *f.Housing {
		return false
	}
	if f.JobGuarantee != nil && b.JobGuarantee != *f.JobGuarantee {
		return false
	}
	if f.MaxCost != nil && (b.AverageCost == nil || *b.AverageCost > *f.MaxCost) {
		return false
	}
	return true
}

func (r *BootcampsRepo) List(ctx context.Context, f bootcamp.ListFilter) ([]bootcamp.Bootcamp, int, error) {
	r.s.mu.RLock()
	out := make([]bootcamp.Bootcamp, 0, len(r.s.bootcamps))
	for _, b := range r.s.bootcamps {
		b = r.withAggregates(b)
		if matchesFilter(b, f) {
			out = append(out, b)
		}
	}
	r.s.mu.RUnlock()

	sortBy(out, f.Sort, bootcampSort, "-createdAt", bootcampID)

	return window(out, f.Limit, f.Offset), len(out), nil
}

func (r *BootcampsRepo) ListWithinRadius(ctx context.Context, lat, lng, miles float64) ([]bootcamp.Bootcamp, error) {
	type hit struct {
		b    bootcamp.Bootcamp
		dist float64
	}

	r.s.mu.RLock()
	var hits []hit
	for _, b := range r.s.bootcamps {
		d := utils.HaversineMiles(lat, lng, b.Location.Latitude(), b.Location.Longitude())
		if d <= miles {
			hits = append(hits, hit{b: r.withAggregates(b), dist: d})
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(hits, func(a, b hit) int {
		if a.dist != b.dist {
			if a.dist < b.dist {
				return -1
			}
			return 1
		}
		return strings.Compare(a.b.ID, b.b.ID)
	})

	out := make([]bootcamp.Bootcamp, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.b)
	}
	return out, nil
}

func (r *BootcampsRepo) Update(ctx context.Context, b bootcamp.Bootcamp, ownerID string) (bootcamp.Bootcamp, error) {
	if err := checkID(b.ID); err != nil {
		return bootcamp.Bootcamp{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.bootcamps[b.ID]
	if !ok || !ownerMatches(cur.UserID, ownerID) {
		return bootcamp.Bootcamp{}, bootcamp.ErrNotFound
	}
	if r.nameTaken(b.Name, b.ID) {
		return bootcamp.Bootcamp{}, errDuplicate("bootcamps_name_key")
	}

	// owner and creation time are not writable
	b.UserID, b.CreatedAt = cur.UserID, cur.CreatedAt
	b.Address = ""
	b.Careers = slices.Clone(b.Careers)
	r.s.bootcamps[b.ID] = b

	return r.withAggregates(b), nil
}

func (r *BootcampsRepo) Delete(ctx context.Context, id, ownerID string) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.bootcamps[id]
	if !ok || !ownerMatches(cur.UserID, ownerID) {
		return bootcamp.ErrNotFound
	}

	for _, c := range r.s.courses {
		if c.BootcampID == id {
			return errForeignKey("courses_bootcamp_id_fkey")
		}
	}
	for _, rv := range r.s.reviews {
		if rv.BootcampID == id {
			return errForeignKey("reviews_bootcamp_id_fkey")
		}
	}

	delete(r.s.bootcamps, id)
	return nil
}

func (r *BootcampsRepo) CountByOwner(ctx context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, b := range r.s.bootcamps {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}
