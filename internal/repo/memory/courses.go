package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
)

type CoursesRepo struct {
	s *Store
}

var courseSort = map[string]comparator[course.Course]{
	"title":     func(a, b course.Course) int { return strings.Compare(a.Title, b.Title) },
	"tuition":   func(a, b course.Course) int { return a.Tuition - b.Tuition },
	"weeks":     func(a, b course.Course) int { return strings.Compare(a.Weeks, b.Weeks) },
	"createdAt": func(a, b course.Course) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

// joined attaches the bootcamp summary. Callers hold the read lock.
func (r *CoursesRepo) joined(c course.Course) course.Course {
	b := r.s.bootcamps[c.BootcampID]
	c.Bootcamp = &bootcamp.Summary{ID: b.ID, Name: b.Name, Description: b.Description}
	return c
}

func (r *CoursesRepo) Create(ctx context.Context, c course.Course) (course.Course, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.Bootcamp = nil

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.bootcamps[c.BootcampID]; !ok {
		return course.Course{}, errForeignKey("courses_bootcamp_id_fkey")
	}
	r.s.courses[c.ID] = c

	return c, nil
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (course.Course, error) {
	if err := checkID(id); err != nil {
		return course.Course{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.courses[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	return r.joined(c), nil
}

func (r *CoursesRepo) List(ctx context.Context, f course.ListFilter) ([]course.Course, int, error) {
	r.s.mu.RLock()
	out := make([]course.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		if f.BootcampID != nil && c.BootcampID != *f.BootcampID {
			continue
		}
		out = append(out, r.joined(c))
	}
	r.s.mu.RUnlock()

	sortBy(out, f.Sort, courseSort, "-createdAt", func(c course.Course) string { return c.ID })

	return window(out, f.Limit, f.Offset), len(out), nil
}

func (r *CoursesRepo) ListByBootcamp(ctx context.Context, bootcampID string) ([]course.Course, error) {
	out, _, err := r.List(ctx, course.ListFilter{BootcampID: &bootcampID, Sort: []string{"createdAt"}})
	return out, err
}

func (r *CoursesRepo) Update(ctx context.Context, c course.Course, ownerID string) (course.Course, error) {
	if err := checkID(c.ID); err != nil {
		return course.Course{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.courses[c.ID]
	if !ok || !ownerMatches(cur.UserID, ownerID) {
		return course.Course{}, course.ErrNotFound
	}

	c.BootcampID, c.UserID, c.CreatedAt = cur.BootcampID, cur.UserID, cur.CreatedAt
	c.Bootcamp = nil
	r.s.courses[c.ID] = c

	return r.joined(c), nil
}

func (r *CoursesRepo) Delete(ctx context.Context, id, ownerID string) error {
	if err := checkID(id); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.courses[id]
	if !ok || !ownerMatches(cur.UserID, ownerID) {
		return course.ErrNotFound
	}
	delete(r.s.courses, id)
	return nil
}

func (r *CoursesRepo) DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for id, c := range r.s.courses {
		if c.BootcampID == bootcampID {
			delete(r.s.courses, id)
			n++
		}
	}
	return n, nil
}
