package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
)

type CourseService struct {
	courses   CourseStore
	bootcamps BootcampStore
}

func NewCourseService(courses CourseStore, bootcamps BootcampStore) *CourseService {
	return &CourseService{courses: courses, bootcamps: bootcamps}
}

func courseNotFound(id string) error {
	return apperr.NotFound(fmt.Sprintf("No course with the id of %s", id))
}

func (s *CourseService) List(ctx context.Context, f course.ListFilter) ([]course.Course, int, error) {
	return s.courses.List(ctx, f)
}

func (s *CourseService) Get(ctx context.Context, id string) (course.Course, error) {
	c, err := s.courses.GetByID(ctx, id)
	if errors.Is(err, course.ErrNotFound) {
		return course.Course{}, courseNotFound(id)
	}
	return c, err
}

// Create adds a course to a bootcamp the actor owns.
func (s *CourseService) Create(ctx context.Context, actor actorctx.Actor, bootcampID string, req course.CreateRequest) (course.Course, error) {
	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if errors.Is(err, bootcamp.ErrNotFound) {
		return course.Course{}, apperr.NotFound(fmt.Sprintf("No bootcamp with the id of %s", bootcampID))
	}
	if err != nil {
		return course.Course{}, err
	}

	if !actor.Owns(b.UserID) {
		return course.Course{}, apperr.Forbidden(fmt.Sprintf("User %s is not authorized to add a course to bootcamp %s", actor.ID, b.ID))
	}

	c := course.NewFromCreateRequest(req, b.ID, actor.ID)
	if err := c.Validate(); err != nil {
		return course.Course{}, err
	}

	return s.courses.Create(ctx, c)
}

func (s *CourseService) Update(ctx context.Context, actor actorctx.Actor, id string, req course.UpdateRequest) (course.Course, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return course.Course{}, err
	}

	guard, err := authorizeOwner(actor, c.UserID, "update", "course")
	if err != nil {
		return course.Course{}, err
	}

	c.Apply(req)
	if err := c.Validate(); err != nil {
		return course.Course{}, err
	}

	updated, err := s.courses.Update(ctx, c, guard)
	if errors.Is(err, course.ErrNotFound) {
		return course.Course{}, courseNotFound(id)
	}
	return updated, err
}

func (s *CourseService) Delete(ctx context.Context, actor actorctx.Actor, id string) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	guard, err := authorizeOwner(actor, c.UserID, "delete", "course")
	if err != nil {
		return err
	}

	err = s.courses.Delete(ctx, id, guard)
	if errors.Is(err, course.ErrNotFound) {
		return courseNotFound(id)
	}
	return err
}
