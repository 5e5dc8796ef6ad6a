package course

import (
	"errors"
	"time"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

var ErrNotFound = errors.New("course not found")

type Course struct {
	ID                   string            `json:"id"`
	BootcampID           string            `json:"bootcampId"`
	UserID               string            `json:"user"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Weeks                string            `json:"weeks"`
	Tuition              int               `json:"tuition"`
	MinimumSkill         string            `json:"minimumSkill"`
	ScholarshipAvailable bool              `json:"scholarshipAvailable"`
	CreatedAt            time.Time         `json:"createdAt"`
	Bootcamp             *bootcamp.Summary `json:"bootcamp,omitempty"`
}

type CreateRequest struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	Weeks                string `json:"weeks"`
	Tuition              int    `json:"tuition"`
	MinimumSkill         string `json:"minimumSkill"`
	ScholarshipAvailable bool   `json:"scholarshipAvailable"`
}

type UpdateRequest struct {
	Title                *string `json:"title"`
	Description          *string `json:"description"`
	Weeks                *string `json:"weeks"`
	Tuition              *int    `json:"tuition"`
	MinimumSkill         *string `json:"minimumSkill"`
	ScholarshipAvailable *bool   `json:"scholarshipAvailable"`
}

type ListFilter struct {
	BootcampID *string
	Sort       []string
	Limit      int
	Offset     int
}

func NewFromCreateRequest(req CreateRequest, bootcampID, ownerID string) Course {
	return Course{
		BootcampID:           bootcampID,
		UserID:               ownerID,
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
	}
}

func (c *Course) Apply(req UpdateRequest) {
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Weeks != nil {
		c.Weeks = *req.Weeks
	}
	if req.Tuition != nil {
		c.Tuition = *req.Tuition
	}
	if req.MinimumSkill != nil {
		c.MinimumSkill = *req.MinimumSkill
	}
	if req.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *req.ScholarshipAvailable
	}
}

func (c Course) Validate() error {
	var errs validation.Errors

	errs.Required("title", c.Title, "Please add a course title")
	errs.Required("description", c.Description, "Please add a description")
	errs.Required("weeks", c.Weeks, "Please add number of weeks")
	if c.Tuition <= 0 {
		errs.Add("tuition", "Please add a tuition cost")
	}
	errs.Required("minimumSkill", c.MinimumSkill, "Please add a minimum skill")
	errs.Check("minimumSkill", c.MinimumSkill, "oneof=beginner intermediate advanced", "Minimum skill must be beginner, intermediate or advanced")

	return errs.Err()
}
