package review

import (
	"errors"
	"time"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

var ErrNotFound = errors.New("review not found")

type Review struct {
	ID         string            `json:"id"`
	BootcampID string            `json:"bootcampId"`
	UserID     string            `json:"user"`
	Title      string            `json:"title"`
	Text       string            `json:"text"`
	Rating     int               `json:"rating"`
	CreatedAt  time.Time         `json:"createdAt"`
	Bootcamp   *bootcamp.Summary `json:"bootcamp,omitempty"`
}

type CreateRequest struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

type UpdateRequest struct {
	Title  *string `json:"title"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating"`
}

type ListFilter struct {
	BootcampID *string
	Sort       []string
	Limit      int
	Offset     int
}

func NewFromCreateRequest(req CreateRequest, bootcampID, authorID string) Review {
	return Review{
		BootcampID: bootcampID,
		UserID:     authorID,
		Title:      req.Title,
		Text:       req.Text,
		Rating:     req.Rating,
	}
}

func (r *Review) Apply(req UpdateRequest) {
	if req.Title != nil {
		r.Title = *req.Title
	}
	if req.Text != nil {
		r.Text = *req.Text
	}
	if req.Rating != nil {
		r.Rating = *req.Rating
	}
}

func (r Review) Validate() error {
	var errs validation.Errors

	errs.Required("title", r.Title, "Please add a title for the review")
	errs.MaxLen("title", r.Title, 100, "Title cannot be more than 100 characters")
	errs.Required("text", r.Text, "Please add some text")
	if r.Rating < 1 || r.Rating > 10 {
		errs.Add("rating", "Please add a rating between 1 and 10")
	}

	return errs.Err()
}
