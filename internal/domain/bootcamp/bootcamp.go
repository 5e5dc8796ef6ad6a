package bootcamp

import (
	"errors"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

var ErrNotFound = errors.New("bootcamp not found")

const DefaultPhoto = "no-photo.jpg"

var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Location is a GeoJSON point plus the address parts the geocoder resolved.
type Location struct {
	Type             string     `json:"type"`
	Coordinates      [2]float64 `json:"coordinates"` // [lng, lat]
	FormattedAddress string     `json:"formattedAddress"`
	Street           string     `json:"street"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Zipcode          string     `json:"zipcode"`
	Country          string     `json:"country"`
}

func (l Location) Longitude() float64 { return l.Coordinates[0] }
func (l Location) Latitude() float64  { return l.Coordinates[1] }

type Bootcamp struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Location      Location  `json:"location"`
	Careers       []string  `json:"careers"`
	AverageRating *float64  `json:"averageRating,omitempty"`
	AverageCost   *float64  `json:"averageCost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee"`
	AcceptGi      bool      `json:"acceptGi"`
	CreatedAt     time.Time `json:"createdAt"`

	// Address is input only; it is replaced by Location before the record is stored.
	Address string `json:"-"`
}

// Summary is the projection embedded in courses and reviews.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Website       string   `json:"website"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	Careers       []string `json:"careers"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

// UpdateRequest is partial; nil fields keep their stored value.
type UpdateRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Website       *string   `json:"website"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	Careers       *[]string `json:"careers"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"jobAssistance"`
	JobGuarantee  *bool     `json:"jobGuarantee"`
	AcceptGi      *bool     `json:"acceptGi"`
}

type ListFilter struct {
	Careers      *string
	City         *string
	State        *string
	Housing      *bool
	JobGuarantee *bool
	MaxCost      *float64
	Sort         []string
	Limit        int
	Offset       int
}

func NewFromCreateRequest(req CreateRequest, ownerID string) Bootcamp {
	return Bootcamp{
		UserID:        ownerID,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Photo:         DefaultPhoto,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
	}
}

// Apply merges req into b and reports whether the address changed.
func (b *Bootcamp) Apply(req UpdateRequest) (addressChanged bool) {
	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if req.Website != nil {
		b.Website = *req.Website
	}
	if req.Phone != nil {
		b.Phone = *req.Phone
	}
	if req.Email != nil {
		b.Email = *req.Email
	}
	if req.Careers != nil {
		b.Careers = *req.Careers
	}
	if req.Housing != nil {
		b.Housing = *req.Housing
	}
	if req.JobAssistance != nil {
		b.JobAssistance = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		b.JobGuarantee = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		b.AcceptGi = *req.AcceptGi
	}
	if req.Address != nil {
		b.Address = *req.Address
		return true
	}
	return false
}

// DeriveSlug sets Slug from Name.
func (b *Bootcamp) DeriveSlug() {
	b.Slug = slug.Make(b.Name)
}

// Validate checks b. requireAddress is set for creates and address-bearing updates,
// where a raw address must be present for geocoding.
func (b Bootcamp) Validate(requireAddress bool) error {
	var errs validation.Errors

	errs.Required("name", b.Name, "Please add a name")
	errs.MaxLen("name", b.Name, 50, "Name cannot be more than 50 characters")

	errs.Required("description", b.Description, "Please add a description")
	errs.MaxLen("description", b.Description, 500, "Description cannot be more than 500 characters")

	errs.Check("website", b.Website, "omitempty,http_url", "Please use a valid URL with HTTP or HTTPS")
	errs.MaxLen("phone", b.Phone, 20, "Phone number can not be longer than 20 characters")
	errs.Check("email", b.Email, "omitempty,email", "Please add a valid email")

	if requireAddress {
		errs.Required("address", b.Address, "Please add an address")
	}

	if len(b.Careers) == 0 {
		errs.Add("careers", "Please add at least one career")
	} else {
		for _, c := range b.Careers {
			if !IsCareer(c) {
				errs.Add("careers", "`"+c+"` is not a valid career")
				break
			}
		}
	}

	return errs.Err()
}

func IsCareer(c string) bool {
	for _, known := range Careers {
		if c == known {
			return true
		}
	}
	return false
}
