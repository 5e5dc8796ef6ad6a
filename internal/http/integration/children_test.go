package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourses_OwnershipAndPopulation(t *testing.T) {
	s := newServer(t)
	owner := s.register(t, "John", "john@gmail.com", "publisher")
	other := s.register(t, "Mary", "mary@gmail.com", "publisher")
	b := s.createBootcamp(t, owner, "Devworks Bootcamp")

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps/" + b.ID + "/courses", token: other, body: map[string]any{
		"title": "Sneaky", "description": "x", "weeks": "1", "tuition": 1, "minimumSkill": "beginner",
	}})
	requireStatus(t, w, http.StatusForbidden)

	courseID := s.createCourse(t, owner, b.ID, "Front End Web Development", 8000)

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/courses/" + courseID})
	requireStatus(t, w, http.StatusOK)
	c := data[struct {
		Title    string
		Bootcamp struct{ ID, Name string }
	}](t, w)
	assert.Equal(t, "Front End Web Development", c.Title)
	assert.Equal(t, b.ID, c.Bootcamp.ID)
	assert.Equal(t, "Devworks Bootcamp", c.Bootcamp.Name)

	w = s.do(t, request{method: http.MethodPut, path: "/api/v1/courses/" + courseID, token: other, body: map[string]any{"tuition": 1}})
	requireStatus(t, w, http.StatusForbidden)

	w = s.do(t, request{method: http.MethodPut, path: "/api/v1/courses/" + courseID, token: owner, body: map[string]any{"minimumSkill": "expert"}})
	requireStatus(t, w, http.StatusBadRequest)

	w = s.do(t, request{method: http.MethodPut, path: "/api/v1/courses/" + courseID, token: owner, body: map[string]any{"tuition": 9000}})
	requireStatus(t, w, http.StatusOK)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/v1/courses/" + courseID, token: owner})
	requireStatus(t, w, http.StatusOK)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/v1/courses/" + courseID, token: owner})
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, "No course with the id of "+courseID, decode(t, w).Error)
}

func TestCourses_UnknownBootcamp(t *testing.T) {
	s := newServer(t)
	admin := s.admin(t)
	missing := "6f1c7e5e-1f1a-4c2b-9a55-0d5f3f7c2b11"

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps/" + missing + "/courses", token: admin, body: map[string]any{
		"title": "T", "description": "D", "weeks": "4", "tuition": 100, "minimumSkill": "beginner",
	}})
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, "No bootcamp with the id of "+missing, decode(t, w).Error)
}

func TestReviews_AuthorOnly(t *testing.T) {
	s := newServer(t)
	owner := s.register(t, "John", "john@gmail.com", "publisher")
	author := s.register(t, "Jane", "jane@gmail.com", "user")
	other := s.register(t, "Bob", "bob@gmail.com", "user")
	admin := s.admin(t)
	b := s.createBootcamp(t, owner, "Devworks Bootcamp")

	w := s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps/" + b.ID + "/reviews", token: owner, body: map[string]any{
		"title": "Mine", "text": "Best", "rating": 10,
	}})
	requireStatus(t, w, http.StatusForbidden)

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps/" + b.ID + "/reviews", token: author, body: map[string]any{
		"title": "Meh", "text": "ok", "rating": 11,
	}})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Please add a rating between 1 and 10", decode(t, w).Error)

	reviewID := s.createReview(t, author, b.ID, 7)

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps/" + b.ID + "/reviews", token: author, body: map[string]any{
		"title": "Again", "text": "twice", "rating": 7,
	}})
	requireStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, "Duplicate field value entered", decode(t, w).Error)

	w = s.do(t, request{method: http.MethodPut, path: "/api/v1/reviews/" + reviewID, token: other, body: map[string]any{"rating": 1}})
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "Not authorized to update review", decode(t, w).Error)

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/reviews/" + reviewID})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, 7, data[struct{ Rating int }](t, w).Rating)

	w = s.do(t, request{method: http.MethodPut, path: "/api/v1/reviews/" + reviewID, token: author, body: map[string]any{"rating": 9}})
	requireStatus(t, w, http.StatusCreated)
	assert.Equal(t, 9, data[struct{ Rating int }](t, w).Rating)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/v1/reviews/" + reviewID, token: other})
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "Not authorized to delete review", decode(t, w).Error)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/v1/reviews/" + reviewID, token: admin})
	requireStatus(t, w, http.StatusCreated)
	assert.JSONEq(t, `{"success":true,"data":{}}`, w.Body.String())

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/bootcamps/" + b.ID + "/reviews"})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, 0, decode(t, w).Count)
}

func TestUsers_AdminOnly(t *testing.T) {
	s := newServer(t)
	pub := s.register(t, "John", "john@gmail.com", "publisher")
	admin := s.admin(t)

	w := s.do(t, request{method: http.MethodGet, path: "/api/v1/users", token: pub})
	requireStatus(t, w, http.StatusForbidden)
	assert.Equal(t, "User role publisher is not authorized to access this route", decode(t, w).Error)

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/users?role=publisher", token: admin})
	requireStatus(t, w, http.StatusOK)
	assert.Equal(t, 1, decode(t, w).Count)

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/users", token: admin, body: map[string]string{
		"name": "Second Admin", "email": "root@devcamper.io", "password": "123456", "role": "admin",
	}})
	requireStatus(t, w, http.StatusCreated)
	created := data[struct{ ID, Role string }](t, w)
	assert.Equal(t, "admin", created.Role)

	w = s.do(t, request{method: http.MethodPut, path: "/api/v1/users/" + created.ID, token: admin, body: map[string]string{"role": "user"}})
	requireStatus(t, w, http.StatusOK)

	w = s.do(t, request{method: http.MethodDelete, path: "/api/v1/users/" + created.ID, token: admin})
	requireStatus(t, w, http.StatusOK)

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/users/" + created.ID, token: admin})
	requireStatus(t, w, http.StatusNotFound)
	assert.Equal(t, "No user with the id of "+created.ID, decode(t, w).Error)
}

func TestUsers_RoleChangeAppliesToExistingToken(t *testing.T) {
	s := newServer(t)
	pub := s.register(t, "John", "john@gmail.com", "publisher")
	admin := s.admin(t)

	w := s.do(t, request{method: http.MethodGet, path: "/api/v1/auth/me", token: pub})
	id := data[struct{ ID string }](t, w).ID

	w = s.do(t, request{method: http.MethodPut, path: "/api/v1/users/" + id, token: admin, body: map[string]string{"role": "user"}})
	requireStatus(t, w, http.StatusOK)

	w = s.do(t, request{method: http.MethodPost, path: "/api/v1/bootcamps", token: pub, body: newBootcamp("Too Late")})
	requireStatus(t, w, http.StatusForbidden)
}

func TestUsers_DeleteBlockedWhileOwningBootcamp(t *testing.T) {
	s := newServer(t)
	pub := s.register(t, "John", "john@gmail.com", "publisher")
	admin := s.admin(t)
	b := s.createBootcamp(t, pub, "Devworks Bootcamp")

	w := s.do(t, request{method: http.MethodDelete, path: "/api/v1/users/" + b.User, token: admin})
	requireStatus(t, w, http.StatusBadRequest)

	w = s.do(t, request{method: http.MethodGet, path: "/api/v1/users/" + b.User, token: admin})
	require.Equal(t, http.StatusOK, w.Code)
}
