package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
	"github.com/gauravsharma29/Dev-Camper-API/internal/geocode"
)

func TestCreateBootcamp_GeocodesAndDropsAddress(t *testing.T) {
	f := newFixture(t)
	pub := f.register(t, "Publisher", "pub@x.com", "publisher")

	var geocoded string
	inner := f.geocoder.GeocodeFn
	f.geocoder.GeocodeFn = func(ctx context.Context, address string) (geocode.Result, error) {
		geocoded = address
		return inner(ctx, address)
	}

	b := f.createBootcamp(t, pub, "Devworks Bootcamp")

	assert.Equal(t, "233 Bay State Road Boston MA 02215", geocoded)
	assert.Equal(t, "devworks-bootcamp", b.Slug)
	assert.Empty(t, b.Address)

	got, err := f.bootcamps.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Point", got.Location.Type)
	assert.Equal(t, [2]float64{-71.1054, 42.3505}, got.Location.Coordinates)
	assert.Equal(t, "MA", got.Location.State)
	assert.Equal(t, pub.ID, got.UserID)
	assert.Empty(t, got.Courses)
}

func TestCreateBootcamp_GeocoderFailurePropagates(t *testing.T) {
	f := newFixture(t)
	pub := f.register(t, "Publisher", "pub@x.com", "publisher")
	boom := errors.New("geocoder quota exceeded")
	f.geocoder.GeocodeFn = func(ctx context.Context, address string) (geocode.Result, error) {
		return geocode.Result{}, boom
	}

	_, err := f.bootcamps.Create(context.Background(), pub, bootcamp.CreateRequest{
		Name: "X", Description: "d", Address: "somewhere", Careers: []string{"Business"},
	})
	assert.ErrorIs(t, err, boom)

	_, total, err := f.store.Bootcamps().List(context.Background(), bootcamp.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateBootcamp_PublisherLimitedToOne(t *testing.T) {
	f := newFixture(t)
	pub := f.register(t, "Publisher", "pub@x.com", "publisher")
	f.createBootcamp(t, pub, "First")

	_, err := f.bootcamps.Create(context.Background(), pub, bootcamp.CreateRequest{
		Name: "Second", Description: "d", Address: "a", Careers: []string{"Business"},
	})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	admin := f.admin(t)
	f.createBootcamp(t, admin, "Admin One")
	f.createBootcamp(t, admin, "Admin Two")
}

func TestUpdateBootcamp_Ownership(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Owner", "owner@x.com", "publisher")
	other := f.register(t, "Other", "other@x.com", "publisher")
	b := f.createBootcamp(t, owner, "Devworks")
	ctx := context.Background()

	desc := "hijacked"
	_, err := f.bootcamps.Update(ctx, other, b.ID, bootcamp.UpdateRequest{Description: &desc})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	unchanged, err := f.bootcamps.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Full stack web development", unchanged.Description)

	name := "Devworks Reloaded"
	updated, err := f.bootcamps.Update(ctx, owner, b.ID, bootcamp.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "devworks-reloaded", updated.Slug)

	desc = "admin edit"
	_, err = f.bootcamps.Update(ctx, f.admin(t), b.ID, bootcamp.UpdateRequest{Description: &desc})
	assert.NoError(t, err)
}

func TestUpdateBootcamp_NotFound(t *testing.T) {
	f := newFixture(t)
	pub := f.register(t, "Publisher", "pub@x.com", "publisher")

	_, err := f.bootcamps.Update(context.Background(), pub, "5d725a1b-7b29-2f5f-8cef-f78800000000", bootcamp.UpdateRequest{})
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func addChildren(t *testing.T, f *fixture, b bootcamp.Bootcamp) {
	t.Helper()
	ctx := context.Background()

	for _, title := range []string{"Front End Web Development", "Full Stack Web Development"} {
		_, err := f.store.Courses().Create(ctx, course.Course{BootcampID: b.ID, UserID: b.UserID, Title: title, Tuition: 8000})
		require.NoError(t, err)
	}

	reviewer := f.register(t, "Reviewer", "rev@x.com", "user")
	_, err := f.reviews.Create(ctx, reviewer, b.ID, review.CreateRequest{Title: "Great", Text: "Learned a lot", Rating: 9})
	require.NoError(t, err)
}

func TestDeleteBootcamp_Cascades(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Owner", "owner@x.com", "publisher")
	b := f.createBootcamp(t, owner, "Devworks")
	addChildren(t, f, b)
	ctx := context.Background()

	require.NoError(t, f.bootcamps.Delete(ctx, owner, b.ID))

	courses, total, err := f.courses.List(ctx, course.ListFilter{BootcampID: &b.ID, Limit: 25})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, courses)

	_, total, err = f.reviews.List(ctx, review.ListFilter{BootcampID: &b.ID, Limit: 25})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = f.bootcamps.Get(ctx, b.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

type failingReviews struct {
	ReviewStore
	err error
}

func (f failingReviews) DeleteByBootcamp(ctx context.Context, bootcampID string) (int, error) {
	return 0, f.err
}

func TestDeleteBootcamp_PartialFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Owner", "owner@x.com", "publisher")
	b := f.createBootcamp(t, owner, "Devworks")
	addChildren(t, f, b)
	ctx := context.Background()

	boom := errors.New("reviews table locked")
	svc := NewBootcampService(f.store.Bootcamps(), f.store.Courses(), failingReviews{f.store.Reviews(), boom}, f.store, f.geocoder, nil)

	err := svc.Delete(ctx, owner, b.ID)
	assert.ErrorIs(t, err, boom)

	got, err := f.bootcamps.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, got.Courses, 2)
}

func TestDeleteBootcamp_NonOwnerForbidden(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Owner", "owner@x.com", "publisher")
	other := f.register(t, "Other", "other@x.com", "publisher")
	b := f.createBootcamp(t, owner, "Devworks")

	err := f.bootcamps.Delete(context.Background(), other, b.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	_, err = f.bootcamps.Get(context.Background(), b.ID)
	assert.NoError(t, err)
}

func TestWithinRadius(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t, "Owner", "owner@x.com", "publisher")
	b := f.createBootcamp(t, owner, "Devworks")

	got, err := f.bootcamps.WithinRadius(context.Background(), "02215", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
}
