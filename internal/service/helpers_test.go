package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/geocode"
	"github.com/gauravsharma29/Dev-Camper-API/internal/mail"
	"github.com/gauravsharma29/Dev-Camper-API/internal/repo/memory"
)

type fakeGeocoder struct {
	GeocodeFn func(ctx context.Context, address string) (geocode.Result, error)
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (geocode.Result, error) {
	return f.GeocodeFn(ctx, address)
}

func bostonGeocoder() *fakeGeocoder {
	return &fakeGeocoder{
		GeocodeFn: func(ctx context.Context, address string) (geocode.Result, error) {
			return geocode.Result{
				Latitude:         42.3505,
				Longitude:        -71.1054,
				FormattedAddress: "233 Bay State Rd, Boston, MA 02215, US",
				Street:           "233 Bay State Rd",
				City:             "Boston",
				StateCode:        "MA",
				Zipcode:          "02215",
				CountryCode:      "US",
			}, nil
		},
	}
}

type fakeMailer struct {
	SendFn func(ctx context.Context, msg mail.Message) error
	sent   []mail.Message
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	if f.SendFn != nil {
		return f.SendFn(ctx, msg)
	}
	return nil
}

type fixture struct {
	store     *memory.Store
	tokens    *auth.Manager
	denylist  *auth.MemoryDenylist
	mailer    *fakeMailer
	geocoder  *fakeGeocoder
	auth      *AuthService
	bootcamps *BootcampService
	courses   *CourseService
	reviews   *ReviewService
	users     *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		store:    store,
		tokens:   auth.NewManager("test-secret", time.Hour),
		denylist: auth.NewMemoryDenylist(),
		mailer:   &fakeMailer{},
		geocoder: bostonGeocoder(),
	}

	f.auth = NewAuthService(AuthDeps{
		Users:         store.Users(),
		Tokens:        f.tokens,
		Denylist:      f.denylist,
		Mailer:        f.mailer,
		ResetTokenTTL: 10 * time.Minute,
		Logger:        log,
	})
	f.bootcamps = NewBootcampService(store.Bootcamps(), store.Courses(), store.Reviews(), store, f.geocoder, log)
	f.courses = NewCourseService(store.Courses(), store.Bootcamps())
	f.reviews = NewReviewService(store.Reviews(), store.Bootcamps())
	f.users = NewUserService(store.Users(), store.Bootcamps())

	return f
}

func (f *fixture) register(t *testing.T, name, email, role string) actorctx.Actor {
	t.Helper()

	s, err := f.auth.Register(context.Background(), user.RegisterRequest{
		Name: name, Email: email, Password: "123456", Role: role,
	})
	require.NoError(t, err)
	return actorctx.Actor{ID: s.User.ID, Role: s.User.Role}
}

func (f *fixture) admin(t *testing.T) actorctx.Actor {
	t.Helper()

	u, err := f.users.Create(context.Background(), user.CreateRequest{
		Name: "Admin", Email: "admin@devcamper.io", Password: "123456", Role: user.RoleAdmin,
	})
	require.NoError(t, err)
	return actorctx.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) createBootcamp(t *testing.T, owner actorctx.Actor, name string) bootcamp.Bootcamp {
	t.Helper()

	b, err := f.bootcamps.Create(context.Background(), owner, bootcamp.CreateRequest{
		Name:        name,
		Description: "Full stack web development",
		Website:     "https://devworks.com",
		Address:     "233 Bay State Road Boston MA 02215",
		Careers:     []string{"Web Development", "UI/UX"},
	})
	require.NoError(t, err)
	return b
}

func statusOf(err error) int {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return http.StatusInternalServerError
}
