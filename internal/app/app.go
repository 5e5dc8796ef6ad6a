// Package app assembles stores, services and the HTTP router. Both binaries and
// the end-to-end tests build the API through it.
package app

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/config"
	"github.com/gauravsharma29/Dev-Camper-API/internal/geocode"
	apphttp "github.com/gauravsharma29/Dev-Camper-API/internal/http"
	"github.com/gauravsharma29/Dev-Camper-API/internal/mail"
	"github.com/gauravsharma29/Dev-Camper-API/internal/observability"
	"github.com/gauravsharma29/Dev-Camper-API/internal/repo/memory"
	"github.com/gauravsharma29/Dev-Camper-API/internal/repo/postgres"
	"github.com/gauravsharma29/Dev-Camper-API/internal/service"
)

// Stores is one storage backend seen through the service ports.
type Stores struct {
	Users     service.UserStore
	Bootcamps service.BootcampStore
	Courses   service.CourseStore
	Reviews   service.ReviewStore
	Tx        service.TxRunner
	Ping      func(ctx context.Context) error
}

func MemoryStores(s *memory.Store) Stores {
	return Stores{
		Users:     s.Users(),
		Bootcamps: s.Bootcamps(),
		Courses:   s.Courses(),
		Reviews:   s.Reviews(),
		Tx:        s,
		Ping:      s.Ping,
	}
}

// PostgresStores builds the pool-backed stores. obs may be nil.
func PostgresStores(pool *pgxpool.Pool, obs postgres.Observer) Stores {
	return Stores{
		Users:     postgres.NewUsersRepo(pool, obs),
		Bootcamps: postgres.NewBootcampsRepo(pool, obs),
		Courses:   postgres.NewCoursesRepo(pool, obs),
		Reviews:   postgres.NewReviewsRepo(pool, obs),
		Tx:        postgres.NewTxRunner(pool),
		Ping:      pool.Ping,
	}
}

type Options struct {
	Config   config.Config
	Logger   *slog.Logger
	Stores   Stores
	Tokens   *auth.Manager
	Denylist auth.Denylist
	Geocoder geocode.Geocoder
	Mailer   mail.Mailer

	// optional
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
}

func NewRouter(o Options) *gin.Engine {
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}
	st := o.Stores

	authSvc := service.NewAuthService(service.AuthDeps{
		Users:         st.Users,
		Tokens:        o.Tokens,
		Denylist:      o.Denylist,
		Mailer:        o.Mailer,
		ResetTokenTTL: o.Config.ResetTokenTTL,
		Logger:        log,
	})

	return apphttp.NewRouter(apphttp.Dependencies{
		Config:   o.Config,
		Logger:   log,
		Prom:     o.Prom,
		Gatherer: o.Gatherer,
		Ping:     st.Ping,

		Auth:      authSvc,
		Bootcamps: service.NewBootcampService(st.Bootcamps, st.Courses, st.Reviews, st.Tx, o.Geocoder, log),
		Courses:   service.NewCourseService(st.Courses, st.Bootcamps),
		Reviews:   service.NewReviewService(st.Reviews, st.Bootcamps),
		Users:     service.NewUserService(st.Users, st.Bootcamps),

		Tokens:     o.Tokens,
		Denylist:   o.Denylist,
		UserLookup: st.Users,
	})
}
