package http

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/config"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/http/handlers"
	"github.com/gauravsharma29/Dev-Camper-API/internal/http/middlewares"
	"github.com/gauravsharma29/Dev-Camper-API/internal/observability"
)

// Dependencies is everything the router mounts. Prom and Gatherer are optional.
type Dependencies struct {
	Config   config.Config
	Logger   *slog.Logger
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Ping     handlers.Pinger

	Auth      handlers.AuthService
	Bootcamps handlers.BootcampService
	Courses   handlers.CourseService
	Reviews   handlers.ReviewService
	Users     handlers.UserService

	Tokens     middlewares.TokenVerifier
	Denylist   auth.Denylist
	UserLookup middlewares.UserLookup
}

func NewRouter(d Dependencies) *gin.Engine {
	cfg := d.Config
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// outermost first; ErrorHandler must wrap everything that calls c.Error
	r.Use(otelgin.Middleware(cfg.ServiceName))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.ErrorHandler(log))
	r.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		_ = c.Error(fmt.Errorf("panic: %v", rec))
		c.Abort()
	}))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.NoRoute(middlewares.Handle(func(c *gin.Context) error {
		return apperr.NotFound(fmt.Sprintf("Route %s not found", c.Request.URL.Path))
	}))

	health := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")
	if cfg.RateLimit > 0 {
		limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
		api.Use(limiter.Middleware(middlewares.KeyByIP))
	}
	api.Use(middlewares.RequireJSON(), middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	guard := middlewares.NewAuthMiddleware(d.Tokens, d.Denylist, d.UserLookup)
	protect := guard.Protect()
	publishers := middlewares.Authorize(user.RolePublisher, user.RoleAdmin)
	reviewers := middlewares.Authorize(user.RoleUser, user.RoleAdmin)
	h := middlewares.Handle

	authH := handlers.NewAuthHandler(d.Auth, cfg)
	authG := api.Group("/auth")
	authG.POST("/register", h(authH.Register))
	authG.POST("/login", h(authH.Login))
	authG.GET("/logout", protect, h(authH.Logout))
	authG.GET("/me", protect, h(authH.Me))
	authG.PUT("/updatedetails", protect, h(authH.UpdateDetails))
	authG.PUT("/updatepassword", protect, h(authH.UpdatePassword))
	authG.POST("/forgotpassword", h(authH.ForgotPassword))
	authG.PUT("/resetpassword/:resettoken", h(authH.ResetPassword))

	bootcamps := handlers.NewBootcampsHandler(d.Bootcamps)
	courses := handlers.NewCoursesHandler(d.Courses)
	reviews := handlers.NewReviewsHandler(d.Reviews)

	bootcampsG := api.Group("/bootcamps")
	bootcampsG.GET("", h(bootcamps.List))
	bootcampsG.GET("/radius/:zipcode/:distance", h(bootcamps.WithinRadius))
	bootcampsG.GET("/:id", h(bootcamps.Get))
	bootcampsG.POST("", protect, publishers, h(bootcamps.Create))
	bootcampsG.PUT("/:id", protect, publishers, h(bootcamps.Update))
	bootcampsG.DELETE("/:id", protect, publishers, h(bootcamps.Delete))
	bootcampsG.GET("/:id/courses", h(courses.List))
	bootcampsG.POST("/:id/courses", protect, publishers, h(courses.Create))
	bootcampsG.GET("/:id/reviews", h(reviews.List))
	bootcampsG.POST("/:id/reviews", protect, reviewers, h(reviews.Create))

	coursesG := api.Group("/courses")
	coursesG.GET("", h(courses.List))
	coursesG.GET("/:id", h(courses.Get))
	coursesG.PUT("/:id", protect, publishers, h(courses.Update))
	coursesG.DELETE("/:id", protect, publishers, h(courses.Delete))

	reviewsG := api.Group("/reviews")
	reviewsG.GET("", h(reviews.List))
	reviewsG.GET("/:id", h(reviews.Get))
	reviewsG.PUT("/:id", protect, reviewers, h(reviews.Update))
	reviewsG.DELETE("/:id", protect, reviewers, h(reviews.Delete))

	users := handlers.NewUsersHandler(d.Users)
	usersG := api.Group("/users", protect, middlewares.Authorize(user.RoleAdmin))
	usersG.GET("", h(users.List))
	usersG.GET("/:id", h(users.Get))
	usersG.POST("", h(users.Create))
	usersG.PUT("/:id", h(users.Update))
	usersG.DELETE("/:id", h(users.Delete))

	return r
}
