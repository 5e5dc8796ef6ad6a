// Command devcamper runs maintenance tasks against the API database: schema
// migrations, the admin account and fixture data.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/gauravsharma29/Dev-Camper-API/internal/config"
	"github.com/gauravsharma29/Dev-Camper-API/internal/db"
	"github.com/gauravsharma29/Dev-Camper-API/internal/geocode"
	"github.com/gauravsharma29/Dev-Camper-API/internal/observability"
	"github.com/gauravsharma29/Dev-Camper-API/internal/repo/postgres"
	"github.com/gauravsharma29/Dev-Camper-API/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type env struct {
	cfg config.Config
	log *slog.Logger
}

func load() (env, error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, fmt.Errorf("load config: %w", err)
	}
	return env{cfg: cfg, log: observability.NewLogger(cfg.Env, cfg.LogLevel)}, nil
}

// withPool runs fn with a connected pool and closes it afterwards.
func withPool(c *cli.Context, fn func(e env, pool *pgxpool.Pool) error) error {
	e, err := load()
	if err != nil {
		return err
	}

	pool, err := db.NewPool(c.Context, e.cfg.DBURL)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	return fn(e, pool)
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "devcamper",
		Usage: "DevCamper API maintenance",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply or roll back schema migrations",
				Subcommands: []*cli.Command{
					{
						Name:  "up",
						Usage: "apply all pending migrations",
						Action: func(c *cli.Context) error {
							e, err := load()
							if err != nil {
								return err
							}
							if err := db.MigrateUp(e.cfg.DBURL); err != nil {
								return err
							}
							e.log.Info("migrations applied")
							return nil
						},
					},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
						},
						Action: func(c *cli.Context) error {
							e, err := load()
							if err != nil {
								return err
							}
							if err := db.MigrateDown(e.cfg.DBURL, c.Int("steps")); err != nil {
								return err
							}
							e.log.Info("migrations rolled back", "steps", c.Int("steps"))
							return nil
						},
					},
				},
			},
			{
				Name:  "seed",
				Usage: "load or wipe fixture data",
				Subcommands: []*cli.Command{
					{
						Name:   "admin",
						Usage:  "create the admin account from ADMIN_EMAIL and ADMIN_PASSWORD",
						Action: seedAdmin,
					},
					{
						Name:  "import",
						Usage: "import users, bootcamps, courses and reviews from JSON files",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "dir", Value: "_data", Usage: "directory holding the fixture files"},
						},
						Action: seedImport,
					},
					{
						Name:   "destroy",
						Usage:  "delete every user, bootcamp, course and review",
						Action: seedDestroy,
					},
				},
			},
		},
	}
}

func seedAdmin(c *cli.Context) error {
	return withPool(c, func(e env, pool *pgxpool.Pool) error {
		created, err := db.EnsureAdminUser(c.Context, pool, db.AdminAccount{
			Email:    e.cfg.AdminEmail,
			Password: e.cfg.AdminPassword,
			Name:     e.cfg.AdminName,
		})
		if err != nil {
			return err
		}
		e.log.Info("seed admin", "email", e.cfg.AdminEmail, "created", created)
		return nil
	})
}

func seedImport(c *cli.Context) error {
	return withPool(c, func(e env, pool *pgxpool.Pool) error {
		g, err := geocode.New(geocode.Config{
			Provider: e.cfg.GeocoderProvider,
			APIKey:   e.cfg.GeocoderAPIKey,
			BaseURL:  e.cfg.GeocoderBaseURL,
			Timeout:  e.cfg.GeocodeTimeout,
		}, nil)
		if err != nil {
			return err
		}

		im := seed.NewImporter(seed.Stores{
			Users:     postgres.NewUsersRepo(pool, nil),
			Bootcamps: postgres.NewBootcampsRepo(pool, nil),
			Courses:   postgres.NewCoursesRepo(pool, nil),
			Reviews:   postgres.NewReviewsRepo(pool, nil),
			Tx:        postgres.NewTxRunner(pool),
		}, g, e.log)

		_, err = im.Import(c.Context, c.String("dir"))
		return err
	})
}

func seedDestroy(c *cli.Context) error {
	return withPool(c, func(e env, pool *pgxpool.Pool) error {
		return seed.Destroy(c.Context, seed.DestroyFunc(func(ctx context.Context) error {
			return postgres.DestroyAll(ctx, pool)
		}), e.log)
	})
}
