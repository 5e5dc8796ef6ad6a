package observability

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
)

// ObserveDB times a repository operation. Lookups that find nothing are
// recorded as "miss" and do not count as errors.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	outcome := "ok"
	switch {
	case err == nil:
	case isMiss(err):
		outcome = "miss"
	default:
		outcome = "error"
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}

	p.DbQueryDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
	return err
}

func isMiss(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, user.ErrNotFound) ||
		errors.Is(err, bootcamp.ErrNotFound) ||
		errors.Is(err, course.ErrNotFound) ||
		errors.Is(err, review.ErrNotFound)
}

// classifyDBErr maps a failure to a low-cardinality label.
func classifyDBErr(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "duplicate"
		case "23503":
			return "foreign_key"
		case "22P02":
			return "malformed_id"
		case "40001", "40P01":
			return "conflict"
		case "57014":
			return "canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	var connErr *pgconn.ConnectError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &connErr):
		return "connection"
	case errors.Is(err, pgx.ErrTxClosed):
		return "tx_closed"
	default:
		return "unknown"
	}
}
