package middlewares

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

const (
	pgInvalidTextRepresentation = "22P02"
	pgUniqueViolation           = "23505"
)

// Normalize maps any failure to the status and message clients see.
func Normalize(err error) (int, string) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := ae.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := ae.Message
		if msg == "" {
			msg = "Server Error"
		}
		return status, msg
	}

	if errors.Is(err, apperr.ErrMalformedID) {
		return http.StatusNotFound, "Resource not found"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRepresentation:
			return http.StatusNotFound, "Resource not found"
		case pgUniqueViolation:
			return http.StatusBadRequest, "Duplicate field value entered"
		}
	}

	var ve *validation.Errors
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "Request body too large"
	}

	if msg := err.Error(); msg != "" {
		return http.StatusInternalServerError, msg
	}
	return http.StatusInternalServerError, "Server Error"
}

// ErrorHandler is the single place error responses are written. It must sit
// outside every middleware and handler that records errors with c.Error.
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, msg := Normalize(err)

		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.Log(c.Request.Context(), level, "http.error",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"err", err,
		)

		if c.Writer.Written() {
			return
		}
		c.JSON(status, gin.H{"success": false, "error": msg})
	}
}
