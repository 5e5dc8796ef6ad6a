package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc is a gin handler that reports failure by returning it.
type HandlerFunc func(*gin.Context) error

// Handle adapts h so that a returned error, or a panic, is recorded on the
// context exactly once and the chain is aborted. ErrorHandler writes the response.
func Handle(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}
			_ = c.Error(err)
			c.Abort()
		}()

		if err := h(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}
