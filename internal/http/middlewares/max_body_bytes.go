package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
)

// MaxBodyBytes rejects bodies larger than max with 413. A declared
// Content-Length over the limit is refused before the handler runs; chunked
// bodies fail on read with *http.MaxBytesError. A non-positive max disables it.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if max <= 0 || ctx.Request.Body == nil || ctx.Request.Body == http.NoBody {
			ctx.Next()
			return
		}

		if ctx.Request.ContentLength > max {
			_ = ctx.Error(apperr.New(http.StatusRequestEntityTooLarge, "Request body too large"))
			ctx.Abort()
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max)
		ctx.Next()
	}
}
