package middlewares

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
)

func isJSONMediaType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// RequireJSON answers 415 to a POST, PUT or PATCH carrying a non-JSON body.
// Writes without a body pass.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		m := c.Request.Method
		if m != http.MethodPost && m != http.MethodPut && m != http.MethodPatch {
			c.Next()
			return
		}

		if c.Request.ContentLength != 0 && !isJSONMediaType(c.GetHeader("Content-Type")) {
			_ = c.Error(apperr.New(http.StatusUnsupportedMediaType, "Content-Type must be application/json"))
			c.Abort()
			return
		}

		c.Next()
	}
}
