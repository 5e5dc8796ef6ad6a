package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondJSONWithETag writes payload with a weak content ETag. A GET or HEAD
// whose If-None-Match already names it gets 304 with no body.
func RespondJSONWithETag(ctx *gin.Context, status int, payload any) {
	etag, err := weakETag(payload)
	if err != nil {
		ctx.JSON(status, payload)
		return
	}

	ctx.Header("ETag", etag)
	ctx.Header("Cache-Control", "no-cache")

	method := ctx.Request.Method
	if (method == http.MethodGet || method == http.MethodHead) && etagListed(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.JSON(status, payload)
}

// weakETag hashes the JSON encoding of payload; the first 16 bytes of the
// digest are kept.
func weakETag(payload any) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(payload); err != nil {
		return "", err
	}
	sum := h.Sum(nil)

	return `W/"` + hex.EncodeToString(sum[:16]) + `"`, nil
}

// etagListed applies the weak comparison If-None-Match calls for.
func etagListed(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	want := opaqueTag(etag)
	for _, candidate := range strings.Split(header, ",") {
		if opaqueTag(candidate) == want {
			return true
		}
	}
	return false
}

func opaqueTag(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "W/")
}
