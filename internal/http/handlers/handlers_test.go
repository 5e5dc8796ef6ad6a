package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bindRequest(t *testing.T, body string, out any) error {
	t.Helper()

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	ctx.Request.Header.Set("Content-Type", "application/json")

	return BindJSON(ctx, out)
}

func TestBindJSON(t *testing.T) {
	var req course.CreateRequest
	require.NoError(t, bindRequest(t, `{"title":"Go","tuition":100}`, &req))
	assert.Equal(t, "Go", req.Title)
	assert.Equal(t, 100, req.Tuition)

	var empty course.CreateRequest
	require.NoError(t, bindRequest(t, ``, &empty))

	err := bindRequest(t, `{"tuition":"lots"}`, &course.CreateRequest{})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusOf(err))
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Field tuition must be of type int", ae.Message)

	err = bindRequest(t, `{"title":`, &course.CreateRequest{})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Malformed JSON body", ae.Message)
}

func TestSplitSort(t *testing.T) {
	assert.Nil(t, splitSort(""))
	assert.Equal(t, []string{"-averageCost", "name"}, splitSort(" -averageCost, ,name"))
}

func TestIfNoneMatch(t *testing.T) {
	etag, err := weakETag(gin.H{"a": 1})
	require.NoError(t, err)

	assert.True(t, etagListed(etag, etag))
	assert.True(t, etagListed(`"x", `+strings.TrimPrefix(etag, "W/"), etag))
	assert.True(t, etagListed("*", etag))
	assert.False(t, etagListed(`"other"`, etag))
	assert.False(t, etagListed("", etag))
}

func TestRespondJSONWithETag_NotModified(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) { RespondJSONWithETag(c, http.StatusOK, dataResponse("hello")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestNewListResponse_EmptyDataIsArray(t *testing.T) {
	resp := newListResponse[course.Course](nil, 0, utils.Page{Page: 1, Limit: 25})
	assert.NotNil(t, resp.Data)
	assert.Equal(t, 0, resp.Count)
	assert.Nil(t, resp.Pagination.Next)
	assert.Nil(t, resp.Pagination.Prev)
}
