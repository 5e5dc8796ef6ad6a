package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

// listParams holds the paging and sorting query shared by every collection.
type listParams struct {
	Page utils.Page
	Sort []string
}

func parseListParams(ctx *gin.Context) listParams {
	return listParams{
		Page: utils.ParsePage(ctx.Query("page"), ctx.Query("limit")),
		Sort: splitSort(ctx.Query("sort")),
	}
}

// splitSort turns "-averageCost,name" into its keys. Unknown keys are dropped
// later by the stores, which know which columns may be ordered on.
func splitSort(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// queryFilters reads optional typed query values, collecting every malformed
// one into a single validation error.
type queryFilters struct {
	ctx  *gin.Context
	errs validation.Errors
}

func (q *queryFilters) str(key string) *string {
	v, ok := q.ctx.GetQuery(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func (q *queryFilters) boolean(key string) *bool {
	v := q.str(key)
	if v == nil {
		return nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		q.errs.Add(key, key+" must be true or false")
		return nil
	}
	return &b
}

func (q *queryFilters) number(key string) *float64 {
	v := q.str(key)
	if v == nil {
		return nil
	}
	f, err := strconv.ParseFloat(*v, 64)
	if err != nil {
		q.errs.Add(key, key+" must be a number")
		return nil
	}
	return &f
}

func (q *queryFilters) err() error {
	return q.errs.Err()
}
