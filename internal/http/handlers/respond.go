package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/utils"
)

// listResponse is the envelope for every paginated collection.
type listResponse[T any] struct {
	Success    bool             `json:"success"`
	Count      int              `json:"count"`
	Pagination utils.Pagination `json:"pagination"`
	Data       []T              `json:"data"`
}

func newListResponse[T any](items []T, total int, page utils.Page) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{
		Success:    true,
		Count:      len(items),
		Pagination: utils.Paginate(page, total),
		Data:       items,
	}
}

func dataResponse(data any) gin.H {
	return gin.H{"success": true, "data": data}
}

func respondData(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, dataResponse(data))
}

// respondEmpty answers deletes and logout with an empty data object.
func respondEmpty(ctx *gin.Context, status int) {
	ctx.JSON(status, dataResponse(gin.H{}))
}
