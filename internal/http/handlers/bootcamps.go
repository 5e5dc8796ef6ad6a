package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/bootcamp"
	"github.com/gauravsharma29/Dev-Camper-API/internal/service"
	"github.com/gauravsharma29/Dev-Camper-API/internal/validation"
)

type BootcampService interface {
	List(ctx context.Context, f bootcamp.ListFilter) ([]bootcamp.Bootcamp, int, error)
	Get(ctx context.Context, id string) (service.BootcampDetail, error)
	WithinRadius(ctx context.Context, zipcode string, distance float64) ([]bootcamp.Bootcamp, error)
	Create(ctx context.Context, actor actorctx.Actor, req bootcamp.CreateRequest) (bootcamp.Bootcamp, error)
	Update(ctx context.Context, actor actorctx.Actor, id string, req bootcamp.UpdateRequest) (bootcamp.Bootcamp, error)
	Delete(ctx context.Context, actor actorctx.Actor, id string) error
}

type BootcampsHandler struct {
	svc BootcampService
}

func NewBootcampsHandler(svc BootcampService) *BootcampsHandler {
	return &BootcampsHandler{svc: svc}
}

// List supports careers, city, state, housing, jobGuarantee and
// averageCost[lte] filters on top of paging and sorting.
func (h *BootcampsHandler) List(ctx *gin.Context) error {
	params := parseListParams(ctx)
	q := queryFilters{ctx: ctx}

	f := bootcamp.ListFilter{
		Careers:      q.str("careers"),
		City:         q.str("city"),
		State:        q.str("state"),
		Housing:      q.boolean("housing"),
		JobGuarantee: q.boolean("jobGuarantee"),
		MaxCost:      q.number("averageCost[lte]"),
		Sort:         params.Sort,
		Limit:        params.Page.Limit,
		Offset:       params.Page.Offset(),
	}
	if err := q.err(); err != nil {
		return err
	}

	items, total, err := h.svc.List(ctx.Request.Context(), f)
	if err != nil {
		return err
	}

	RespondJSONWithETag(ctx, http.StatusOK, newListResponse(items, total, params.Page))
	return nil
}

func (h *BootcampsHandler) Get(ctx *gin.Context) error {
	b, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	RespondJSONWithETag(ctx, http.StatusOK, dataResponse(b))
	return nil
}

// WithinRadius answers GET /bootcamps/radius/:zipcode/:distance, distance in miles.
func (h *BootcampsHandler) WithinRadius(ctx *gin.Context) error {
	distance, err := strconv.ParseFloat(ctx.Param("distance"), 64)
	if err != nil {
		var errs validation.Errors
		errs.Add("distance", "Please provide a numeric distance in miles")
		return errs.Err()
	}

	items, err := h.svc.WithinRadius(ctx.Request.Context(), ctx.Param("zipcode"), distance)
	if err != nil {
		return err
	}
	if items == nil {
		items = []bootcamp.Bootcamp{}
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
	return nil
}

func (h *BootcampsHandler) Create(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var req bootcamp.CreateRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	b, err := h.svc.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusCreated, b)
	return nil
}

func (h *BootcampsHandler) Update(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var req bootcamp.UpdateRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	b, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, b)
	return nil
}

func (h *BootcampsHandler) Delete(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		return err
	}

	respondEmpty(ctx, http.StatusOK)
	return nil
}
