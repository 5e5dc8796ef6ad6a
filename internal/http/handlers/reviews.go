package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/review"
)

type ReviewService interface {
	List(ctx context.Context, f review.ListFilter) ([]review.Review, int, error)
	Get(ctx context.Context, id string) (review.Review, error)
	Create(ctx context.Context, actor actorctx.Actor, bootcampID string, req review.CreateRequest) (review.Review, error)
	Update(ctx context.Context, actor actorctx.Actor, id string, req review.UpdateRequest) (review.Review, error)
	Delete(ctx context.Context, actor actorctx.Actor, id string) error
}

type ReviewsHandler struct {
	svc ReviewService
}

func NewReviewsHandler(svc ReviewService) *ReviewsHandler {
	return &ReviewsHandler{svc: svc}
}

// List serves both GET /reviews and GET /bootcamps/:id/reviews.
func (h *ReviewsHandler) List(ctx *gin.Context) error {
	params := parseListParams(ctx)
	f := review.ListFilter{
		Sort:   params.Sort,
		Limit:  params.Page.Limit,
		Offset: params.Page.Offset(),
	}
	if id := ctx.Param("id"); id != "" {
		f.BootcampID = &id
	}

	items, total, err := h.svc.List(ctx.Request.Context(), f)
	if err != nil {
		return err
	}

	ctx.JSON(http.StatusOK, newListResponse(items, total, params.Page))
	return nil
}

func (h *ReviewsHandler) Get(ctx *gin.Context) error {
	r, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, r)
	return nil
}

func (h *ReviewsHandler) Create(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var req review.CreateRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	r, err := h.svc.Create(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusCreated, r)
	return nil
}

// Reviews answer 201 on update and delete as well as on create.
func (h *ReviewsHandler) Update(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var req review.UpdateRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	r, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusCreated, r)
	return nil
}

func (h *ReviewsHandler) Delete(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		return err
	}

	respondEmpty(ctx, http.StatusCreated)
	return nil
}
