package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
)

type UserService interface {
	List(ctx context.Context, f user.ListFilter) ([]user.User, int, error)
	Get(ctx context.Context, id string) (user.User, error)
	Create(ctx context.Context, req user.CreateRequest) (user.User, error)
	Update(ctx context.Context, id string, req user.UpdateRequest) (user.User, error)
	Delete(ctx context.Context, id string) error
}

// UsersHandler is mounted behind Authorize(admin).
type UsersHandler struct {
	svc UserService
}

func NewUsersHandler(svc UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) List(ctx *gin.Context) error {
	params := parseListParams(ctx)
	q := queryFilters{ctx: ctx}

	f := user.ListFilter{
		Role:   q.str("role"),
		Sort:   params.Sort,
		Limit:  params.Page.Limit,
		Offset: params.Page.Offset(),
	}

	items, total, err := h.svc.List(ctx.Request.Context(), f)
	if err != nil {
		return err
	}

	ctx.JSON(http.StatusOK, newListResponse(items, total, params.Page))
	return nil
}

func (h *UsersHandler) Get(ctx *gin.Context) error {
	u, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, u)
	return nil
}

func (h *UsersHandler) Create(ctx *gin.Context) error {
	var req user.CreateRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	u, err := h.svc.Create(ctx.Request.Context(), req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusCreated, u)
	return nil
}

func (h *UsersHandler) Update(ctx *gin.Context) error {
	var req user.UpdateRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	u, err := h.svc.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, u)
	return nil
}

func (h *UsersHandler) Delete(ctx *gin.Context) error {
	if err := h.svc.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		return err
	}

	respondEmpty(ctx, http.StatusOK)
	return nil
}
