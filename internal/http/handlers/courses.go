package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/course"
)

type CourseService interface {
	List(ctx context.Context, f course.ListFilter) ([]course.Course, int, error)
	Get(ctx context.Context, id string) (course.Course, error)
	Create(ctx context.Context, actor actorctx.Actor, bootcampID string, req course.CreateRequest) (course.Course, error)
	Update(ctx context.Context, actor actorctx.Actor, id string, req course.UpdateRequest) (course.Course, error)
	Delete(ctx context.Context, actor actorctx.Actor, id string) error
}

type CoursesHandler struct {
	svc CourseService
}

func NewCoursesHandler(svc CourseService) *CoursesHandler {
	return &CoursesHandler{svc: svc}
}

// List serves both GET /courses and GET /bootcamps/:id/courses.
func (h *CoursesHandler) List(ctx *gin.Context) error {
	params := parseListParams(ctx)
	f := course.ListFilter{
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

func (h *CoursesHandler) Get(ctx *gin.Context) error {
	c, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, c)
	return nil
}

func (h *CoursesHandler) Create(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var req course.CreateRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	c, err := h.svc.Create(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusCreated, c)
	return nil
}

func (h *CoursesHandler) Update(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var req course.UpdateRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	c, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, c)
	return nil
}

func (h *CoursesHandler) Delete(ctx *gin.Context) error {
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
