package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/config"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
	"github.com/gauravsharma29/Dev-Camper-API/internal/http/middlewares"
	"github.com/gauravsharma29/Dev-Camper-API/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, req user.RegisterRequest) (service.Session, error)
	Login(ctx context.Context, req user.LoginRequest) (service.Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, id string) (user.User, error)
	UpdateDetails(ctx context.Context, id string, req user.UpdateDetailsRequest) (user.User, error)
	UpdatePassword(ctx context.Context, id string, req user.UpdatePasswordRequest) (service.Session, error)
	ForgotPassword(ctx context.Context, req user.ForgotPasswordRequest, resetURL func(token string) string) error
	ResetPassword(ctx context.Context, rawToken string, req user.ResetPasswordRequest) (service.Session, error)
}

// logoutCookieTTL is how long the overwritten "none" cookie lingers.
const logoutCookieTTL = 10 * time.Second

type AuthHandler struct {
	svc       AuthService
	cookieTTL time.Duration
	secure    bool
	now       func() time.Time
}

func NewAuthHandler(svc AuthService, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		cookieTTL: cfg.CookieTTL(),
		secure:    cfg.IsProduction(),
		now:       time.Now,
	}
}

func (h *AuthHandler) setTokenCookie(ctx *gin.Context, value string, ttl time.Duration) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  h.now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sendTokenResponse sets the session cookie and returns the token in the body
// for clients that use the Authorization header instead.
func (h *AuthHandler) sendTokenResponse(ctx *gin.Context, status int, s service.Session) {
	h.setTokenCookie(ctx, s.Token, h.cookieTTL)
	ctx.JSON(status, gin.H{"success": true, "token": s.Token})
}

func actorFrom(ctx *gin.Context) (actorctx.Actor, error) {
	a, ok := actorctx.From(ctx.Request.Context())
	if !ok {
		return actorctx.Actor{}, apperr.Unauthorized("Not authorized to access this route")
	}
	return a, nil
}

func (h *AuthHandler) Register(ctx *gin.Context) error {
	var req user.RegisterRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	s, err := h.svc.Register(ctx.Request.Context(), req)
	if err != nil {
		return err
	}

	h.sendTokenResponse(ctx, http.StatusOK, s)
	return nil
}

func (h *AuthHandler) Login(ctx *gin.Context) error {
	var req user.LoginRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	s, err := h.svc.Login(ctx.Request.Context(), req)
	if err != nil {
		return err
	}

	h.sendTokenResponse(ctx, http.StatusOK, s)
	return nil
}

// Logout revokes the presented token and overwrites the cookie.
func (h *AuthHandler) Logout(ctx *gin.Context) error {
	claims, ok := middlewares.ClaimsFromContext(ctx)
	if !ok {
		return apperr.Unauthorized("Not authorized to access this route")
	}

	if err := h.svc.Logout(ctx.Request.Context(), claims); err != nil {
		return err
	}

	h.setTokenCookie(ctx, "none", logoutCookieTTL)
	respondEmpty(ctx, http.StatusOK)
	return nil
}

func (h *AuthHandler) Me(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	u, err := h.svc.Me(ctx.Request.Context(), actor.ID)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, u)
	return nil
}

func (h *AuthHandler) UpdateDetails(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var req user.UpdateDetailsRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	u, err := h.svc.UpdateDetails(ctx.Request.Context(), actor.ID, req)
	if err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, u)
	return nil
}

func (h *AuthHandler) UpdatePassword(ctx *gin.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}

	var req user.UpdatePasswordRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	s, err := h.svc.UpdatePassword(ctx.Request.Context(), actor.ID, req)
	if err != nil {
		return err
	}

	h.sendTokenResponse(ctx, http.StatusOK, s)
	return nil
}

func (h *AuthHandler) ForgotPassword(ctx *gin.Context) error {
	var req user.ForgotPasswordRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	if err := h.svc.ForgotPassword(ctx.Request.Context(), req, resetURLFor(ctx)); err != nil {
		return err
	}

	respondData(ctx, http.StatusOK, "Email sent successfully")
	return nil
}

func (h *AuthHandler) ResetPassword(ctx *gin.Context) error {
	var req user.ResetPasswordRequest
	if err := BindJSON(ctx, &req); err != nil {
		return err
	}

	s, err := h.svc.ResetPassword(ctx.Request.Context(), ctx.Param("resettoken"), req)
	if err != nil {
		return err
	}

	h.sendTokenResponse(ctx, http.StatusOK, s)
	return nil
}

// resetURLFor points the mailed link back at the host the request came in on.
func resetURLFor(ctx *gin.Context) func(token string) string {
	proto := "http"
	if ctx.Request.TLS != nil || ctx.GetHeader("X-Forwarded-Proto") == "https" {
		proto = "https"
	}
	host := ctx.Request.Host

	return func(token string) string {
		return proto + "://" + host + "/api/v1/auth/resetpassword/" + token
	}
}
