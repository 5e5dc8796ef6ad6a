package middlewares

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
	"github.com/gauravsharma29/Dev-Camper-API/internal/auth"
	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
)

// TokenVerifier and UserLookup stay small so tests can fake them.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	tokens   TokenVerifier
	denylist auth.Denylist
	users    UserLookup
}

// NewAuthMiddleware builds the guard. denylist may be nil, in which case
// revocation is not checked.
func NewAuthMiddleware(tokens TokenVerifier, denylist auth.Denylist, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, denylist: denylist, users: users}
}

func notAuthorized() error {
	return apperr.Unauthorized("Not authorized to access this route")
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if v, err := c.Cookie(TokenCookie); err == nil && v != "none" {
		return v
	}
	return ""
}

// Protect resolves the caller from a bearer token or the session cookie and
// reloads the user on every request, so role changes and deletions apply at once.
func (m *AuthMiddleware) Protect() gin.HandlerFunc {
	return Handle(func(c *gin.Context) error {
		raw := tokenFrom(c)
		if raw == "" {
			return notAuthorized()
		}

		claims, err := m.tokens.Verify(raw)
		if err != nil {
			return notAuthorized()
		}

		ctx := c.Request.Context()
		if m.denylist != nil {
			revoked, err := m.denylist.IsRevoked(ctx, claims.TokenID())
			if err != nil {
				return apperr.Internal("Server Error", err)
			}
			if revoked {
				return notAuthorized()
			}
		}

		u, err := m.users.GetByID(ctx, claims.UserID)
		if err != nil {
			return notAuthorized()
		}

		c.Request = c.Request.WithContext(actorctx.With(ctx, actorctx.Actor{ID: u.ID, Role: u.Role}))
		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, u)
		c.Set(CtxClaims, claims)

		c.Next()
		return nil
	})
}

// Authorize admits only callers whose role is listed. It runs after Protect.
func Authorize(roles ...string) gin.HandlerFunc {
	return Handle(func(c *gin.Context) error {
		actor, ok := actorctx.From(c.Request.Context())
		if !ok {
			return notAuthorized()
		}
		if !slices.Contains(roles, actor.Role) {
			return apperr.Forbidden(fmt.Sprintf("User role %s is not authorized to access this route", actor.Role))
		}

		c.Next()
		return nil
	})
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(CtxUserID)
	return id, id != ""
}

func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
