// Package actorctx carries the authenticated caller through request contexts.
package actorctx

import (
	"context"

	"github.com/gauravsharma29/Dev-Camper-API/internal/domain/user"
)

type ctxKey struct{}

// Actor is the caller an operation runs on behalf of.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// Owns reports whether a may modify a resource owned by ownerID.
func (a Actor) Owns(ownerID string) bool {
	return a.IsAdmin() || a.ID == ownerID
}

func With(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func From(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)

	return a, ok && a.ID != ""
}
