package service

import (
	"fmt"

	"github.com/gauravsharma29/Dev-Camper-API/internal/actorctx"
	"github.com/gauravsharma29/Dev-Camper-API/internal/apperr"
)

// authorizeOwner rejects an actor who neither owns the resource nor is an admin.
// It returns the owner guard for the following write: empty for admins so the
// write is unconditional, the actor's id otherwise.
func authorizeOwner(actor actorctx.Actor, ownerID, action, resource string) (string, error) {
	if !actor.Owns(ownerID) {
		return "", apperr.Forbidden(fmt.Sprintf("User %s is not authorized to %s this %s", actor.ID, action, resource))
	}
	if actor.IsAdmin() {
		return "", nil
	}
	return actor.ID, nil
}
