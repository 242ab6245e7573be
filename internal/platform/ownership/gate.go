// Package ownership holds the single authorization rule of the system: only
// the identity recorded as a resource's author may edit or delete it.
package ownership

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNotOwner is returned by Check when the acting identity is not the author.
var ErrNotOwner = errors.New("acting identity does not own the resource")

// Owned is implemented by every resource that records its creator.
type Owned interface {
	GetAuthorID() uuid.UUID
}

// Gate applies strict ownership. There are no roles, no admin override and no
// group ownership; usernames are never consulted.
type Gate struct{}

// NewGate creates the ownership gate.
func NewGate() *Gate {
	return &Gate{}
}

// CanMutate reports whether actorID may edit or delete resource.
func (g *Gate) CanMutate(actorID uuid.UUID, resource Owned) bool {
	if actorID == uuid.Nil || resource == nil {
		return false
	}
	return resource.GetAuthorID() == actorID
}

// Check is CanMutate in error form.
func (g *Gate) Check(actorID uuid.UUID, resource Owned) error {
	if !g.CanMutate(actorID, resource) {
		return ErrNotOwner
	}
	return nil
}
