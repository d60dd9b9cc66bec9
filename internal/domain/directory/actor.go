package directory

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role identifies the kind of actor performing an operation
type Role string

const (
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Actor is the closed set of identities that can invoke application
// operations: a seller acting inside its own tenant, or an admin acting on
// the seller roster. The identity is always passed explicitly; there is no
// ambient "current user".
type Actor interface {
	Role() Role
	sealed()
}

// SellerActor is a seller acting within its own tenant
type SellerActor struct {
	ID uuid.UUID
}

// Role implements Actor
func (SellerActor) Role() Role { return RoleSeller }

func (SellerActor) sealed() {}

// AdminActor is a platform administrator overseeing sellers
type AdminActor struct {
	ID uuid.UUID
}

// Role implements Actor
func (AdminActor) Role() Role { return RoleAdmin }

func (AdminActor) sealed() {}

// RequireSeller returns the acting seller's ID, or ErrUnauthorized when the
// actor is not a seller
func RequireSeller(actor Actor) (uuid.UUID, error) {
	seller, ok := actor.(SellerActor)
	if !ok || seller.ID == uuid.Nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return seller.ID, nil
}

// RequireAdmin returns ErrUnauthorized when the actor is not an admin
func RequireAdmin(actor Actor) error {
	if _, ok := actor.(AdminActor); !ok {
		return shared.ErrUnauthorized
	}
	return nil
}

// Owned is anything that can report whether a seller owns it
type Owned interface {
	OwnedBy(sellerID uuid.UUID) bool
}

// EnsureOwnedBy is the ownership guard: it verifies that the target entity
// belongs to the acting seller and fails with ErrUnauthorized otherwise.
// It is evaluated per operation, before any mutation and before any read
// result leaves the application layer.
func EnsureOwnedBy(sellerID uuid.UUID, entity Owned) error {
	if entity == nil || !entity.OwnedBy(sellerID) {
		return shared.ErrUnauthorized
	}
	return nil
}
