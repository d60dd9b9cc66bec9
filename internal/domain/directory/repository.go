package directory

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SellerRepository defines persistence for seller tenants
type SellerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)
	FindByEmail(ctx context.Context, email string) (*Seller, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Seller, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, seller *Seller) error
}

// ClientRepository defines persistence for clients.
// FindByID is deliberately unscoped: the ownership guard compares the
// loaded entity's seller against the acting seller, so cross-tenant probes
// are indistinguishable from genuine lookups until the guard rejects them.
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Client, error)
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsWithEmail reports whether another client of the seller already
	// uses the email. excludeID skips the client being updated.
	ExistsWithEmail(ctx context.Context, sellerID uuid.UUID, email string, excludeID uuid.UUID) (bool, error)
	// ExistsWithPhone is the phone counterpart of ExistsWithEmail
	ExistsWithPhone(ctx context.Context, sellerID uuid.UUID, phone string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}
