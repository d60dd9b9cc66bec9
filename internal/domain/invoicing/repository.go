package invoicing

import (
	"context"
	"errors"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrDuplicateNumber is returned by write operations when the unique
// (seller_id, number) index rejects the allocated invoice number. The
// service retries allocation a bounded number of times before surfacing
// NUMBERING_CONFLICT.
var ErrDuplicateNumber = errors.New("invoice number already taken")

// InvoiceRepository defines persistence for invoices. Write operations
// persist the header, the item set and the pending domain events (via the
// transactional outbox) in a single transaction.
type InvoiceRepository interface {
	// FindByID loads the invoice header without items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindWithItems loads the invoice together with its materialized items
	FindWithItems(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error)
	// CountForClient counts invoices referencing a client, used to refuse
	// deleting clients that still have invoices
	CountForClient(ctx context.Context, clientID uuid.UUID) (int64, error)

	// Create persists header + items + outbox entries atomically.
	// Returns ErrDuplicateNumber when the number collides.
	Create(ctx context.Context, inv *Invoice) error
	// Update replaces the item set wholesale and rewrites the header totals
	Update(ctx context.Context, inv *Invoice) error
	// Delete removes items then header atomically
	Delete(ctx context.Context, inv *Invoice) error

	// GenerateInvoiceNumber allocates the next INV-YY-NNNNN number for the
	// seller based on the highest existing sequence for the current year
	GenerateInvoiceNumber(ctx context.Context, sellerID uuid.UUID) (string, error)
}
