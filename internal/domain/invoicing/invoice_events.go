package invoicing

import (
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the invoicing domain
const (
	EventTypeInvoiceCreated = "invoicing.invoice.created"
	EventTypeInvoiceUpdated = "invoicing.invoice.updated"
	EventTypeInvoiceDeleted = "invoicing.invoice.deleted"
)

// AggregateTypeInvoice identifies the invoice aggregate in event metadata
const AggregateTypeInvoice = "Invoice"

// InvoiceCreatedEvent is emitted after an invoice and its items commit.
// It carries the finalized header so consumers never need to read back.
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID  uuid.UUID `json:"invoice_id"`
	Number     string    `json:"number"`
	ClientID   uuid.UUID `json:"client_id"`
	Total      string    `json:"total"`
	InvoicedAt time.Time `json:"invoiced_at"`
}

// NewInvoiceCreatedEvent creates an InvoiceCreatedEvent from a finalized invoice
func NewInvoiceCreatedEvent(inv *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, inv.ID, inv.SellerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		ClientID:        inv.ClientID,
		Total:           inv.TotalMoney().String(),
		InvoicedAt:      inv.CreatedAt,
	}
}

// InvoiceUpdatedEvent is emitted after an invoice's items are replaced
type InvoiceUpdatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
	ClientID  uuid.UUID `json:"client_id"`
	Total     string    `json:"total"`
}

// NewInvoiceUpdatedEvent creates an InvoiceUpdatedEvent
func NewInvoiceUpdatedEvent(inv *Invoice) *InvoiceUpdatedEvent {
	return &InvoiceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceUpdated, AggregateTypeInvoice, inv.ID, inv.SellerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
		ClientID:        inv.ClientID,
		Total:           inv.TotalMoney().String(),
	}
}

// InvoiceDeletedEvent is emitted after an invoice and its items are removed
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
}

// NewInvoiceDeletedEvent creates an InvoiceDeletedEvent
func NewInvoiceDeletedEvent(inv *Invoice) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceDeleted, AggregateTypeInvoice, inv.ID, inv.SellerID),
		InvoiceID:       inv.ID,
		Number:          inv.Number,
	}
}
