package event

import (
	"github.com/facturo/backend/internal/domain/invoicing"
)

// RegisterAllEvents registers every domain event type with the serializer.
// The OutboxProcessor needs these to deserialize payloads from the outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(invoicing.EventTypeInvoiceCreated, &invoicing.InvoiceCreatedEvent{})
	serializer.Register(invoicing.EventTypeInvoiceUpdated, &invoicing.InvoiceUpdatedEvent{})
	serializer.Register(invoicing.EventTypeInvoiceDeleted, &invoicing.InvoiceDeletedEvent{})
}
