package notification

import (
	"context"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InvoiceCreatedHandler is the notification relay for freshly issued
// invoices. Delivery is at-least-once, so the handler is expected to be
// wrapped with the idempotent-handler decorator when registered.
type InvoiceCreatedHandler struct {
	logger *zap.Logger
}

// NewInvoiceCreatedHandler creates a new InvoiceCreatedHandler
func NewInvoiceCreatedHandler(logger *zap.Logger) *InvoiceCreatedHandler {
	return &InvoiceCreatedHandler{logger: logger}
}

// Handle logs the structured invoice-created fact
func (h *InvoiceCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*invoicing.InvoiceCreatedEvent)
	if !ok {
		// Other event types routed here are not an error
		return nil
	}

	h.logger.Info("Invoice created",
		zap.String("invoice_id", created.InvoiceID.String()),
		zap.String("number", created.Number),
		zap.String("seller_id", created.SellerID().String()),
		zap.String("client_id", created.ClientID.String()),
		zap.String("total", created.Total),
		zap.Time("invoiced_at", created.InvoicedAt),
	)
	return nil
}

// EventTypes returns the event types this handler subscribes to
func (h *InvoiceCreatedHandler) EventTypes() []string {
	return []string{invoicing.EventTypeInvoiceCreated}
}
