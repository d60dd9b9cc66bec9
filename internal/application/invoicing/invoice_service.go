package invoicing

import (
	"context"
	"errors"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// maxNumberingAttempts bounds the allocate+insert retry loop closing the
// numbering race. Each attempt re-reads the highest existing sequence, so a
// collision only recurs while another creation for the same seller is in
// flight.
const maxNumberingAttempts = 3

// InvoiceService orchestrates the invoice lifecycle. Every operation runs as
// one atomic unit of work and re-evaluates the ownership guard.
type InvoiceService struct {
	invoiceRepo invoicing.InvoiceRepository
	clientRepo  directory.ClientRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoiceRepo invoicing.InvoiceRepository, clientRepo directory.ClientRepository) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

// Create issues a new invoice for the acting seller. Header, items and the
// InvoiceCreated outbox entry commit together; the event is published only
// after the transaction is durable.
func (s *InvoiceService) Create(ctx context.Context, actor directory.Actor, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return nil, err
	}

	if err := s.verifyClientOwnership(ctx, sellerID, req.ClientID); err != nil {
		return nil, err
	}

	lines := toItemInputs(req.Items)

	for attempt := 0; attempt < maxNumberingAttempts; attempt++ {
		number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx, sellerID)
		if err != nil {
			return nil, err
		}

		inv, err := invoicing.NewInvoice(sellerID, req.ClientID, number, req.Notes)
		if err != nil {
			return nil, err
		}
		if err := inv.ReplaceItems(lines); err != nil {
			return nil, err
		}
		if req.Tax != nil {
			if err := inv.SetTax(valueobject.NewMoney(*req.Tax)); err != nil {
				return nil, err
			}
		}

		inv.AddDomainEvent(invoicing.NewInvoiceCreatedEvent(inv))

		err = s.invoiceRepo.Create(ctx, inv)
		if errors.Is(err, invoicing.ErrDuplicateNumber) {
			continue
		}
		if err != nil {
			return nil, err
		}

		response := ToInvoiceResponse(inv)
		return &response, nil
	}

	return nil, shared.ErrNumberingConflict
}

// Update replaces the invoice's client assignment, notes, tax and the whole
// item set. Identifier and number are immutable.
func (s *InvoiceService) Update(ctx context.Context, actor directory.Actor, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoiceRepo.FindWithItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := directory.EnsureOwnedBy(sellerID, inv); err != nil {
		return nil, err
	}
	if err := s.verifyClientOwnership(ctx, sellerID, req.ClientID); err != nil {
		return nil, err
	}

	if err := inv.Reassign(req.ClientID, req.Notes); err != nil {
		return nil, err
	}
	if err := inv.ReplaceItems(toItemInputs(req.Items)); err != nil {
		return nil, err
	}
	tax := valueobject.ZeroMoney()
	if req.Tax != nil {
		tax = valueobject.NewMoney(*req.Tax)
	}
	if err := inv.SetTax(tax); err != nil {
		return nil, err
	}

	inv.AddDomainEvent(invoicing.NewInvoiceUpdatedEvent(inv))

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete removes the invoice and all its items atomically
func (s *InvoiceService) Delete(ctx context.Context, actor directory.Actor, invoiceID uuid.UUID) error {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return err
	}

	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if err := directory.EnsureOwnedBy(sellerID, inv); err != nil {
		return err
	}

	inv.AddDomainEvent(invoicing.NewInvoiceDeletedEvent(inv))

	return s.invoiceRepo.Delete(ctx, inv)
}

// Get loads a fully materialized invoice-with-items for the acting seller
func (s *InvoiceService) Get(ctx context.Context, actor directory.Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return nil, err
	}

	inv, err := s.invoiceRepo.FindWithItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := directory.EnsureOwnedBy(sellerID, inv); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List returns the seller's invoices, newest first, with pagination
func (s *InvoiceService) List(ctx context.Context, actor directory.Actor, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repoFilter := shared.DefaultFilter()
	repoFilter.Page = filter.Page
	repoFilter.PageSize = filter.PageSize
	repoFilter.Search = filter.Search
	if filter.ClientID != nil {
		repoFilter.Filters["client_id"] = *filter.ClientID
	}

	invoices, err := s.invoiceRepo.FindAllForSeller(ctx, sellerID, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForSeller(ctx, sellerID, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]InvoiceListItemResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceListItemResponse(&invoices[i]))
	}
	return items, total, nil
}

// verifyClientOwnership checks that the client exists and belongs to the
// seller. A nonexistent client is bad input; a foreign one is a cross-tenant
// access attempt.
func (s *InvoiceService) verifyClientOwnership(ctx context.Context, sellerID, clientID uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("VALIDATION_FAILED", "Client does not exist")
		}
		return err
	}
	return directory.EnsureOwnedBy(sellerID, client)
}

func toItemInputs(items []ItemRequest) []invoicing.ItemInput {
	lines := make([]invoicing.ItemInput, 0, len(items))
	for _, item := range items {
		lines = append(lines, invoicing.ItemInput{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       valueobject.NewMoney(item.Price),
		})
	}
	return lines
}
