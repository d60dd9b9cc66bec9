package directory

import (
	"context"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client directory operations for the owning seller
type ClientService struct {
	clientRepo  directory.ClientRepository
	invoiceRepo invoicing.InvoiceRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo directory.ClientRepository, invoiceRepo invoicing.InvoiceRepository) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		invoiceRepo: invoiceRepo,
	}
}

// Create adds a client to the acting seller's directory
func (s *ClientService) Create(ctx context.Context, actor directory.Actor, req CreateClientRequest) (*ClientResponse, error) {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return nil, err
	}

	client, err := directory.NewClient(sellerID, req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(ctx, sellerID, client, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Update replaces the client's mutable attributes
func (s *ClientService) Update(ctx context.Context, actor directory.Actor, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := directory.EnsureOwnedBy(sellerID, client); err != nil {
		return nil, err
	}

	if err := client.Update(req.Name, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, sellerID, client, client.ID); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete removes a client. Clients that still have invoices are kept to
// preserve relational integrity.
func (s *ClientService) Delete(ctx context.Context, actor directory.Actor, clientID uuid.UUID) error {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return err
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return err
	}
	if err := directory.EnsureOwnedBy(sellerID, client); err != nil {
		return err
	}

	count, err := s.invoiceRepo.CountForClient(ctx, clientID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "Client has invoices and cannot be deleted")
	}

	return s.clientRepo.Delete(ctx, clientID)
}

// Get loads one client for the acting seller
func (s *ClientService) Get(ctx context.Context, actor directory.Actor, clientID uuid.UUID) (*ClientResponse, error) {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := directory.EnsureOwnedBy(sellerID, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List returns the seller's clients with pagination and name search
func (s *ClientService) List(ctx context.Context, actor directory.Actor, filter ClientListFilter) ([]ClientResponse, int64, error) {
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

	clients, err := s.clientRepo.FindAllForSeller(ctx, sellerID, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.clientRepo.CountForSeller(ctx, sellerID, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, ToClientResponse(&clients[i]))
	}
	return responses, total, nil
}

// checkUniqueness enforces the per-seller email/phone uniqueness contract
func (s *ClientService) checkUniqueness(ctx context.Context, sellerID uuid.UUID, client *directory.Client, excludeID uuid.UUID) error {
	if client.Email != nil {
		taken, err := s.clientRepo.ExistsWithEmail(ctx, sellerID, *client.Email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError("ALREADY_EXISTS", "Another client already uses this email")
		}
	}
	if client.Phone != nil {
		taken, err := s.clientRepo.ExistsWithPhone(ctx, sellerID, *client.Phone, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError("ALREADY_EXISTS", "Another client already uses this phone")
		}
	}
	return nil
}
