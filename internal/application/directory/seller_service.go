package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// SellerService handles the admin-facing seller roster: provisioning new
// tenants and toggling their active flag. Sellers are never deleted.
type SellerService struct {
	sellerRepo directory.SellerRepository
}

// NewSellerService creates a new SellerService
func NewSellerService(sellerRepo directory.SellerRepository) *SellerService {
	return &SellerService{sellerRepo: sellerRepo}
}

// Provision creates a new seller tenant with a bcrypt-hashed password
func (s *SellerService) Provision(ctx context.Context, actor directory.Actor, req ProvisionSellerRequest) (*SellerResponse, error) {
	if err := directory.RequireAdmin(actor); err != nil {
		return nil, err
	}

	if len(req.Password) < minPasswordLength {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Password must be at least 8 characters")
	}

	existing, err := s.sellerRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A seller with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	seller, err := directory.NewSeller(req.Name, req.Email, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// SetActive toggles whether a seller may operate
func (s *SellerService) SetActive(ctx context.Context, actor directory.Actor, sellerID uuid.UUID, active bool) (*SellerResponse, error) {
	if err := directory.RequireAdmin(actor); err != nil {
		return nil, err
	}

	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	seller.SetActive(active)
	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// Get loads one seller for the admin view
func (s *SellerService) Get(ctx context.Context, actor directory.Actor, sellerID uuid.UUID) (*SellerResponse, error) {
	if err := directory.RequireAdmin(actor); err != nil {
		return nil, err
	}

	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// List returns the seller roster with pagination and name/email search
func (s *SellerService) List(ctx context.Context, actor directory.Actor, filter SellerListFilter) ([]SellerResponse, int64, error) {
	if err := directory.RequireAdmin(actor); err != nil {
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

	sellers, err := s.sellerRepo.FindAll(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.sellerRepo.Count(ctx, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SellerResponse, 0, len(sellers))
	for i := range sellers {
		responses = append(responses, ToSellerResponse(&sellers[i]))
	}
	return responses, total, nil
}

// VerifyCredentials checks a seller's email/password pair and returns the
// seller when valid and active. Used by the login endpoint.
func (s *SellerService) VerifyCredentials(ctx context.Context, email, password string) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !seller.Active {
		return nil, shared.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(password)) != nil {
		return nil, shared.ErrUnauthorized
	}

	response := ToSellerResponse(seller)
	return &response, nil
}
