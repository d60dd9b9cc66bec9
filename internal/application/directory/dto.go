package directory

import (
	"time"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/google/uuid"
)

// CreateClientRequest carries the typed input for client creation
type CreateClientRequest struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// UpdateClientRequest carries the typed input for client update
type UpdateClientRequest struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// ClientResponse is the materialized client DTO
type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientListFilter carries listing parameters
type ClientListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// ToClientResponse converts a client aggregate to its response DTO
func ToClientResponse(client *directory.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		SellerID:  client.SellerID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Address:   client.Address,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// ProvisionSellerRequest carries the admin input for creating a seller
type ProvisionSellerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SellerResponse is the materialized seller DTO. The password hash never
// leaves the domain.
type SellerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SellerListFilter carries listing parameters for the admin roster view
type SellerListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// ToSellerResponse converts a seller aggregate to its response DTO
func ToSellerResponse(seller *directory.Seller) SellerResponse {
	return SellerResponse{
		ID:        seller.ID,
		Name:      seller.Name,
		Email:     seller.Email,
		Active:    seller.Active,
		CreatedAt: seller.CreatedAt,
		UpdatedAt: seller.UpdatedAt,
	}
}
