package directory

import (
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	maxClientNameLength = 150
	maxAddressLength    = 255
	maxPhoneLength      = 30
)

// Client is a seller's customer. Email and phone are optional and unique
// within the owning seller, not globally.
type Client struct {
	shared.SellerAggregateRoot
	Name    string  `gorm:"type:varchar(150);not null"`
	Email   *string `gorm:"type:varchar(255)"`
	Phone   *string `gorm:"type:varchar(30)"`
	Address *string `gorm:"type:varchar(255)"`
}

// TableName returns the database table name
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client owned by the given seller
func NewClient(sellerID uuid.UUID, name string, email, phone, address *string) (*Client, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Owning seller cannot be empty")
	}
	if err := validateClientFields(name, email, phone, address); err != nil {
		return nil, err
	}

	return &Client{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		Name:                name,
		Email:               normalizeOptional(email),
		Phone:               normalizeOptional(phone),
		Address:             normalizeOptional(address),
	}, nil
}

// Update replaces the client's mutable attributes
func (c *Client) Update(name string, email, phone, address *string) error {
	if err := validateClientFields(name, email, phone, address); err != nil {
		return err
	}
	c.Name = name
	c.Email = normalizeOptional(email)
	c.Phone = normalizeOptional(phone)
	c.Address = normalizeOptional(address)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

func validateClientFields(name string, email, phone, address *string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Client name cannot be empty")
	}
	if len(name) > maxClientNameLength {
		return shared.NewDomainError("VALIDATION_FAILED", "Client name cannot exceed 150 characters")
	}
	if email != nil && *email != "" {
		if err := validateEmail(*email); err != nil {
			return err
		}
	}
	if phone != nil && len(*phone) > maxPhoneLength {
		return shared.NewDomainError("VALIDATION_FAILED", "Phone cannot exceed 30 characters")
	}
	if address != nil && len(*address) > maxAddressLength {
		return shared.NewDomainError("VALIDATION_FAILED", "Address cannot exceed 255 characters")
	}
	return nil
}

// normalizeOptional maps empty strings to nil so per-seller uniqueness only
// applies to values that are actually present
func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
