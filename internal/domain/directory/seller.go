package directory

import (
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
)

const (
	maxSellerNameLength = 150
	maxEmailLength      = 255
)

// Seller is the tenant root. It owns clients and invoices. Sellers are
// provisioned by an admin and are deactivated, never physically deleted.
type Seller struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"type:varchar(150);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Seller) TableName() string {
	return "sellers"
}

// NewSeller creates a new seller tenant
func NewSeller(name, email, passwordHash string) (*Seller, error) {
	if err := validateSellerName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Password hash cannot be empty")
	}

	return &Seller{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             strings.ToLower(email),
		PasswordHash:      passwordHash,
		Active:            true,
	}, nil
}

// SetActive toggles whether the seller may operate
func (s *Seller) SetActive(active bool) {
	s.Active = active
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// Rename updates the seller's display name
func (s *Seller) Rename(name string) error {
	if err := validateSellerName(name); err != nil {
		return err
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func validateSellerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Seller name cannot be empty")
	}
	if len(name) > maxSellerNameLength {
		return shared.NewDomainError("VALIDATION_FAILED", "Seller name cannot exceed 150 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Email cannot be empty")
	}
	if len(email) > maxEmailLength {
		return shared.NewDomainError("VALIDATION_FAILED", "Email cannot exceed 255 characters")
	}
	if !strings.Contains(email, "@") {
		return shared.NewDomainError("VALIDATION_FAILED", "Email format is invalid")
	}
	return nil
}
