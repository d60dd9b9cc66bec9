package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// SellerAggregateRoot extends BaseAggregateRoot with seller scoping.
// Every entity owned by a seller embeds this so the ownership guard can
// compare the owning seller against the acting seller uniformly.
type SellerAggregateRoot struct {
	BaseAggregateRoot
	SellerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewSellerAggregateRoot creates a new seller-scoped aggregate root
func NewSellerAggregateRoot(sellerID uuid.UUID) SellerAggregateRoot {
	return SellerAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		SellerID:          sellerID,
	}
}

// OwnedBy reports whether the aggregate belongs to the given seller
func (a *SellerAggregateRoot) OwnedBy(sellerID uuid.UUID) bool {
	return a.SellerID == sellerID
}
