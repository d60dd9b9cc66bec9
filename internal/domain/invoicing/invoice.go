package invoicing

import (
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxProductNameLength = 255
	maxNotesLength       = 1000
	maxNumberLength      = 20
)

// InvoiceItem represents a line item on an invoice. Items exist only as
// children of exactly one invoice and are wholly replaced on update.
type InvoiceItem struct {
	ID          uuid.UUID
	InvoiceID   uuid.UUID
	ProductName string
	Quantity    int
	Price       decimal.Decimal // Unit price, 2-decimal fixed point
	Amount      decimal.Decimal // Quantity * Price, denormalized
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the database table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new line item with its computed line total
func NewInvoiceItem(invoiceID uuid.UUID, productName string, quantity int, price valueobject.Money) (*InvoiceItem, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Product name cannot be empty")
	}
	if len(productName) > maxProductNameLength {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Product name cannot exceed 255 characters")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Quantity must be at least 1")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Price cannot be negative")
	}

	amount := price.MultiplyInt(quantity)
	if !amount.WithinPrecision() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Line total exceeds the supported precision")
	}

	now := time.Now()
	return &InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		ProductName: productName,
		Quantity:    quantity,
		Price:       price.Amount(),
		Amount:      amount.Amount(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// AmountMoney returns the line total as a Money value object
func (i *InvoiceItem) AmountMoney() valueobject.Money {
	return valueobject.NewMoney(i.Amount)
}

// Invoice is the billing document aggregate. Header and items are always
// persisted together in one transaction; after every successful write
// Total == Subtotal + Tax and Subtotal equals the sum of line amounts.
type Invoice struct {
	shared.SellerAggregateRoot
	ClientID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number   string          `gorm:"type:varchar(20);not null"`
	Notes    *string         `gorm:"type:varchar(1000)"`
	Subtotal decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Tax      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Items    []InvoiceItem   `gorm:"-"`
}

// TableName returns the database table name
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice with zero totals. Items are added with
// ReplaceItems; the factory keeps header creation and item arithmetic apart
// so update reuses the same replacement path.
func NewInvoice(sellerID, clientID uuid.UUID, number string, notes *string) (*Invoice, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Owning seller cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Client cannot be empty")
	}
	if number == "" || len(number) > maxNumberLength {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Invoice number is invalid")
	}
	if notes != nil && len(*notes) > maxNotesLength {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Notes cannot exceed 1000 characters")
	}

	return &Invoice{
		SellerAggregateRoot: shared.NewSellerAggregateRoot(sellerID),
		ClientID:            clientID,
		Number:              number,
		Notes:               notes,
		Subtotal:            decimal.Zero,
		Tax:                 decimal.Zero,
		Total:               decimal.Zero,
		Items:               make([]InvoiceItem, 0),
	}, nil
}

// ReplaceItems swaps the entire item set and recomputes the totals.
// The invoice requires at least one item.
func (inv *Invoice) ReplaceItems(lines []ItemInput) error {
	if len(lines) == 0 {
		return shared.NewDomainError("VALIDATION_FAILED", "Invoice requires at least one item")
	}

	items := make([]InvoiceItem, 0, len(lines))
	for _, line := range lines {
		item, err := NewInvoiceItem(inv.ID, line.ProductName, line.Quantity, line.Price)
		if err != nil {
			return err
		}
		items = append(items, *item)
	}

	inv.Items = items
	if err := inv.recalculateTotals(); err != nil {
		return err
	}
	inv.UpdatedAt = time.Now()
	return nil
}

// ItemInput is the typed line-item input for create and update
type ItemInput struct {
	ProductName string
	Quantity    int
	Price       valueobject.Money
}

// SetTax sets the tax amount and recomputes the total
func (inv *Invoice) SetTax(tax valueobject.Money) error {
	if tax.IsNegative() {
		return shared.NewDomainError("VALIDATION_FAILED", "Tax cannot be negative")
	}
	inv.Tax = tax.Amount().Round(2)
	if err := inv.recalculateTotals(); err != nil {
		return err
	}
	inv.UpdatedAt = time.Now()
	return nil
}

// Reassign moves the invoice to another client of the same seller.
// Number and identifier are immutable across updates.
func (inv *Invoice) Reassign(clientID uuid.UUID, notes *string) error {
	if clientID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_FAILED", "Client cannot be empty")
	}
	if notes != nil && len(*notes) > maxNotesLength {
		return shared.NewDomainError("VALIDATION_FAILED", "Notes cannot exceed 1000 characters")
	}
	inv.ClientID = clientID
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
	return nil
}

// recalculateTotals recomputes Subtotal and Total from the item set.
// The sums get the same precision check as each line: items that fit
// individually can still add up past the supported range.
func (inv *Invoice) recalculateTotals() error {
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	subtotal = subtotal.Round(2)
	if !valueobject.NewMoney(subtotal).WithinPrecision() {
		return shared.NewDomainError("VALIDATION_FAILED", "Invoice subtotal exceeds the supported precision")
	}
	total := subtotal.Add(inv.Tax).Round(2)
	if !valueobject.NewMoney(total).WithinPrecision() {
		return shared.NewDomainError("VALIDATION_FAILED", "Invoice total exceeds the supported precision")
	}
	inv.Subtotal = subtotal
	inv.Total = total
	return nil
}

// SubtotalMoney returns the subtotal as a Money value object
func (inv *Invoice) SubtotalMoney() valueobject.Money {
	return valueobject.NewMoney(inv.Subtotal)
}

// TotalMoney returns the total as a Money value object
func (inv *Invoice) TotalMoney() valueobject.Money {
	return valueobject.NewMoney(inv.Total)
}
