package invoicing

import (
	"time"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRequest is one line of a create/update request
type ItemRequest struct {
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// CreateInvoiceRequest carries the typed input for invoice creation
type CreateInvoiceRequest struct {
	ClientID uuid.UUID        `json:"client_id"`
	Notes    *string          `json:"notes,omitempty"`
	Tax      *decimal.Decimal `json:"tax,omitempty"`
	Items    []ItemRequest    `json:"items"`
}

// UpdateInvoiceRequest carries the typed input for invoice update.
// The item set replaces the previous one wholesale.
type UpdateInvoiceRequest struct {
	ClientID uuid.UUID        `json:"client_id"`
	Notes    *string          `json:"notes,omitempty"`
	Tax      *decimal.Decimal `json:"tax,omitempty"`
	Items    []ItemRequest    `json:"items"`
}

// InvoiceItemResponse is a materialized line item
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse is the fully materialized invoice-with-items DTO
type InvoiceResponse struct {
	ID        uuid.UUID             `json:"id"`
	SellerID  uuid.UUID             `json:"seller_id"`
	ClientID  uuid.UUID             `json:"client_id"`
	Number    string                `json:"number"`
	Notes     *string               `json:"notes,omitempty"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
	Tax       decimal.Decimal       `json:"tax"`
	Total     decimal.Decimal       `json:"total"`
	Items     []InvoiceItemResponse `json:"items"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// InvoiceListItemResponse is one row of an invoice listing
type InvoiceListItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ClientID  uuid.UUID       `json:"client_id"`
	Number    string          `json:"number"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// InvoiceListFilter carries listing parameters
type InvoiceListFilter struct {
	Page     int
	PageSize int
	Search   string
	ClientID *uuid.UUID
}

// ToInvoiceResponse converts an invoice aggregate to its response DTO
func ToInvoiceResponse(inv *invoicing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:          item.ID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Amount:      item.Amount,
		})
	}

	return InvoiceResponse{
		ID:        inv.ID,
		SellerID:  inv.SellerID,
		ClientID:  inv.ClientID,
		Number:    inv.Number,
		Notes:     inv.Notes,
		Subtotal:  inv.Subtotal,
		Tax:       inv.Tax,
		Total:     inv.Total,
		Items:     items,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

// ToInvoiceListItemResponse converts an invoice header to a listing row
func ToInvoiceListItemResponse(inv *invoicing.Invoice) InvoiceListItemResponse {
	return InvoiceListItemResponse{
		ID:        inv.ID,
		ClientID:  inv.ClientID,
		Number:    inv.Number,
		Total:     inv.Total,
		CreatedAt: inv.CreatedAt,
	}
}
