package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateRange bounds a query by invoice creation time, inclusive on both
// ends. A nil bound leaves that side open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// KPIs are the headline figures for one seller. InvoiceCount and
// TotalRevenue honor the date range; ClientCount is the seller's total
// client roster and is deliberately not range-filtered.
type KPIs struct {
	InvoiceCount int64           `json:"invoice_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	ClientCount  int64           `json:"client_count"`
}

// ClientRevenue is one row of the top-client ranking
type ClientRevenue struct {
	ClientID   uuid.UUID       `json:"client_id"`
	ClientName string          `json:"client_name"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// RecentInvoice is one row of the recent-invoice listing
type RecentInvoice struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	ClientID  uuid.UUID       `json:"client_id"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// MonthlyRevenue is one point of the revenue time series, bucketed by
// calendar month ("YYYY-MM")
type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}
