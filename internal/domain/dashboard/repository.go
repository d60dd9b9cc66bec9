package dashboard

import (
	"context"

	"github.com/google/uuid"
)

// Default result limits for the dashboard queries
const (
	DefaultTopClientsLimit     = 5
	DefaultRecentInvoicesLimit = 10
)

// Repository is the read-side query surface for dashboards. All queries are
// scoped to one seller and never mutate state; each computes from current
// data with no cross-request caching.
type Repository interface {
	KPIs(ctx context.Context, sellerID uuid.UUID, r DateRange) (*KPIs, error)
	TopClients(ctx context.Context, sellerID uuid.UUID, r DateRange, limit int) ([]ClientRevenue, error)
	RecentInvoices(ctx context.Context, sellerID uuid.UUID, r DateRange, limit int) ([]RecentInvoice, error)
	MonthlyRevenue(ctx context.Context, sellerID uuid.UUID, r DateRange) ([]MonthlyRevenue, error)
}
