package persistence

import (
	"context"

	"github.com/facturo/backend/internal/domain/dashboard"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements dashboard.Repository using GORM.
// Every query computes from current data; nothing is cached between calls.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// KPIs returns the headline figures for a seller. Invoice count and revenue
// honor the date range; the client count covers the whole roster.
func (r *GormDashboardRepository) KPIs(ctx context.Context, sellerID uuid.UUID, rng dashboard.DateRange) (*dashboard.KPIs, error) {
	type invoiceResult struct {
		InvoiceCount int64
		TotalRevenue decimal.Decimal
	}

	var result invoiceResult
	query := r.db.WithContext(ctx).Table("invoices").
		Select("COUNT(id) as invoice_count, COALESCE(SUM(total), 0) as total_revenue").
		Where("seller_id = ?", sellerID)
	query = applyDateRange(query, rng)

	if err := query.Scan(&result).Error; err != nil {
		return nil, err
	}

	var clientCount int64
	if err := r.db.WithContext(ctx).Table("clients").
		Where("seller_id = ?", sellerID).
		Count(&clientCount).Error; err != nil {
		return nil, err
	}

	return &dashboard.KPIs{
		InvoiceCount: result.InvoiceCount,
		TotalRevenue: result.TotalRevenue,
		ClientCount:  clientCount,
	}, nil
}

// TopClients ranks clients by invoiced revenue within the range, highest
// first. Ties break ascending by client ID so the order is deterministic.
func (r *GormDashboardRepository) TopClients(ctx context.Context, sellerID uuid.UUID, rng dashboard.DateRange, limit int) ([]dashboard.ClientRevenue, error) {
	type clientResult struct {
		ClientID   uuid.UUID
		ClientName string
		Revenue    decimal.Decimal
	}

	var results []clientResult
	query := r.db.WithContext(ctx).Table("invoices i").
		Select("i.client_id as client_id, c.name as client_name, COALESCE(SUM(i.total), 0) as revenue").
		Joins("JOIN clients c ON c.id = i.client_id").
		Where("i.seller_id = ?", sellerID)
	query = applyPrefixedDateRange(query, "i", rng)

	err := query.
		Group("i.client_id, c.name").
		Order("revenue DESC, client_id ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	ranking := make([]dashboard.ClientRevenue, len(results))
	for i, row := range results {
		ranking[i] = dashboard.ClientRevenue{
			ClientID:   row.ClientID,
			ClientName: row.ClientName,
			Revenue:    row.Revenue,
		}
	}
	return ranking, nil
}

// RecentInvoices lists the newest invoices in the range, newest first by ID
func (r *GormDashboardRepository) RecentInvoices(ctx context.Context, sellerID uuid.UUID, rng dashboard.DateRange, limit int) ([]dashboard.RecentInvoice, error) {
	var results []dashboard.RecentInvoice
	query := r.db.WithContext(ctx).Table("invoices").
		Select("id, number, client_id, total, created_at").
		Where("seller_id = ?", sellerID)
	query = applyDateRange(query, rng)

	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// MonthlyRevenue buckets invoiced revenue by calendar month, ascending
func (r *GormDashboardRepository) MonthlyRevenue(ctx context.Context, sellerID uuid.UUID, rng dashboard.DateRange) ([]dashboard.MonthlyRevenue, error) {
	monthExpr := "to_char(created_at, 'YYYY-MM')"
	if r.db.Dialector.Name() == "sqlite" {
		monthExpr = "strftime('%Y-%m', created_at)"
	}

	type monthResult struct {
		Month   string
		Revenue decimal.Decimal
	}

	var results []monthResult
	query := r.db.WithContext(ctx).Table("invoices").
		Select(monthExpr+" as month, COALESCE(SUM(total), 0) as revenue").
		Where("seller_id = ?", sellerID)
	query = applyDateRange(query, rng)

	err := query.
		Group(monthExpr).
		Order("month ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	series := make([]dashboard.MonthlyRevenue, len(results))
	for i, row := range results {
		series[i] = dashboard.MonthlyRevenue{Month: row.Month, Revenue: row.Revenue}
	}
	return series, nil
}

// applyDateRange bounds a query by invoice creation time, inclusive
func applyDateRange(query *gorm.DB, rng dashboard.DateRange) *gorm.DB {
	if rng.From != nil {
		query = query.Where("created_at >= ?", *rng.From)
	}
	if rng.To != nil {
		query = query.Where("created_at <= ?", *rng.To)
	}
	return query
}

// applyPrefixedDateRange is applyDateRange for aliased tables
func applyPrefixedDateRange(query *gorm.DB, alias string, rng dashboard.DateRange) *gorm.DB {
	if rng.From != nil {
		query = query.Where(alias+".created_at >= ?", *rng.From)
	}
	if rng.To != nil {
		query = query.Where(alias+".created_at <= ?", *rng.To)
	}
	return query
}

// Ensure GormDashboardRepository implements dashboard.Repository
var _ dashboard.Repository = (*GormDashboardRepository)(nil)
