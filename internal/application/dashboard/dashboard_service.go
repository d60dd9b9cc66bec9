package dashboard

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/dashboard"
	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/shared"
)

const dateOnlyLayout = "2006-01-02"

// OverviewResponse bundles the four dashboard result sets. It is returned
// whole or not at all; a failing query never yields a partial payload.
type OverviewResponse struct {
	KPIs           dashboard.KPIs             `json:"kpis"`
	TopClients     []dashboard.ClientRevenue  `json:"top_clients"`
	RecentInvoices []dashboard.RecentInvoice  `json:"recent_invoices"`
	MonthlySeries  []dashboard.MonthlyRevenue `json:"monthly_series"`
}

// DashboardService computes the read-side dashboard for one seller
type DashboardService struct {
	reportRepo dashboard.Repository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(reportRepo dashboard.Repository) *DashboardService {
	return &DashboardService{reportRepo: reportRepo}
}

// Overview runs the four dashboard queries over the same filtered invoice
// set. from/to are optional date strings; a date-only "to" is widened to
// end of day so the range stays inclusive.
func (s *DashboardService) Overview(ctx context.Context, actor directory.Actor, from, to string) (*OverviewResponse, error) {
	sellerID, err := directory.RequireSeller(actor)
	if err != nil {
		return nil, err
	}

	dateRange, err := ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}

	kpis, err := s.reportRepo.KPIs(ctx, sellerID, dateRange)
	if err != nil {
		return nil, err
	}
	topClients, err := s.reportRepo.TopClients(ctx, sellerID, dateRange, dashboard.DefaultTopClientsLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.reportRepo.RecentInvoices(ctx, sellerID, dateRange, dashboard.DefaultRecentInvoicesLimit)
	if err != nil {
		return nil, err
	}
	series, err := s.reportRepo.MonthlyRevenue(ctx, sellerID, dateRange)
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		KPIs:           *kpis,
		TopClients:     topClients,
		RecentInvoices: recent,
		MonthlySeries:  series,
	}, nil
}

// ParseDateRange parses optional from/to bounds. Both date-only
// ("2006-01-02") and RFC3339 values are accepted; a date-only upper bound
// means the whole of that day.
func ParseDateRange(from, to string) (dashboard.DateRange, error) {
	var r dashboard.DateRange

	if from != "" {
		parsed, err := parseBound(from, false)
		if err != nil {
			return r, err
		}
		r.From = parsed
	}
	if to != "" {
		parsed, err := parseBound(to, true)
		if err != nil {
			return r, err
		}
		r.To = parsed
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return dashboard.DateRange{}, shared.NewDomainError("VALIDATION_FAILED", "Date range end precedes its start")
	}
	return r, nil
}

func parseBound(value string, upper bool) (*time.Time, error) {
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		if upper {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, shared.NewDomainError("VALIDATION_FAILED", "Invalid date: "+value)
}
