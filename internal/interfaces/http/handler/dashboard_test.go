package handler

import (
	"net/http"
	"testing"
	"time"

	appdashboard "github.com/facturo/backend/internal/application/dashboard"
	"github.com/facturo/backend/internal/domain/directory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_Overview(t *testing.T) {
	sellerID := uuid.New()
	api := newTestAPI(t, directory.SellerActor{ID: sellerID})
	acme := api.seedClient(t, sellerID, "Acme")
	globex := api.seedClient(t, sellerID, "Globex")

	for _, c := range []uuid.UUID{acme.ID, acme.ID, globex.ID} {
		w := api.do(t, http.MethodPost, "/api/v1/invoices", map[string]any{
			"client_id": c,
			"items": []map[string]any{
				{"product_name": "Work", "quantity": 1, "price": "100.00"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := api.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp appdashboard.OverviewResponse
	decodeData(t, w, &resp)

	assert.Equal(t, int64(3), resp.KPIs.InvoiceCount)
	assert.Equal(t, int64(2), resp.KPIs.ClientCount)
	assert.Equal(t, "300", resp.KPIs.TotalRevenue.String())

	require.Len(t, resp.TopClients, 2)
	assert.Equal(t, acme.ID, resp.TopClients[0].ClientID)
	assert.Equal(t, "200", resp.TopClients[0].Revenue.String())

	assert.Len(t, resp.RecentInvoices, 3)

	require.Len(t, resp.MonthlySeries, 1)
	assert.Equal(t, time.Now().Format("2006-01"), resp.MonthlySeries[0].Month)
}

func TestDashboardHandler_Overview_DateFiltered(t *testing.T) {
	sellerID := uuid.New()
	api := newTestAPI(t, directory.SellerActor{ID: sellerID})
	client := api.seedClient(t, sellerID, "Acme")

	w := api.do(t, http.MethodPost, "/api/v1/invoices", createInvoicePayload(client.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("range excluding today", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/dashboard?from=2000-01-01&to=2000-12-31", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp appdashboard.OverviewResponse
		decodeData(t, w, &resp)
		assert.Equal(t, int64(0), resp.KPIs.InvoiceCount)
		// client count ignores the range
		assert.Equal(t, int64(1), resp.KPIs.ClientCount)
	})

	t.Run("date-only to covers the whole day", func(t *testing.T) {
		today := time.Now().UTC().Format("2006-01-02")
		w := api.do(t, http.MethodGet, "/api/v1/dashboard?to="+today, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp appdashboard.OverviewResponse
		decodeData(t, w, &resp)
		assert.Equal(t, int64(1), resp.KPIs.InvoiceCount)
	})

	t.Run("malformed date", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/dashboard?from=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, w))
	})
}

func TestDashboardHandler_AdminRejected(t *testing.T) {
	api := newTestAPI(t, directory.AdminActor{ID: uuid.New()})

	w := api.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}
