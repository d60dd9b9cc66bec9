package handler

import (
	"fmt"
	"net/http"
	"testing"

	appinvoicing "github.com/facturo/backend/internal/application/invoicing"
	"github.com/facturo/backend/internal/domain/directory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createInvoicePayload(clientID uuid.UUID) map[string]any {
	return map[string]any{
		"client_id": clientID,
		"items": []map[string]any{
			{"product_name": "Consulting", "quantity": 2, "price": "50.00"},
			{"product_name": "Hosting", "quantity": 1, "price": "30.00"},
		},
	}
}

func TestInvoiceHandler_Create(t *testing.T) {
	sellerID := uuid.New()
	api := newTestAPI(t, directory.SellerActor{ID: sellerID})
	client := api.seedClient(t, sellerID, "Acme")

	w := api.do(t, http.MethodPost, "/api/v1/invoices", createInvoicePayload(client.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp appinvoicing.InvoiceResponse
	decodeData(t, w, &resp)

	assert.Equal(t, sellerID, resp.SellerID)
	assert.Equal(t, client.ID, resp.ClientID)
	assert.Regexp(t, `^INV-\d{2}-\d{5}$`, resp.Number)
	assert.Equal(t, "130", resp.Total.String())
	assert.Len(t, resp.Items, 2)
}

func TestInvoiceHandler_Create_Invalid(t *testing.T) {
	sellerID := uuid.New()
	api := newTestAPI(t, directory.SellerActor{ID: sellerID})
	client := api.seedClient(t, sellerID, "Acme")

	t.Run("empty items", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/v1/invoices", map[string]any{
			"client_id": client.ID,
			"items":     []map[string]any{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, w))
	})

	t.Run("unknown client", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/v1/invoices", createInvoicePayload(uuid.New()))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/v1/invoices", "not an object")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceHandler_Create_ForeignClient(t *testing.T) {
	sellerID := uuid.New()
	api := newTestAPI(t, directory.SellerActor{ID: sellerID})
	foreign := api.seedClient(t, uuid.New(), "Foreign")

	w := api.do(t, http.MethodPost, "/api/v1/invoices", createInvoicePayload(foreign.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}

func TestInvoiceHandler_GetUpdateDelete(t *testing.T) {
	sellerID := uuid.New()
	api := newTestAPI(t, directory.SellerActor{ID: sellerID})
	client := api.seedClient(t, sellerID, "Acme")

	w := api.do(t, http.MethodPost, "/api/v1/invoices", createInvoicePayload(client.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var created appinvoicing.InvoiceResponse
	decodeData(t, w, &created)

	t.Run("get returns the materialized invoice", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/invoices/"+created.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got appinvoicing.InvoiceResponse
		decodeData(t, w, &got)
		assert.Equal(t, created.Number, got.Number)
		assert.Len(t, got.Items, 2)
	})

	t.Run("update replaces the item set wholesale", func(t *testing.T) {
		w := api.do(t, http.MethodPut, "/api/v1/invoices/"+created.ID.String(), map[string]any{
			"client_id": client.ID,
			"tax":       "5.00",
			"items": []map[string]any{
				{"product_name": "Support", "quantity": 3, "price": "10.00"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated appinvoicing.InvoiceResponse
		decodeData(t, w, &updated)
		assert.Equal(t, created.Number, updated.Number)
		assert.Len(t, updated.Items, 1)
		assert.Equal(t, "30", updated.Subtotal.String())
		assert.Equal(t, "35", updated.Total.String())
	})

	t.Run("delete removes the invoice", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, "/api/v1/invoices/"+created.ID.String(), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = api.do(t, http.MethodGet, "/api/v1/invoices/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id yields 400", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceHandler_CrossTenantAccess(t *testing.T) {
	ownerID := uuid.New()
	api := newTestAPI(t, directory.SellerActor{ID: ownerID})
	client := api.seedClient(t, ownerID, "Acme")

	w := api.do(t, http.MethodPost, "/api/v1/invoices", createInvoicePayload(client.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	var created appinvoicing.InvoiceResponse
	decodeData(t, w, &created)

	api.actor = directory.SellerActor{ID: uuid.New()}

	t.Run("get", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/invoices/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
	})

	t.Run("update", func(t *testing.T) {
		w := api.do(t, http.MethodPut, "/api/v1/invoices/"+created.ID.String(), map[string]any{
			"client_id": client.ID,
			"items": []map[string]any{
				{"product_name": "X", "quantity": 1, "price": "1.00"},
			},
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
	})

	t.Run("delete leaves the invoice untouched", func(t *testing.T) {
		w := api.do(t, http.MethodDelete, "/api/v1/invoices/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		api.actor = directory.SellerActor{ID: ownerID}
		w = api.do(t, http.MethodGet, "/api/v1/invoices/"+created.ID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestInvoiceHandler_List(t *testing.T) {
	sellerID := uuid.New()
	api := newTestAPI(t, directory.SellerActor{ID: sellerID})
	client := api.seedClient(t, sellerID, "Acme")
	other := api.seedClient(t, sellerID, "Globex")

	for i, c := range []uuid.UUID{client.ID, client.ID, other.ID} {
		w := api.do(t, http.MethodPost, "/api/v1/invoices", map[string]any{
			"client_id": c,
			"items": []map[string]any{
				{"product_name": fmt.Sprintf("Line %d", i), "quantity": 1, "price": "10.00"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("lists all seller invoices with meta", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/invoices?page=1&page_size=10", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []appinvoicing.InvoiceListItemResponse
		decodeData(t, w, &items)
		assert.Len(t, items, 3)
	})

	t.Run("filters by client", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/invoices?client_id="+other.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var items []appinvoicing.InvoiceListItemResponse
		decodeData(t, w, &items)
		assert.Len(t, items, 1)
	})

	t.Run("rejects malformed client filter", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/invoices?client_id=nope", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceHandler_AdminActorRejected(t *testing.T) {
	api := newTestAPI(t, directory.AdminActor{ID: uuid.New()})

	w := api.do(t, http.MethodGet, "/api/v1/invoices", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))
}
