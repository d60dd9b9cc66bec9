package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_RegisterAndGet(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newTestHandler("InvoiceCreated")
	registry.Register(handler, "InvoiceCreated")

	handlers := registry.GetHandlers("InvoiceCreated")
	assert.Len(t, handlers, 1)

	assert.Empty(t, registry.GetHandlers("InvoiceDeleted"))
}

func TestHandlerRegistry_WildcardReceivesEverything(t *testing.T) {
	registry := NewHandlerRegistry()

	wildcard := newTestHandler()
	specific := newTestHandler("InvoiceCreated")
	registry.Register(wildcard)
	registry.Register(specific, "InvoiceCreated")

	assert.Len(t, registry.GetHandlers("InvoiceCreated"), 2)
	assert.Len(t, registry.GetHandlers("SomethingElse"), 1)
}

func TestHandlerRegistry_MultipleEventTypes(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newTestHandler("InvoiceCreated", "InvoiceUpdated")
	registry.Register(handler, "InvoiceCreated", "InvoiceUpdated")

	assert.Len(t, registry.GetHandlers("InvoiceCreated"), 1)
	assert.Len(t, registry.GetHandlers("InvoiceUpdated"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newTestHandler("InvoiceCreated", "InvoiceUpdated")
	registry.Register(handler, "InvoiceCreated", "InvoiceUpdated")
	wildcard := newTestHandler()
	registry.Register(wildcard)

	registry.Unregister(handler)

	// Only the wildcard remains
	assert.Len(t, registry.GetHandlers("InvoiceCreated"), 1)
	assert.Len(t, registry.GetHandlers("InvoiceUpdated"), 1)

	registry.Unregister(wildcard)
	assert.Empty(t, registry.GetHandlers("InvoiceCreated"))
}

func TestHandlerRegistry_GetAllHandlers_Deduplicates(t *testing.T) {
	registry := NewHandlerRegistry()

	handler := newTestHandler("InvoiceCreated", "InvoiceUpdated")
	registry.Register(handler, "InvoiceCreated", "InvoiceUpdated")
	wildcard := newTestHandler()
	registry.Register(wildcard)

	all := registry.GetAllHandlers()
	assert.Len(t, all, 2)
}
