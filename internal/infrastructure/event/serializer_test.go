package event

import (
	"testing"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	original := newTestEvent("TestEvent", uuid.New())

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	restored, err := serializer.Deserialize("TestEvent", data)
	require.NoError(t, err)

	assert.Equal(t, original.EventID(), restored.EventID())
	assert.Equal(t, original.EventType(), restored.EventType())
	assert.Equal(t, original.SellerID(), restored.SellerID())

	typed, ok := restored.(*testEvent)
	require.True(t, ok)
	assert.Equal(t, "test data", typed.Data)
}

func TestEventSerializer_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("Unknown", []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestEventSerializer_InvalidPayload(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	_, err := serializer.Deserialize("TestEvent", []byte(`not json`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}

func TestEventSerializer_IsRegistered(t *testing.T) {
	serializer := NewEventSerializer()

	assert.False(t, serializer.IsRegistered("TestEvent"))

	serializer.Register("TestEvent", &testEvent{})
	assert.True(t, serializer.IsRegistered("TestEvent"))
}

func TestRegisterAllEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	for _, eventType := range []string{
		invoicing.EventTypeInvoiceCreated,
		invoicing.EventTypeInvoiceUpdated,
		invoicing.EventTypeInvoiceDeleted,
	} {
		assert.True(t, serializer.IsRegistered(eventType), eventType)
	}
	assert.Len(t, serializer.RegisteredTypes(), 3)
}

func TestRegisterAllEvents_DeserializesInvoiceCreated(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	inv, err := invoicing.NewInvoice(uuid.New(), uuid.New(), "INV-25-00001", nil)
	require.NoError(t, err)
	original := invoicing.NewInvoiceCreatedEvent(inv)

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	restored, err := serializer.Deserialize(invoicing.EventTypeInvoiceCreated, data)
	require.NoError(t, err)

	typed, ok := restored.(*invoicing.InvoiceCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "INV-25-00001", typed.Number)
	assert.Equal(t, inv.SellerID, typed.SellerID())
}
