package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventHandler_Handle(t *testing.T) {
	handler := NewMockEventHandler("invoice.created")

	event := NewTestEvent("invoice.created", TestSellerID())
	err := handler.Handle(context.Background(), event)

	require.NoError(t, err)
	assert.Equal(t, 1, handler.HandledCount())
	assert.Equal(t, event.EventID(), handler.Handled()[0].EventID())
}

func TestMockEventHandler_EventTypes(t *testing.T) {
	handler := NewMockEventHandler("invoice.created", "invoice.deleted")

	assert.Equal(t, []string{"invoice.created", "invoice.deleted"}, handler.EventTypes())
}

func TestMockEventHandler_SetError(t *testing.T) {
	handler := NewMockEventHandler("invoice.created")
	handler.SetError(errors.New("handler failed"))

	err := handler.Handle(context.Background(), NewTestEvent("invoice.created", TestSellerID()))

	require.Error(t, err)
	// Failed events are still recorded
	assert.Equal(t, 1, handler.HandledCount())
}

func TestMockEventHandler_Reset(t *testing.T) {
	handler := NewMockEventHandler("invoice.created")
	handler.SetError(errors.New("handler failed"))
	_ = handler.Handle(context.Background(), NewTestEvent("invoice.created", TestSellerID()))

	handler.Reset()

	assert.Equal(t, 0, handler.HandledCount())
	assert.NoError(t, handler.Handle(context.Background(), NewTestEvent("invoice.created", TestSellerID())))
}

func TestNewTestEvent(t *testing.T) {
	sellerID := TestSellerID()
	event := NewTestEvent("invoice.created", sellerID)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "invoice.created", event.EventType())
	assert.Equal(t, sellerID, event.SellerID())
	assert.Equal(t, "TestAggregate", event.AggregateType())
	assert.WithinDuration(t, time.Now(), event.OccurredAt(), time.Second)
}

func TestNewTestEventWithID(t *testing.T) {
	eventID := NewTestUUID("fixed-event")
	event := NewTestEventWithID(eventID, "invoice.created", TestSellerID())

	assert.Equal(t, eventID, event.EventID())
}

func TestWaitForEventCount(t *testing.T) {
	handler := NewMockEventHandler("invoice.created")

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = handler.Handle(context.Background(), NewTestEvent("invoice.created", TestSellerID()))
		_ = handler.Handle(context.Background(), NewTestEvent("invoice.created", TestSellerID()))
	}()

	met := WaitForEventCount(t, handler, 2, 500*time.Millisecond)
	assert.True(t, met)
	assert.Equal(t, 2, handler.HandledCount())
}

func TestWaitForCondition_Timeout(t *testing.T) {
	met := WaitForCondition(t, func() bool { return false }, 50*time.Millisecond, 10*time.Millisecond)
	assert.False(t, met)
}
