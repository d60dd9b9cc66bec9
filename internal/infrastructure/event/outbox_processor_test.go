package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeOutboxRepository is an in-memory OutboxRepository for processor tests
type fakeOutboxRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newFakeOutboxRepository() *fakeOutboxRepository {
	return &fakeOutboxRepository{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *fakeOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *fakeOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	return r.findByStatus(shared.OutboxStatusPending, limit), nil
}

func (r *fakeOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && !e.NextRetryAt.After(before) {
			result = append(result, e)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (r *fakeOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	dead := r.findByStatus(shared.OutboxStatusDead, pageSize)
	return dead, int64(len(dead)), nil
}

func (r *fakeOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return entry, nil
}

func (r *fakeOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*shared.OutboxEntry
	for _, id := range ids {
		entry, ok := r.entries[id]
		if !ok {
			continue
		}
		if entry.MarkProcessing() == nil {
			claimed = append(claimed, entry)
		}
	}
	return claimed, nil
}

func (r *fakeOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *fakeOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, e := range r.entries {
		if e.Status == shared.OutboxStatusSent && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			delete(r.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *fakeOutboxRepository) findByStatus(status shared.OutboxStatus, limit int) []*shared.OutboxEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == status {
			result = append(result, e)
			if len(result) == limit {
				break
			}
		}
	}
	return result
}

var _ shared.OutboxRepository = (*fakeOutboxRepository)(nil)

// failingBus always refuses to publish
type failingBus struct{}

func (failingBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return errors.New("broker unavailable")
}
func (failingBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {}
func (failingBus) Unsubscribe(handler shared.EventHandler)                     {}
func (failingBus) Start(ctx context.Context) error                             { return nil }
func (failingBus) Stop(ctx context.Context) error                              { return nil }

func newProcessorFixture(t *testing.T, bus shared.EventBus) (*OutboxProcessor, *fakeOutboxRepository, *EventSerializer) {
	repo := newFakeOutboxRepository()
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	processor := NewOutboxProcessor(repo, bus, serializer, DefaultOutboxProcessorConfig(), zap.NewNop())
	return processor, repo, serializer
}

func saveEntryFor(t *testing.T, repo *fakeOutboxRepository, serializer *EventSerializer, event shared.DomainEvent) *shared.OutboxEntry {
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(event.SellerID(), event, payload)
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func TestOutboxProcessor_DeliversPendingEntries(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler, "TestEvent")

	processor, repo, serializer := newProcessorFixture(t, bus)
	event := newTestEvent("TestEvent", uuid.New())
	entry := saveEntryFor(t, repo, serializer, event)

	processor.processBatch(context.Background())

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event.EventID(), handler.getHandled()[0].EventID())

	stored, err := repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)
}

func TestOutboxProcessor_UnknownEventTypeFails(t *testing.T) {
	processor, repo, _ := newProcessorFixture(t, NewInMemoryEventBus(zap.NewNop()))

	event := newTestEvent("UnregisteredEvent", uuid.New())
	entry := shared.NewOutboxEntry(event.SellerID(), event, []byte(`{}`))
	require.NoError(t, repo.Save(context.Background(), entry))

	processor.processBatch(context.Background())

	stored, err := repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Contains(t, stored.LastError, "unknown event type")
	assert.NotNil(t, stored.NextRetryAt)
}

func TestOutboxProcessor_PublishFailureExhaustsRetryBudget(t *testing.T) {
	processor, repo, serializer := newProcessorFixture(t, failingBus{})

	entry := saveEntryFor(t, repo, serializer, newTestEvent("TestEvent", uuid.New()))
	entry.MaxRetries = 1

	processor.processBatch(context.Background())

	stored, err := repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusDead, stored.Status)
	assert.Contains(t, stored.LastError, "broker unavailable")
}

func TestOutboxProcessor_RetryableEntriesAreReprocessed(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler, "TestEvent")

	processor, repo, serializer := newProcessorFixture(t, bus)
	entry := saveEntryFor(t, repo, serializer, newTestEvent("TestEvent", uuid.New()))

	entry.Status = shared.OutboxStatusFailed
	entry.RetryCount = 1
	past := time.Now().Add(-time.Minute)
	entry.NextRetryAt = &past

	processor.processBatch(context.Background())

	require.Len(t, handler.getHandled(), 1)
	stored, err := repo.FindByID(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
}

func TestOutboxProcessor_CleanupRemovesOldSentEntries(t *testing.T) {
	processor, repo, serializer := newProcessorFixture(t, NewInMemoryEventBus(zap.NewNop()))

	old := saveEntryFor(t, repo, serializer, newTestEvent("TestEvent", uuid.New()))
	old.MarkSent()
	stale := time.Now().Add(-30 * 24 * time.Hour)
	old.ProcessedAt = &stale

	fresh := saveEntryFor(t, repo, serializer, newTestEvent("TestEvent", uuid.New()))
	fresh.MarkSent()

	processor.cleanup(context.Background())

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler, "TestEvent")

	repo := newFakeOutboxRepository()
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	config := DefaultOutboxProcessorConfig()
	config.PollInterval = 10 * time.Millisecond
	processor := NewOutboxProcessor(repo, bus, serializer, config, zap.NewNop())

	saveEntryFor(t, repo, serializer, newTestEvent("TestEvent", uuid.New()))

	require.NoError(t, processor.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return len(handler.getHandled()) == 1
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, processor.Stop(ctx))
}
