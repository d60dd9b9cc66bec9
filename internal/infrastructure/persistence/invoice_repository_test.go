package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&directory.Seller{},
		&directory.Client{},
		&invoicing.Invoice{},
		&invoicing.InvoiceItem{},
		&shared.OutboxEntry{},
	)
	require.NoError(t, err)

	// Composite unique index lives in the SQL migrations in production
	err = db.Exec("CREATE UNIQUE INDEX idx_invoices_seller_number ON invoices(seller_id, number)").Error
	require.NoError(t, err)

	return db
}

func mustPrice(t *testing.T, s string) valueobject.Money {
	m, err := valueobject.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func newTestInvoice(t *testing.T, sellerID, clientID uuid.UUID, number string, items []invoicing.ItemInput) *invoicing.Invoice {
	inv, err := invoicing.NewInvoice(sellerID, clientID, number, nil)
	require.NoError(t, err)
	require.NoError(t, inv.ReplaceItems(items))
	return inv
}

// recordingOutboxSaver captures events and proves it ran inside the
// repository's transaction by writing through the provided tx handle.
type recordingOutboxSaver struct {
	saved []shared.DomainEvent
}

func (s *recordingOutboxSaver) SaveEvents(ctx context.Context, txProvider interface{}, events ...shared.DomainEvent) error {
	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}
	for _, event := range events {
		entry := shared.NewOutboxEntry(event.SellerID(), event, []byte("{}"))
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
	}
	s.saved = append(s.saved, events...)
	return nil
}

func TestGormInvoiceRepository_CreateAndFind(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	clientID := uuid.New()

	inv := newTestInvoice(t, sellerID, clientID, "INV-25-00001", []invoicing.ItemInput{
		{ProductName: "Consulting", Quantity: 2, Price: mustPrice(t, "50.00")},
		{ProductName: "Hosting", Quantity: 1, Price: mustPrice(t, "30.00")},
	})
	require.NoError(t, repo.Create(ctx, inv))

	t.Run("FindByID loads the header without items", func(t *testing.T) {
		found, err := repo.FindByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, "INV-25-00001", found.Number)
		assert.Empty(t, found.Items)
	})

	t.Run("FindWithItems loads items in insertion order", func(t *testing.T) {
		found, err := repo.FindWithItems(ctx, inv.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.Equal(t, "Consulting", found.Items[0].ProductName)
		assert.Equal(t, "Hosting", found.Items[1].ProductName)
		assert.True(t, found.Subtotal.Equal(inv.Subtotal))
	})

	t.Run("FindByID unknown id returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_DuplicateNumber(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	items := []invoicing.ItemInput{{ProductName: "Widget", Quantity: 1, Price: mustPrice(t, "10.00")}}

	first := newTestInvoice(t, sellerID, uuid.New(), "INV-25-00001", items)
	require.NoError(t, repo.Create(ctx, first))

	t.Run("same number same seller is rejected", func(t *testing.T) {
		dup := newTestInvoice(t, sellerID, uuid.New(), "INV-25-00001", items)
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, invoicing.ErrDuplicateNumber)
	})

	t.Run("same number different seller is fine", func(t *testing.T) {
		other := newTestInvoice(t, uuid.New(), uuid.New(), "INV-25-00001", items)
		assert.NoError(t, repo.Create(ctx, other))
	})
}

func TestGormInvoiceRepository_OutboxEvents(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	saver := &recordingOutboxSaver{}
	repo.SetOutboxEventSaver(saver)
	ctx := context.Background()

	inv := newTestInvoice(t, uuid.New(), uuid.New(), "INV-25-00001", []invoicing.ItemInput{
		{ProductName: "Widget", Quantity: 1, Price: mustPrice(t, "10.00")},
	})
	inv.AddDomainEvent(invoicing.NewInvoiceCreatedEvent(inv))

	require.NoError(t, repo.Create(ctx, inv))

	require.Len(t, saver.saved, 1)
	assert.Equal(t, invoicing.EventTypeInvoiceCreated, saver.saved[0].EventType())

	var entryCount int64
	require.NoError(t, db.Model(&shared.OutboxEntry{}).Count(&entryCount).Error)
	assert.Equal(t, int64(1), entryCount)

	// Pending events were consumed by the successful write
	assert.Empty(t, inv.GetDomainEvents())
}

func TestGormInvoiceRepository_Update(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := newTestInvoice(t, uuid.New(), uuid.New(), "INV-25-00001", []invoicing.ItemInput{
		{ProductName: "Consulting", Quantity: 2, Price: mustPrice(t, "50.00")},
		{ProductName: "Hosting", Quantity: 1, Price: mustPrice(t, "30.00")},
	})
	require.NoError(t, repo.Create(ctx, inv))

	// Wholesale item replacement: the old set is gone, only the new remains
	require.NoError(t, inv.ReplaceItems([]invoicing.ItemInput{
		{ProductName: "Support plan", Quantity: 3, Price: mustPrice(t, "25.00")},
	}))
	require.NoError(t, repo.Update(ctx, inv))

	found, err := repo.FindWithItems(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Support plan", found.Items[0].ProductName)
	assert.True(t, found.Subtotal.Equal(mustPrice(t, "75.00").Amount()))

	var itemCount int64
	require.NoError(t, db.Model(&invoicing.InvoiceItem{}).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	inv := newTestInvoice(t, uuid.New(), uuid.New(), "INV-25-00001", []invoicing.ItemInput{
		{ProductName: "Widget", Quantity: 1, Price: mustPrice(t, "10.00")},
	})
	require.NoError(t, repo.Create(ctx, inv))

	require.NoError(t, repo.Delete(ctx, inv))

	_, err := repo.FindByID(ctx, inv.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&invoicing.InvoiceItem{}).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	t.Run("deleting again reports not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, inv), shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_GenerateInvoiceNumber(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	yearPrefix := fmt.Sprintf("INV-%02d-", time.Now().Year()%100)
	items := []invoicing.ItemInput{{ProductName: "Widget", Quantity: 1, Price: mustPrice(t, "10.00")}}

	t.Run("starts at 00001", func(t *testing.T) {
		number, err := repo.GenerateInvoiceNumber(ctx, sellerID)
		require.NoError(t, err)
		assert.Equal(t, yearPrefix+"00001", number)
	})

	t.Run("continues from the highest existing sequence", func(t *testing.T) {
		inv := newTestInvoice(t, sellerID, uuid.New(), yearPrefix+"00007", items)
		require.NoError(t, repo.Create(ctx, inv))

		number, err := repo.GenerateInvoiceNumber(ctx, sellerID)
		require.NoError(t, err)
		assert.Equal(t, yearPrefix+"00008", number)
	})

	t.Run("deleted invoices do not shrink the sequence", func(t *testing.T) {
		lower := newTestInvoice(t, sellerID, uuid.New(), yearPrefix+"00008", items)
		require.NoError(t, repo.Create(ctx, lower))
		higher := newTestInvoice(t, sellerID, uuid.New(), yearPrefix+"00009", items)
		require.NoError(t, repo.Create(ctx, higher))

		// The sequence derives from the highest number, not the row count
		require.NoError(t, repo.Delete(ctx, lower))

		number, err := repo.GenerateInvoiceNumber(ctx, sellerID)
		require.NoError(t, err)
		assert.Equal(t, yearPrefix+"00010", number)
	})

	t.Run("sequences are per seller", func(t *testing.T) {
		number, err := repo.GenerateInvoiceNumber(ctx, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, yearPrefix+"00001", number)
	})

	t.Run("sequence keeps growing past five digits", func(t *testing.T) {
		// "INV-26-100000" sorts below "INV-26-99999" lexicographically,
		// so a plain ORDER BY number would re-propose 100000 forever
		busySeller := uuid.New()
		for _, number := range []string{yearPrefix + "99999", yearPrefix + "100000"} {
			inv := newTestInvoice(t, busySeller, uuid.New(), number, items)
			require.NoError(t, repo.Create(ctx, inv))
		}

		number, err := repo.GenerateInvoiceNumber(ctx, busySeller)
		require.NoError(t, err)
		assert.Equal(t, yearPrefix+"100001", number)
	})
}

func TestGormInvoiceRepository_Listing(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	sellerID := uuid.New()
	clientA := uuid.New()
	clientB := uuid.New()
	items := []invoicing.ItemInput{{ProductName: "Widget", Quantity: 1, Price: mustPrice(t, "10.00")}}

	for i, clientID := range []uuid.UUID{clientA, clientA, clientB} {
		inv := newTestInvoice(t, sellerID, clientID, fmt.Sprintf("INV-25-%05d", i+1), items)
		require.NoError(t, repo.Create(ctx, inv))
	}

	t.Run("FindAllForSeller returns only the seller's invoices", func(t *testing.T) {
		invoices, err := repo.FindAllForSeller(ctx, sellerID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, invoices, 3)

		foreign, err := repo.FindAllForSeller(ctx, uuid.New(), shared.Filter{})
		require.NoError(t, err)
		assert.Empty(t, foreign)
	})

	t.Run("client_id filter narrows the listing", func(t *testing.T) {
		filter := shared.Filter{Filters: map[string]interface{}{"client_id": clientA}}
		invoices, err := repo.FindAllForSeller(ctx, sellerID, filter)
		require.NoError(t, err)
		assert.Len(t, invoices, 2)
	})

	t.Run("CountForClient", func(t *testing.T) {
		count, err := repo.CountForClient(ctx, clientA)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("CountForSeller", func(t *testing.T) {
		count, err := repo.CountForSeller(ctx, sellerID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("search matches against the number", func(t *testing.T) {
		invoices, err := repo.FindAllForSeller(ctx, sellerID, shared.Filter{Search: "00002"})
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, "INV-25-00002", invoices[0].Number)
	})

	t.Run("search ignores case", func(t *testing.T) {
		invoices, err := repo.FindAllForSeller(ctx, sellerID, shared.Filter{Search: "inv-25-00003"})
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, "INV-25-00003", invoices[0].Number)
	})

	t.Run("sorting by a whitelisted field", func(t *testing.T) {
		filter := shared.Filter{OrderBy: "number", OrderDir: "desc"}
		invoices, err := repo.FindAllForSeller(ctx, sellerID, filter)
		require.NoError(t, err)
		require.Len(t, invoices, 3)
		assert.Equal(t, "INV-25-00003", invoices[0].Number)
	})

	t.Run("unknown sort field falls back to the default order", func(t *testing.T) {
		filter := shared.Filter{OrderBy: "number; DROP TABLE invoices", OrderDir: "asc"}
		invoices, err := repo.FindAllForSeller(ctx, sellerID, filter)
		require.NoError(t, err)
		assert.Len(t, invoices, 3)
	})
}
