package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/invoicing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormInvoiceRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an invoice header by its ID, without items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var inv invoicing.Invoice
	if err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindWithItems finds an invoice together with its line items
func (r *GormInvoiceRepository) FindWithItems(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	inv, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var items []invoicing.InvoiceItem
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

// FindAllForSeller finds all invoices for a seller, newest first
func (r *GormInvoiceRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]invoicing.Invoice, error) {
	var invoices []invoicing.Invoice
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&invoicing.Invoice{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountForSeller counts invoices for a seller
func (r *GormInvoiceRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&invoicing.Invoice{}).Where("seller_id = ?", sellerID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForClient counts invoices referencing a client
func (r *GormInvoiceRepository) CountForClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&invoicing.Invoice{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists the header, items and pending domain events in one
// transaction. A unique violation on (seller_id, number) surfaces as
// ErrDuplicateNumber so the caller can reallocate and retry.
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *invoicing.Invoice) error {
	events := inv.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inv).Error; err != nil {
			return err
		}

		for i := range inv.Items {
			inv.Items[i].InvoiceID = inv.ID
			if err := tx.Create(&inv.Items[i]).Error; err != nil {
				return err
			}
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return invoicing.ErrDuplicateNumber
		}
		return err
	}

	inv.ClearDomainEvents()
	return nil
}

// Update rewrites the header and replaces the item set wholesale,
// persisting pending domain events in the same transaction
func (r *GormInvoiceRepository) Update(ctx context.Context, inv *invoicing.Invoice) error {
	events := inv.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(inv).Error; err != nil {
			return err
		}

		// Wholesale replacement: old rows go, the new set is inserted
		if err := tx.Where("invoice_id = ?", inv.ID).
			Delete(&invoicing.InvoiceItem{}).Error; err != nil {
			return err
		}

		for i := range inv.Items {
			inv.Items[i].InvoiceID = inv.ID
			if err := tx.Create(&inv.Items[i]).Error; err != nil {
				return err
			}
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return invoicing.ErrDuplicateNumber
		}
		return err
	}

	inv.ClearDomainEvents()
	return nil
}

// Delete removes items then the header atomically, persisting pending
// domain events in the same transaction
func (r *GormInvoiceRepository) Delete(ctx context.Context, inv *invoicing.Invoice) error {
	events := inv.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", inv.ID).
			Delete(&invoicing.InvoiceItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&invoicing.Invoice{}, "id = ?", inv.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	inv.ClearDomainEvents()
	return nil
}

// GenerateInvoiceNumber allocates the next invoice number for a seller.
// Format: INV-YY-NNNNN (e.g., INV-26-00042). The sequence derives from the
// highest existing number for the current year, not a row count, so deleted
// invoices never cause reuse.
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context, sellerID uuid.UUID) (string, error) {
	year := time.Now().Year() % 100
	prefix := fmt.Sprintf("INV-%02d-", year)

	// Ordering by length before value keeps the max numeric once the
	// sequence grows past five digits ("INV-26-100000" sorts below
	// "INV-26-99999" lexicographically)
	var lastNumbers []string
	err := r.db.WithContext(ctx).
		Model(&invoicing.Invoice{}).
		Where("seller_id = ? AND number LIKE ?", sellerID, prefix+"%").
		Order("length(number) DESC, number DESC").
		Limit(1).
		Pluck("number", &lastNumbers).Error
	if err != nil {
		return "", err
	}

	var nextSeq int64 = 1
	if len(lastNumbers) > 0 {
		parts := strings.Split(lastNumbers[0], "-")
		if len(parts) == 3 {
			var seq int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &seq); parseErr == nil {
				nextSeq = seq + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextSeq), nil
}

// applyFilter applies filter options to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number "+r.likeOperator()+" ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// likeOperator returns the case-insensitive pattern operator for the
// active dialect. SQLite has no ILIKE but its LIKE is case-insensitive.
func (r *GormInvoiceRepository) likeOperator() string {
	if r.db.Dialector.Name() == "sqlite" {
		return "LIKE"
	}
	return "ILIKE"
}

// isDuplicateKeyError reports whether err is a unique constraint violation.
// The string checks cover drivers that predate GORM's error translation.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
