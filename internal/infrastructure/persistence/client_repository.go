package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by its ID. The lookup is not seller-scoped;
// ownership is enforced by the caller against the loaded entity.
func (r *GormClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	var client directory.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindAllForSeller finds all clients owned by a seller
func (r *GormClientRepository) FindAllForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]directory.Client, error) {
	var clients []directory.Client
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&directory.Client{}).Where("seller_id = ?", sellerID),
		filter,
	)

	if err := query.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// CountForSeller counts clients owned by a seller
func (r *GormClientRepository) CountForSeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&directory.Client{}).Where("seller_id = ?", sellerID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsWithEmail checks whether another client of the seller uses the email
func (r *GormClientRepository) ExistsWithEmail(ctx context.Context, sellerID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	query := r.db.WithContext(ctx).
		Model(&directory.Client{}).
		Where("seller_id = ? AND email = ?", sellerID, email)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsWithPhone checks whether another client of the seller uses the phone
func (r *GormClientRepository) ExistsWithPhone(ctx context.Context, sellerID uuid.UUID, phone string, excludeID uuid.UUID) (bool, error) {
	if phone == "" {
		return false, nil
	}
	var count int64
	query := r.db.WithContext(ctx).
		Model(&directory.Client{}).
		Where("seller_id = ? AND phone = ?", sellerID, phone)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *directory.Client) error {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete deletes a client
func (r *GormClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&directory.Client{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormClientRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, ClientSortFields, "name")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormClientRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		like := "ILIKE"
		if r.db.Dialector.Name() == "sqlite" {
			like = "LIKE"
		}
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			fmt.Sprintf("name %[1]s ? OR email %[1]s ? OR phone %[1]s ?", like),
			searchPattern, searchPattern, searchPattern)
	}
	return query
}

// Ensure GormClientRepository implements ClientRepository
var _ directory.ClientRepository = (*GormClientRepository)(nil)
