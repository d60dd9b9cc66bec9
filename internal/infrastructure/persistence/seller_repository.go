package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSellerRepository implements SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by its ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Seller, error) {
	var seller directory.Seller
	if err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// FindByEmail finds a seller by email
func (r *GormSellerRepository) FindByEmail(ctx context.Context, email string) (*directory.Seller, error) {
	var seller directory.Seller
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// FindAll finds all sellers matching the filter
func (r *GormSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]directory.Seller, error) {
	var sellers []directory.Seller
	query := r.applyFilter(r.db.WithContext(ctx).Model(&directory.Seller{}), filter)

	if err := query.Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// Count counts sellers matching the filter
func (r *GormSellerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&directory.Seller{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a seller
func (r *GormSellerRepository) Save(ctx context.Context, seller *directory.Seller) error {
	if err := r.db.WithContext(ctx).Save(seller).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormSellerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, SellerSortFields, "name")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSellerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		like := "ILIKE"
		if r.db.Dialector.Name() == "sqlite" {
			like = "LIKE"
		}
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			fmt.Sprintf("name %[1]s ? OR email %[1]s ?", like),
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormSellerRepository implements SellerRepository
var _ directory.SellerRepository = (*GormSellerRepository)(nil)
