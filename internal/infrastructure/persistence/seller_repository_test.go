package persistence

import (
	"context"
	"testing"

	"github.com/facturo/backend/internal/domain/directory"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSellerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&directory.Seller{}))
	return db
}

func newTestSeller(t *testing.T, name, email string) *directory.Seller {
	seller, err := directory.NewSeller(name, email, "hash")
	require.NoError(t, err)
	return seller
}

func TestGormSellerRepository_SaveAndFind(t *testing.T) {
	db := setupSellerTestDB(t)
	repo := NewGormSellerRepository(db)
	ctx := context.Background()

	seller := newTestSeller(t, "North Trading", "owner@north.test")
	require.NoError(t, repo.Save(ctx, seller))

	t.Run("FindByID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, seller.ID)
		require.NoError(t, err)
		assert.Equal(t, "North Trading", found.Name)
		assert.True(t, found.Active)
	})

	t.Run("FindByEmail is case insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "Owner@North.TEST")
		require.NoError(t, err)
		assert.Equal(t, seller.ID, found.ID)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := newTestSeller(t, "South Trading", "owner@north.test")
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})
}

func TestGormSellerRepository_FindAllAndCount(t *testing.T) {
	db := setupSellerTestDB(t)
	repo := NewGormSellerRepository(db)
	ctx := context.Background()

	active := newTestSeller(t, "Active Co", "a@x.test")
	require.NoError(t, repo.Save(ctx, active))

	inactive := newTestSeller(t, "Dormant Co", "b@x.test")
	inactive.SetActive(false)
	require.NoError(t, repo.Save(ctx, inactive))

	t.Run("FindAll orders by name", func(t *testing.T) {
		sellers, err := repo.FindAll(ctx, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, sellers, 2)
		assert.Equal(t, "Active Co", sellers[0].Name)
	})

	t.Run("active filter", func(t *testing.T) {
		filter := shared.Filter{Filters: map[string]interface{}{"active": true}}
		sellers, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, sellers, 1)
		assert.Equal(t, "Active Co", sellers[0].Name)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("pagination", func(t *testing.T) {
		sellers, err := repo.FindAll(ctx, shared.Filter{Page: 2, PageSize: 1})
		require.NoError(t, err)
		require.Len(t, sellers, 1)
		assert.Equal(t, "Dormant Co", sellers[0].Name)
	})

	t.Run("search matches name ignoring case", func(t *testing.T) {
		sellers, err := repo.FindAll(ctx, shared.Filter{Search: "dormant"})
		require.NoError(t, err)
		require.Len(t, sellers, 1)
		assert.Equal(t, "Dormant Co", sellers[0].Name)
	})

	t.Run("unknown sort field falls back to the default order", func(t *testing.T) {
		filter := shared.Filter{OrderBy: "email; DROP TABLE sellers", OrderDir: "asc"}
		sellers, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, sellers, 2)
	})
}

func TestGormSellerRepository_UpdatePersists(t *testing.T) {
	db := setupSellerTestDB(t)
	repo := NewGormSellerRepository(db)
	ctx := context.Background()

	seller := newTestSeller(t, "North Trading", "owner@north.test")
	require.NoError(t, repo.Save(ctx, seller))

	seller.SetActive(false)
	require.NoError(t, repo.Save(ctx, seller))

	found, err := repo.FindByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.False(t, found.Active)
}
