package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// --- Helpers ---

// setupTestDB opens a private in-memory database with the schema migrated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(All()...))
	return db
}

func ptr[T any](v T) *T {
	return &v
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *Category {
	t.Helper()
	c := &Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, name string, categoryID *uint, discontinued bool) *Product {
	t.Helper()
	p := &Product{
		Name:         ptr(name),
		CategoryID:   categoryID,
		Discontinued: discontinued,
	}
	require.NoError(t, db.Omit("Category").Create(p).Error)
	return p
}

func seedOrderLine(t *testing.T, db *gorm.DB, orderID, productID uint) {
	t.Helper()
	line := &OrderDetail{
		OrderID:   orderID,
		ProductID: productID,
		UnitPrice: decimal.NewFromInt(14),
		Quantity:  12,
	}
	require.NoError(t, db.Create(line).Error)
}
