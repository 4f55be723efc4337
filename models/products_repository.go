package models

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ProductFilter selects products by their discontinued flag.
type ProductFilter int

const (
	FilterAll ProductFilter = iota
	FilterActive
	FilterDiscontinued
)

func (f ProductFilter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterDiscontinued:
		return "discontinued"
	default:
		return "all"
	}
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	return r.GetFilteredProducts(ctx, FilterAll)
}

func (r *ProductsRepository) GetFilteredProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var products []Product

	query := r.db.WithContext(ctx).Model(&Product{})

	switch filter {
	case FilterActive:
		query = query.Where("discontinued = ?", false)
	case FilterDiscontinued:
		query = query.Where("discontinued = ?", true)
	}

	if err := query.Order("product_id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: listing %s products: %w", ErrStoreFailure, filter, err)
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("%w: loading product %d: %w", ErrStoreFailure, id, err)
	}
	return &product, nil
}

// CreateProduct inserts p and sets p.ID to the generated identity.
func (r *ProductsRepository) CreateProduct(ctx context.Context, p *Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return r.writeError(ctx, err, p)
	}
	return nil
}

// UpdateProduct loads product id, lets apply modify a copy of it and saves the
// copy when apply reports a change. Load and save share one transaction.
func (r *ProductsRepository) UpdateProduct(ctx context.Context, id uint, apply func(*Product) bool) (*Product, error) {
	var (
		product, changed Product
		saveErr          error
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrProductNotFound, id)
			}
			return fmt.Errorf("%w: loading product %d: %w", ErrStoreFailure, id, err)
		}
		changed = product
		if !apply(&changed) {
			return nil
		}
		if saveErr = tx.Omit(clause.Associations).Save(&changed).Error; saveErr != nil {
			return saveErr
		}
		product = changed
		return nil
	})
	if saveErr != nil {
		return nil, r.writeError(ctx, saveErr, &changed)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes product id unless an order line still references it.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product Product
		if err := tx.Select("product_id").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrProductNotFound, id)
			}
			return fmt.Errorf("%w: loading product %d: %w", ErrStoreFailure, id, err)
		}

		if err := EnsureNoDependents(tx, "product", id, OrderLinesOfProduct); err != nil {
			return err
		}

		if err := tx.Delete(&Product{}, id).Error; err != nil {
			return storeError(err, "product", id, OrderLinesOfProduct.Name)
		}
		return nil
	})
}

// writeError classifies an insert or update failure. A foreign key violation
// means p points at a category or supplier that does not exist.
func (r *ProductsRepository) writeError(ctx context.Context, err error, p *Product) error {
	if !IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: saving product: %w", ErrStoreFailure, err)
	}
	if r.supplierMissing(ctx, err, p) {
		return NewValidationError("supplier id", formatID(p.SupplierID), "no such supplier")
	}
	return NewValidationError("category id", formatID(p.CategoryID), "no such category")
}

// supplierMissing tells which reference of p broke. The constraint name decides
// when the driver reports one; otherwise the category is looked up.
func (r *ProductsRepository) supplierMissing(ctx context.Context, err error, p *Product) bool {
	if p.SupplierID == nil {
		return false
	}
	if name := constraintName(err); name != "" {
		return strings.Contains(strings.ToLower(name), "supplier")
	}
	if p.CategoryID == nil {
		return true
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&Category{}).
		Where("category_id = ?", *p.CategoryID).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func formatID(id *uint) string {
	if id == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*id), 10)
}
