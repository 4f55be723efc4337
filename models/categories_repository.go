package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("category_id").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: listing categories: %w", ErrStoreFailure, err)
	}
	return categories, nil
}

// GetCategoriesWithActiveProducts returns the categories that have at least
// one product that is not discontinued, each with only those products loaded.
func (r *CategoriesRepository) GetCategoriesWithActiveProducts(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM products WHERE products.category_id = categories.category_id AND products.discontinued = ?)", false).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("discontinued = ?", false).Order("product_id")
		}).
		Order("category_id").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("%w: listing categories with active products: %w", ErrStoreFailure, err)
	}
	return categories, nil
}

func (r *CategoriesRepository) GetByID(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
		}
		return nil, fmt.Errorf("%w: loading category %d: %w", ErrStoreFailure, id, err)
	}
	return &category, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error; err != nil {
		return fmt.Errorf("%w: saving category: %w", ErrStoreFailure, err)
	}
	return nil
}

func (r *CategoriesRepository) UpdateCategory(ctx context.Context, id uint, apply func(*Category) bool) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
			}
			return fmt.Errorf("%w: loading category %d: %w", ErrStoreFailure, id, err)
		}
		changed := category
		if !apply(&changed) {
			return nil
		}
		if err := tx.Omit(clause.Associations).Save(&changed).Error; err != nil {
			return fmt.Errorf("%w: saving category %d: %w", ErrStoreFailure, id, err)
		}
		category = changed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes category id unless a product still references it.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.Select("category_id").First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
			}
			return fmt.Errorf("%w: loading category %d: %w", ErrStoreFailure, id, err)
		}

		if err := EnsureNoDependents(tx, "category", id, ProductsOfCategory); err != nil {
			return err
		}

		if err := tx.Delete(&Category{}, id).Error; err != nil {
			return storeError(err, "category", id, ProductsOfCategory.Name)
		}
		return nil
	})
}
