package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Dependency names a table that references the rows of another one.
type Dependency struct {
	Name   string // human readable, e.g. "order lines"
	Model  any
	Column string
}

var (
	// OrderLinesOfProduct guards product deletes.
	OrderLinesOfProduct = Dependency{Name: "order lines", Model: &OrderDetail{}, Column: "product_id"}
	// ProductsOfCategory guards category deletes.
	ProductsOfCategory = Dependency{Name: "products", Model: &Product{}, Column: "category_id"}
)

// EnsureNoDependents refuses a delete of entity id while any row of dep
// references it. It must run on the same transaction as the delete.
func EnsureNoDependents(tx *gorm.DB, entity string, id uint, dep Dependency) error {
	var count int64
	if err := tx.Model(dep.Model).
		Where(fmt.Sprintf("%s = ?", dep.Column), id).
		Count(&count).Error; err != nil {
		return fmt.Errorf("%w: checking %s of %s %d: %w", ErrStoreFailure, dep.Name, entity, id, err)
	}
	if count > 0 {
		return &DependentsError{Entity: entity, ID: id, Dependent: dep.Name, Count: count}
	}
	return nil
}
