package models

import (
	"github.com/shopspring/decimal"
)

// Column widths of the text fields of Product.
const (
	MaxProductNameLen     = 40
	MaxQuantityPerUnitLen = 20
)

// UnitPrice is stored as decimal(10,2).
const UnitPriceScale = 2

// UnitPriceLimit is the first magnitude decimal(10,2) cannot hold.
var UnitPriceLimit = decimal.New(1, 8)

// Product represents a product in the catalog.
// Every column except the identity and the discontinued flag is nullable.
type Product struct {
	ID              uint                `gorm:"primaryKey;column:product_id"`
	Name            *string             `gorm:"column:product_name;size:40"`
	SupplierID      *uint               `gorm:"column:supplier_id;index"`
	CategoryID      *uint               `gorm:"column:category_id;index"`
	Category        *Category           `gorm:"foreignKey:CategoryID;references:ID"`
	QuantityPerUnit *string             `gorm:"column:quantity_per_unit;size:20"`
	UnitPrice       decimal.NullDecimal `gorm:"column:unit_price;type:decimal(10,2)"`
	UnitsInStock    *int16              `gorm:"column:units_in_stock"`
	Discontinued    bool                `gorm:"column:discontinued;not null;default:false"`
}

func (p *Product) TableName() string {
	return "products"
}

// DisplayName returns the product name, or a placeholder when it is unset.
func (p *Product) DisplayName() string {
	if p.Name == nil || *p.Name == "" {
		return "(unnamed)"
	}
	return *p.Name
}

// Status returns the bracketed label the console prints in front of a product.
func (p *Product) Status() string {
	if p.Discontinued {
		return "[Discontinued]"
	}
	return "[Active]"
}
