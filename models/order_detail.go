package models

import "github.com/shopspring/decimal"

// OrderDetail is a line of an order. The table belongs to the ordering
// system; this application only checks it for references to a product.
type OrderDetail struct {
	OrderID   uint            `gorm:"primaryKey;column:order_id;autoIncrement:false"`
	ProductID uint            `gorm:"primaryKey;column:product_id;autoIncrement:false;index"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2);not null"`
	Quantity  int16           `gorm:"column:quantity;not null;default:1"`
	Discount  float32         `gorm:"column:discount;not null;default:0"`
}

func (o *OrderDetail) TableName() string {
	return "order_details"
}

// All returns every entity the application maps, in migration order.
func All() []any {
	return []any{&Category{}, &Product{}, &OrderDetail{}}
}
