package models

// MaxCategoryNameLen is the width of the category name column.
const MaxCategoryNameLen = 15

// Category represents a product category.
// It owns the products whose CategoryID points at it.
type Category struct {
	ID          uint      `gorm:"primaryKey;column:category_id"`
	Name        string    `gorm:"column:category_name;size:15;not null"`
	Description *string   `gorm:"column:description;type:text"`
	Products    []Product `gorm:"foreignKey:CategoryID;references:ID"`
}

func (c *Category) TableName() string {
	return "categories"
}
