package domain

import (
	"time"
)

type Product struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	VendorID      string    `gorm:"column:vendor_id;type:uuid;index;not null" json:"vendor_id"`
	CategoryID    *string   `gorm:"column:category_id;type:uuid;index" json:"category_id,omitempty"`
	Name          string    `gorm:"column:name;type:text;not null" json:"name"`
	Description   string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Price         float64   `gorm:"column:price;type:numeric;not null" json:"price"`
	Unit          string    `gorm:"column:unit;type:text" json:"unit,omitempty"`
	StockQuantity int       `gorm:"column:stock_quantity;default:0" json:"stock_quantity"`
	IsOrganic     bool      `gorm:"column:is_organic;default:false" json:"is_organic"`
	IsFeatured    bool      `gorm:"column:is_featured;default:false" json:"is_featured"`
	ImageURL      string    `gorm:"column:image_url" json:"image_url,omitempty"`
	Vendor        *Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
