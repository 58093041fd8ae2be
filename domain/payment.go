package domain

import "time"

// Payment and Review are persisted for the order history screens; no flow in
// this service writes them yet.
type Payment struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID       string    `gorm:"column:order_id;type:uuid;index;not null" json:"order_id"`
	Amount        float64   `gorm:"column:amount;type:numeric" json:"amount"`
	PaymentMethod string    `gorm:"column:payment_method" json:"payment_method"`
	PaymentStatus string    `gorm:"column:payment_status" json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

type Review struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID    string    `gorm:"column:order_id;type:uuid;index" json:"order_id"`
	CustomerID string    `gorm:"column:customer_id;type:uuid;index" json:"customer_id"`
	VendorID   string    `gorm:"column:vendor_id;type:uuid;index" json:"vendor_id"`
	Rating     int       `gorm:"column:rating" json:"rating"`
	Comment    string    `gorm:"column:comment;type:text" json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
