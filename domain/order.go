package domain

import "time"

const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderPickedUp  = "picked_up"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

var orderStatuses = map[string]bool{
	OrderPending:   true,
	OrderConfirmed: true,
	OrderPreparing: true,
	OrderReady:     true,
	OrderPickedUp:  true,
	OrderDelivered: true,
	OrderCancelled: true,
}

// ValidOrderStatus only checks the value is known; any status may follow any
// other.
func ValidOrderStatus(status string) bool {
	return orderStatuses[status]
}

type Order struct {
	ID              string      `gorm:"primaryKey;type:uuid" json:"id"`
	CustomerID      string      `gorm:"column:customer_id;type:uuid;index;not null" json:"customer_id"`
	VendorID        string      `gorm:"column:vendor_id;type:uuid;index;not null" json:"vendor_id"`
	Status          string      `gorm:"column:status;not null;default:pending" json:"status"`
	TotalAmount     float64     `gorm:"column:total_amount;type:numeric" json:"total_amount"`
	DeliveryAddress string      `gorm:"column:delivery_address" json:"delivery_address,omitempty"`
	Notes           string      `gorm:"column:notes;type:text" json:"notes,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Vendor          *Vendor     `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        string  `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID   string  `gorm:"column:order_id;type:uuid;index;not null" json:"order_id"`
	ProductID string  `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Name      string  `gorm:"column:name" json:"name"`
	Quantity  int     `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice float64 `gorm:"column:unit_price;type:numeric" json:"unit_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
