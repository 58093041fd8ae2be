package domain

import "time"

const (
	DeliveryAssigned  = "assigned"
	DeliveryPickedUp  = "picked_up"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
)

var deliveryStatuses = map[string]bool{
	DeliveryAssigned:  true,
	DeliveryPickedUp:  true,
	DeliveryInTransit: true,
	DeliveryDelivered: true,
	DeliveryFailed:    true,
}

func ValidDeliveryStatus(status string) bool {
	return deliveryStatuses[status]
}

type Delivery struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	OrderID        string     `gorm:"column:order_id;type:uuid;uniqueIndex;not null" json:"order_id"`
	RiderID        string     `gorm:"column:rider_id;type:uuid;index;not null" json:"rider_id"`
	Status         string     `gorm:"column:status;not null" json:"status"`
	PickupAddress  string     `gorm:"column:pickup_address" json:"pickup_address,omitempty"`
	DropoffAddress string     `gorm:"column:dropoff_address" json:"dropoff_address,omitempty"`
	StartedAt      time.Time  `gorm:"column:started_at" json:"started_at"`
	EstimatedAt    time.Time  `gorm:"column:estimated_at" json:"estimated_at"`
	DeliveredAt    *time.Time `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Delivery) TableName() string {
	return "deliveries"
}
