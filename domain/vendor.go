package domain

import "time"

type Vendor struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"column:user_id;type:uuid;uniqueIndex;not null" json:"user_id"`
	BusinessName string    `gorm:"column:business_name;not null" json:"business_name"`
	Description  string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Address      string    `gorm:"column:address" json:"address,omitempty"`
	City         string    `gorm:"column:city;index" json:"city,omitempty"`
	Latitude     float64   `gorm:"column:latitude" json:"latitude"`
	Longitude    float64   `gorm:"column:longitude" json:"longitude"`
	Rating       float64   `gorm:"column:rating;default:0" json:"rating"`
	IsOnline     bool      `gorm:"column:is_online;default:false" json:"is_online"`
	Products     []Product `gorm:"foreignKey:VendorID" json:"products,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Vendor) TableName() string {
	return "vendors"
}

type RiderProfile struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"column:user_id;type:uuid;uniqueIndex;not null" json:"user_id"`
	VehicleType  string    `gorm:"column:vehicle_type" json:"vehicle_type,omitempty"`
	VehiclePlate string    `gorm:"column:vehicle_plate" json:"vehicle_plate,omitempty"`
	IsAvailable  bool      `gorm:"column:is_available;default:true" json:"is_available"`
	Rating       float64   `gorm:"column:rating;default:0" json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (RiderProfile) TableName() string {
	return "rider_profiles"
}
