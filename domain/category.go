package domain

import (
	"time"
)

// CREATE TABLE public.categories (
//     id          UUID PRIMARY KEY,
//     name        TEXT NOT NULL,
//     icon        TEXT,
//     is_active   BOOLEAN DEFAULT TRUE,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type Category struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name"`
	Icon      string    `gorm:"column:icon;type:text" json:"icon,omitempty"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}
