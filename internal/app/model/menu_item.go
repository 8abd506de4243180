package model

import (
	"time"
)

// MenuItem is a catalog dish as the storefront publishes it.
type MenuItem struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	VariantID   string    `gorm:"primaryKey;size:64" json:"variant_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Category    string    `gorm:"size:100;index" json:"category"` // collection handle, e.g. main_tiffin_proteins
	Type        LineType  `gorm:"size:20;not null;default:main" json:"type"`
	Price       Price     `gorm:"size:32;not null" json:"price"`
	Image       string    `json:"image"`
	Tags        string    `gorm:"type:text" json:"tags,omitempty"` // dietary tags metafield, JSON array
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
