package models

import "time"

// Menu is a chef's menu item. Id lists are stored comma-joined, the way the
// app sends them.
type Menu struct {
	ID             uint                `gorm:"primaryKey" json:"id"`
	UserID         uint                `gorm:"index;not null" json:"user_id"`
	Title          string              `gorm:"not null" json:"title"`
	Description    string              `json:"description"`
	CategoryIDs    string              `json:"category_ids"`
	Appliances     string              `json:"appliances"`
	Allergens      string              `json:"allergens"`
	EstimatedTime  int                 `json:"estimated_time"`
	ServingSize    int                 `json:"serving_size"`
	Price          float64             `json:"price"`
	Customizations []MenuCustomization `gorm:"constraint:OnDelete:CASCADE" json:"customizations"`
	IsLive         int                 `gorm:"not null" json:"is_live"`
	CreatedAt      time.Time           `json:"-"`
	UpdatedAt      time.Time           `json:"-"`
}

type MenuCustomization struct {
	ID            uint    `gorm:"primaryKey" json:"-"`
	MenuID        uint    `gorm:"index;not null" json:"-"`
	Name          string  `gorm:"not null" json:"name"`
	UpchargePrice float64 `json:"upcharge_price"`
}
