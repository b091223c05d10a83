package models

// Category statuses. Chefs can propose categories; they stay pending until
// an admin approves them.
const (
	CategoryPending  = "pending"
	CategoryApproved = "approved"
)

type Category struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	Status    string `gorm:"not null;default:'approved'" json:"status"`
	CreatedBy uint   `json:"-"`
}

type Allergen struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Appliance is a piece of kitchen equipment a dish needs.
type Appliance struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// Zipcode is a ZIP the marketplace serves.
type Zipcode struct {
	ID  uint   `gorm:"primaryKey" json:"-"`
	Zip string `gorm:"uniqueIndex;not null" json:"zip"`
}
