package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User types as sent by the app.
const (
	UserTypeCustomer = 1
	UserTypeChef     = 2
)

// Roles carried in access tokens.
const (
	RoleCustomer = "customer"
	RoleChef     = "chef"
	RoleAdmin    = "admin"
)

// User is a customer, a chef or a back-office admin. Fields tagged json:"-"
// never leave the server.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	UserType         int       `gorm:"not null;default:1" json:"user_type"`
	Role             string    `gorm:"not null;default:'customer'" json:"-"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Phone            string    `json:"phone"`
	Birthday         int64     `json:"birthday"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Zip              string    `gorm:"index" json:"zip"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Allergens        string    `json:"allergens"`
	Photo            string    `json:"photo"`
	Bio              string    `json:"bio"`
	ServiceZips      string    `json:"service_zips"`
	IsPending        int       `gorm:"not null;default:0" json:"is_pending"`
	FCMToken         string    `json:"-"`
	StripeCustomerID string    `json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// RoleForUserType maps the signup choice to a token role.
func RoleForUserType(userType int) string {
	if userType == UserTypeChef {
		return RoleChef
	}
	return RoleCustomer
}

func (u *User) IsChef() bool {
	return u.UserType == UserTypeChef
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
