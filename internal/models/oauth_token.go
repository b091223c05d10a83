package models

import "time"

// OAuthToken is an access token issued to an OAuthClient. UserID is nil for
// tokens not bound to a user.
type OAuthToken struct {
	ID          uint   `gorm:"primaryKey"`
	ClientID    string `gorm:"index;not null"`
	UserID      *string
	AccessToken string  `gorm:"uniqueIndex;not null"`
	Refresh     *string `gorm:"index"`
	Scopes      string
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}

// OAuthCode backs the token store's authorization code methods.
type OAuthCode struct {
	Code        string `gorm:"primaryKey"`
	ClientID    string `gorm:"not null"`
	UserID      string
	Scopes      string
	RedirectURI string
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

func (OAuthCode) TableName() string {
	return "oauth_codes"
}

// AllModels lists every table the API migrates.
func AllModels() []interface{} {
	return []interface{}{
		&User{}, &Category{}, &Allergen{}, &Appliance{}, &Zipcode{},
		&Menu{}, &MenuCustomization{},
		&OAuthClient{}, &OAuthToken{}, &OAuthCode{},
	}
}
