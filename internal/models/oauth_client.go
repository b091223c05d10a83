package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OAuthClient is a partner or back-office integration that signs in with
// client credentials. Secret holds a bcrypt hash.
type OAuthClient struct {
	ID         string `gorm:"primaryKey"`
	Secret     string `gorm:"not null"`
	Name       string
	Domain     string
	UserID     uint   // admin user the client acts as
	Scopes     string // space-separated
	GrantTypes string // space-separated
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

func (c *OAuthClient) GetID() string     { return c.ID }
func (c *OAuthClient) GetSecret() string { return c.Secret }
func (c *OAuthClient) GetDomain() string { return c.Domain }
func (c *OAuthClient) IsPublic() bool    { return false }

func (c *OAuthClient) GetUserID() string {
	if c.UserID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(c.UserID), 10)
}

// VerifyPassword checks a plain secret against the stored hash.
func (c *OAuthClient) VerifyPassword(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Secret), []byte(secret)) == nil
}

// NewOAuthClient builds a client_credentials client acting as userID and
// returns it with its plain secret, which is not kept anywhere else.
func NewOAuthClient(name, domain, scopes string, userID uint) (*OAuthClient, string, error) {
	secret := uuid.New().String()
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	return &OAuthClient{
		ID:         uuid.New().String(),
		Secret:     string(hashed),
		Name:       strings.TrimSpace(name),
		Domain:     domain,
		Scopes:     scopes,
		GrantTypes: "client_credentials",
		UserID:     userID,
	}, secret, nil
}
