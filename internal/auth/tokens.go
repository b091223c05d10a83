package auth

import (
	"fmt"
	"time"

	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a login token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// TokenIssuer signs the bearer tokens returned by login. Claims match the
// ones the OAuth generator writes, so one middleware accepts both.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed HS256 token for user.
func (i *TokenIssuer) Issue(user *models.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"uid":   user.ID,
		"role":  user.Role,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
