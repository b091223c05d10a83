package auth

import (
	"context"
	"time"

	internalmodels "github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/models"
	"gorm.io/gorm"
)

// GormClientStore implements oauth2.ClientStore over the oauth_clients table.
type GormClientStore struct {
	db *gorm.DB
}

func NewGormClientStore(db *gorm.DB) *GormClientStore {
	return &GormClientStore{db: db}
}

// GetByID returns the stored client; it verifies secrets against the bcrypt
// hash through oauth2.ClientPasswordVerifier.
func (s *GormClientStore) GetByID(ctx context.Context, id string) (oauth2.ClientInfo, error) {
	var client internalmodels.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// GormTokenStore implements oauth2.TokenStore.
type GormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func (s *GormTokenStore) Create(ctx context.Context, info oauth2.TokenInfo) error {
	if code := info.GetCode(); code != "" {
		return s.db.WithContext(ctx).Create(&internalmodels.OAuthCode{
			Code:        code,
			ClientID:    info.GetClientID(),
			UserID:      info.GetUserID(),
			Scopes:      info.GetScope(),
			RedirectURI: info.GetRedirectURI(),
			ExpiresAt:   info.GetCodeCreateAt().Add(info.GetCodeExpiresIn()),
		}).Error
	}

	token := &internalmodels.OAuthToken{
		ClientID:    info.GetClientID(),
		UserID:      optional(info.GetUserID()),
		AccessToken: info.GetAccess(),
		Refresh:     optional(info.GetRefresh()),
		Scopes:      info.GetScope(),
		ExpiresAt:   info.GetAccessCreateAt().Add(info.GetAccessExpiresIn()),
	}
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *GormTokenStore) RemoveByCode(ctx context.Context, code string) error {
	return s.db.WithContext(ctx).Where("code = ?", code).Delete(&internalmodels.OAuthCode{}).Error
}

func (s *GormTokenStore) RemoveByAccess(ctx context.Context, access string) error {
	return s.db.WithContext(ctx).Where("access_token = ?", access).Delete(&internalmodels.OAuthToken{}).Error
}

func (s *GormTokenStore) RemoveByRefresh(ctx context.Context, refresh string) error {
	return s.db.WithContext(ctx).Where("refresh = ?", refresh).Delete(&internalmodels.OAuthToken{}).Error
}

func (s *GormTokenStore) GetByCode(ctx context.Context, code string) (oauth2.TokenInfo, error) {
	var row internalmodels.OAuthCode
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&row).Error; err != nil {
		return nil, err
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Token{
		ClientID:      row.ClientID,
		UserID:        row.UserID,
		Code:          row.Code,
		CodeCreateAt:  row.CreatedAt,
		CodeExpiresIn: row.ExpiresAt.Sub(row.CreatedAt),
		RedirectURI:   row.RedirectURI,
		Scope:         row.Scopes,
	}, nil
}

func (s *GormTokenStore) GetByAccess(ctx context.Context, access string) (oauth2.TokenInfo, error) {
	var row internalmodels.OAuthToken
	if err := s.db.WithContext(ctx).Where("access_token = ?", access).First(&row).Error; err != nil {
		return nil, err
	}
	return tokenInfo(row), nil
}

func (s *GormTokenStore) GetByRefresh(ctx context.Context, refresh string) (oauth2.TokenInfo, error) {
	var row internalmodels.OAuthToken
	if err := s.db.WithContext(ctx).Where("refresh = ?", refresh).First(&row).Error; err != nil {
		return nil, err
	}
	return tokenInfo(row), nil
}

func tokenInfo(row internalmodels.OAuthToken) oauth2.TokenInfo {
	return &models.Token{
		ClientID:        row.ClientID,
		UserID:          deref(row.UserID),
		Access:          row.AccessToken,
		AccessCreateAt:  row.CreatedAt,
		AccessExpiresIn: row.ExpiresAt.Sub(row.CreatedAt),
		Refresh:         deref(row.Refresh),
		Scope:           row.Scopes,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
