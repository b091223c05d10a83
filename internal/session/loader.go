package session

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/taist-api/internal/client"
	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/wizard"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// Backend is what the loader reads. *client.Client satisfies it.
type Backend interface {
	GetAppliances(ctx context.Context) ([]client.RefItem, client.Response)
	GetCategories(ctx context.Context) ([]client.RefItem, client.Response)
	GetAllergens(ctx context.Context) ([]client.RefItem, client.Response)
	GetUsers(ctx context.Context) ([]client.User, client.Response)
	GetZipcodes(ctx context.Context) ([]client.Zipcode, client.Response)
	GetChefProfile(ctx context.Context, chefID int) (client.ChefProfile, client.Response)
	GetChefMenus(ctx context.Context, chefID int) ([]client.Menu, client.Response)
	GetPaymentMethod(ctx context.Context) (*client.PaymentMethod, client.Response)
	UpdateFCMToken(ctx context.Context, fcmToken string) client.Response
}

// Loader fills a Store right after login.
type Loader struct {
	backend  Backend
	store    *Store
	fcmToken string
}

// NewLoader builds a loader. fcmToken may be empty when the device has none.
func NewLoader(backend Backend, store *Store, fcmToken string) *Loader {
	return &Loader{backend: backend, store: store, fcmToken: fcmToken}
}

// Bootstrap loads everything the home screens read, one call at a time:
// appliances, categories, allergens, users and zipcodes, then for chefs the
// profile and menus, for customers the payment method, and finally the push
// token. A failed reference table stops the load; the rest are optional.
func (l *Loader) Bootstrap(ctx context.Context, user client.User) error {
	l.store.SetUser(user)
	logger := log.WithFields(logrus.Fields{"user_id": user.ID, "user_type": user.UserType})

	required := []struct {
		name string
		load func() client.Response
	}{
		{"appliances", func() client.Response {
			items, resp := l.backend.GetAppliances(ctx)
			l.set(func(s *Store) { s.appliances = items })
			return resp
		}},
		{"categories", func() client.Response {
			items, resp := l.backend.GetCategories(ctx)
			l.set(func(s *Store) { s.categories = items })
			return resp
		}},
		{"allergens", func() client.Response {
			items, resp := l.backend.GetAllergens(ctx)
			l.set(func(s *Store) { s.allergens = items })
			return resp
		}},
		{"users", func() client.Response {
			items, resp := l.backend.GetUsers(ctx)
			l.set(func(s *Store) { s.users = items })
			return resp
		}},
		{"zipcodes", func() client.Response {
			items, resp := l.backend.GetZipcodes(ctx)
			l.set(func(s *Store) { s.zipcodes = items })
			return resp
		}},
	}
	for _, r := range required {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := wizard.Check(r.load()); err != nil {
			logger.WithFields(logrus.Fields{"table": r.name, "error": err.Error()}).Warn("Bootstrap stopped")
			return fmt.Errorf("load %s: %w", r.name, err)
		}
	}

	switch draft.UserType(user.UserType) {
	case draft.UserTypeChef:
		if profile, resp := l.backend.GetChefProfile(ctx, user.ID); resp.OK() {
			l.set(func(s *Store) { s.chefProfile = &profile })
		} else {
			logger.WithField("error", resp.ErrorMessage()).Info("Chef profile unavailable")
		}
		if err := l.loadMenus(ctx, user.ID); err != nil {
			logger.WithError(err).Info("Chef menus unavailable")
		}
	case draft.UserTypeCustomer:
		if pm, resp := l.backend.GetPaymentMethod(ctx); resp.OK() {
			l.set(func(s *Store) { s.paymentMethod = pm })
		} else {
			logger.WithField("error", resp.ErrorMessage()).Info("Payment method unavailable")
		}
	}

	if l.fcmToken != "" {
		if resp := l.backend.UpdateFCMToken(ctx, l.fcmToken); !resp.OK() {
			logger.WithField("error", resp.ErrorMessage()).Info("Failed to register push token")
		}
	}
	logger.Debug("Session bootstrapped")
	return nil
}

// LoadChefMenus sets the user and loads only their menu items. The menu
// commands use it to learn whether this is the onboarding first item.
func (l *Loader) LoadChefMenus(ctx context.Context, user client.User) error {
	l.store.SetUser(user)
	if err := l.loadMenus(ctx, user.ID); err != nil {
		return fmt.Errorf("load chef menus: %w", err)
	}
	return nil
}

func (l *Loader) loadMenus(ctx context.Context, chefID int) error {
	menus, resp := l.backend.GetChefMenus(ctx, chefID)
	if err := wizard.Check(resp); err != nil {
		return err
	}
	l.set(func(s *Store) { s.menus = menus })
	return nil
}

func (l *Loader) set(fn func(s *Store)) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	fn(l.store)
}
