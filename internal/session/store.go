// Package session holds what the app knows after login: the signed-in user,
// the reference tables and the chef's own data, plus the loader that fills it.
package session

import (
	"sync"

	"github.com/franciscosanchezn/taist-api/internal/client"
	"github.com/franciscosanchezn/taist-api/internal/draft"
)

// Store is read by many screens and written by the loader and the wizards.
type Store struct {
	mu sync.RWMutex

	user          *client.User
	appliances    []client.RefItem
	categories    []client.RefItem
	allergens     []client.RefItem
	users         []client.User
	zipcodes      []client.Zipcode
	chefProfile   *client.ChefProfile
	menus         []client.Menu
	paymentMethod *client.PaymentMethod
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetUser(u client.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

// User returns the signed-in user, if any.
func (s *Store) User() (client.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return client.User{}, false
	}
	return *s.user, true
}

func (s *Store) Appliances() []client.RefItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]client.RefItem(nil), s.appliances...)
}

func (s *Store) Categories() []client.RefItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]client.RefItem(nil), s.categories...)
}

func (s *Store) Allergens() []client.RefItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]client.RefItem(nil), s.allergens...)
}

func (s *Store) Users() []client.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]client.User(nil), s.users...)
}

func (s *Store) Zipcodes() []client.Zipcode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]client.Zipcode(nil), s.zipcodes...)
}

// ServesZip reports whether zip is in a served area. An empty list serves everywhere.
func (s *Store) ServesZip(zip string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.zipcodes) == 0 {
		return true
	}
	for _, z := range s.zipcodes {
		if z.Zip == zip {
			return true
		}
	}
	return false
}

func (s *Store) ChefProfile() (client.ChefProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.chefProfile == nil {
		return client.ChefProfile{}, false
	}
	return *s.chefProfile, true
}

func (s *Store) Menus() []client.Menu {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]client.Menu(nil), s.menus...)
}

// Menu finds one of the chef's items by id.
func (s *Store) Menu(id int) (client.Menu, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.menus {
		if m.ID == id {
			return m, true
		}
	}
	return client.Menu{}, false
}

// PutMenu inserts or replaces a menu item by id.
func (s *Store) PutMenu(m client.Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.menus {
		if s.menus[i].ID == m.ID {
			s.menus[i] = m
			return
		}
	}
	s.menus = append(s.menus, m)
}

func (s *Store) PaymentMethod() (client.PaymentMethod, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.paymentMethod == nil {
		return client.PaymentMethod{}, false
	}
	return *s.paymentMethod, true
}

// IsOnboardingFirstItem is true for a pending chef with no menu items yet;
// the menu wizard routes that chef to the home tab when done.
func (s *Store) IsOnboardingFirstItem() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil &&
		draft.UserType(s.user.UserType) == draft.UserTypeChef &&
		s.user.IsPending == 1 &&
		len(s.menus) == 0
}

// Clear forgets everything, e.g. on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.chefProfile, s.paymentMethod = nil, nil, nil
	s.appliances, s.categories, s.allergens = nil, nil, nil
	s.users, s.zipcodes, s.menus = nil, nil, nil
}
