package server

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/franciscosanchezn/taist-api/internal/client"
	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/menuwizard"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/franciscosanchezn/taist-api/internal/session"
	"github.com/franciscosanchezn/taist-api/internal/signup"
	"github.com/franciscosanchezn/taist-api/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLiveClient serves the router over HTTP and returns a client pointed at it.
func newLiveClient(t *testing.T) (*client.Client, *testEnv) {
	env := newTestEnv(t, nil)
	ts := httptest.NewServer(env.router)
	t.Cleanup(ts.Close)
	return client.New(client.Config{BaseURL: ts.URL, APIKey: testAPIKey}), env
}

func runSignup(t *testing.T, w *signup.Wizard) wizard.Route {
	t.Helper()
	for i := 0; i < 10; i++ {
		out, err := w.Next(context.Background())
		require.NoError(t, err, wizard.Toast(err))
		if out.Route != nil {
			return *out.Route
		}
	}
	t.Fatal("signup did not finish")
	return wizard.Route{}
}

func TestCustomerSignupAgainstServer(t *testing.T) {
	c, env := newLiveClient(t)
	ctx := context.Background()

	w := signup.New(c)
	w.Update(func(d *draft.UserSignupDraft) {
		d.UserType = draft.UserTypeCustomer
		d.Email = "ana@example.com"
		d.Password = "secret"
		d.FirstName = "Ana"
		d.LastName = "Lopez"
		d.Phone = "(555) 987-6543"
		d.Zip = "10001"
	}, signup.ToggleAllergen(2), signup.ToggleAllergen(6))

	route := runSignup(t, w)
	assert.Equal(t, signup.RouteCustomerHome, route.Name)
	assert.NotEmpty(t, c.Tokens().Token())
	assert.NotEmpty(t, env.sms.lastCode(), "basic profile requests a phone code")

	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "ana@example.com").First(&stored).Error)
	assert.Equal(t, "2,6", stored.Allergens)
	assert.Equal(t, "10001", stored.Zip)

	login, ok := w.LoginResult()
	require.True(t, ok, "signup keeps the session it opened")
	assert.Equal(t, "ana@example.com", login.User.Email)

	store := session.NewStore()
	require.NoError(t, session.NewLoader(c, store, "device-token").Bootstrap(ctx, login.User))
	assert.Len(t, store.Categories(), 10)
	assert.NotEmpty(t, store.Allergens())
	_, hasCard := store.PaymentMethod()
	assert.False(t, hasCard)

	require.NoError(t, env.db.First(&stored, stored.ID).Error)
	assert.Equal(t, "device-token", stored.FCMToken)
}

func TestDuplicateSignupShowsServerMessage(t *testing.T) {
	c, env := newLiveClient(t)
	env.createUser(t, "ana@example.com", models.UserTypeCustomer, models.RoleCustomer)

	w := signup.New(c)
	w.Update(func(d *draft.UserSignupDraft) {
		d.UserType = draft.UserTypeCustomer
		d.Email = "ana@example.com"
		d.Password = "secret"
		d.FirstName = "Ana"
		d.LastName = "Lopez"
		d.Phone = "5559876543"
		d.Zip = "10001"
	})

	var err error
	for i := 0; i < 10 && err == nil; i++ {
		_, err = w.Next(context.Background())
	}
	require.Error(t, err)
	assert.Equal(t, "An account with this email already exists", wizard.Toast(err))
	assert.Equal(t, signup.StepPreferences, w.Current().Name())
}

func TestChefSignupAndFirstMenuItemAgainstServer(t *testing.T) {
	c, env := newLiveClient(t)
	ctx := context.Background()

	photo := filepath.Join(t.TempDir(), "me.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("jpeg"), 0o600))

	w := signup.New(c)
	w.Update(func(d *draft.UserSignupDraft) {
		d.UserType = draft.UserTypeChef
		d.Email = "rosa@example.com"
		d.Password = "secret"
	})
	route := runSignup(t, w)
	require.Equal(t, signup.RouteAccount, route.Name)

	form, err := signup.NewAccountForm(c, route.Params)
	require.NoError(t, err)
	form.Update(func(d *draft.UserSignupDraft) {
		d.FirstName = "Rosa"
		d.LastName = "Diaz"
		d.Phone = "(555) 123-4567"
		d.Zip = "10001"
		d.Birthday = 631152000
		d.Address = "1 Main St"
		d.City = "New York"
		d.State = "NY"
		d.Photo = photo
	})
	route, err = form.Submit(ctx)
	require.NoError(t, err, wizard.Toast(err))
	assert.Equal(t, signup.RouteChefHome, route.Name)

	login, ok := form.LoginResult()
	require.True(t, ok)
	assert.Equal(t, 1, login.User.IsPending)
	assert.NotEmpty(t, login.User.Photo)

	store := session.NewStore()
	require.NoError(t, session.NewLoader(c, store, "").Bootstrap(ctx, login.User))
	profile, ok := store.ChefProfile()
	require.True(t, ok)
	assert.Equal(t, login.User.ID, profile.ID)
	assert.True(t, store.IsOnboardingFirstItem())
	approved := session.NewStore()
	approvedChef := login.User
	approvedChef.IsPending = 0
	require.NoError(t, session.NewLoader(c, approved, "").LoadChefMenus(ctx, approvedChef))
	assert.False(t, approved.IsOnboardingFirstItem(), "an approved chef adding a first item goes back")

	// the assistant is not configured, so every suggestion is skipped
	mw := menuwizard.New(c, store.IsOnboardingFirstItem())
	next := func(patches ...draft.Patch[draft.MenuItemDraft]) {
		t.Helper()
		mw.Update(patches...)
		_, err := mw.Next(ctx)
		require.NoError(t, err, wizard.Toast(err))
	}
	next(func(d *draft.MenuItemDraft) { d.Title = "Tamales" })
	next(menuwizard.SetDescription("Pork tamales steamed in corn husks"))
	next(menuwizard.ToggleCategory(1), menuwizard.RequestNewCategory(true, "Oaxacan"))
	next(menuwizard.ToggleAllergen(7))
	next(menuwizard.ToggleAppliance(1))
	next(func(d *draft.MenuItemDraft) {
		d.PriceText = "$12.50"
		d.ServingSize = 4
		d.CompletionTimeID = "3"
	})
	require.NoError(t, mw.AddCustomization("Extra salsa", "1.25"))
	next()
	require.Equal(t, menuwizard.StepReview, mw.Current().Name())

	out, err := mw.Next(ctx)
	require.NoError(t, err, wizard.Toast(err))
	require.NotNil(t, out.Route)
	assert.Equal(t, menuwizard.RouteChefHome, out.Route.Name)

	saved, ok := mw.Saved()
	require.True(t, ok)
	store.PutMenu(saved)
	assert.False(t, store.IsOnboardingFirstItem())

	menus, resp := c.GetChefMenus(ctx, login.User.ID)
	require.True(t, resp.OK())
	require.Len(t, menus, 1)
	menu := menus[0]
	assert.Equal(t, mw.Draft().ID, menu.ID)
	assert.Equal(t, "Tamales", menu.Title)
	assert.Equal(t, 12.5, menu.Price)
	assert.Equal(t, 60, menu.EstimatedTime)
	assert.Equal(t, "7", menu.Allergens)
	require.Len(t, menu.Customizations, 1)
	assert.Equal(t, 1.25, menu.Customizations[0].UpchargePrice)

	var created models.Category
	require.NoError(t, env.db.Where("name = ?", "Oaxacan").First(&created).Error)
	assert.Equal(t, models.CategoryPending, created.Status)
	assert.Equal(t, []int{1, int(created.ID)}, draft.FromWireFormat(menu.CategoryIDs).Ints())

	// editing keeps the stored values and sends an update
	edit := menuwizard.NewEdit(c, menu, false)
	edit.Update(func(d *draft.MenuItemDraft) { d.PriceText = "14" })
	for edit.Current().Name() != menuwizard.StepReview {
		_, err := edit.Next(ctx)
		require.NoError(t, err, wizard.Toast(err))
	}
	out, err = edit.Next(ctx)
	require.NoError(t, err, wizard.Toast(err))
	assert.Equal(t, menuwizard.RouteBack, out.Route.Name)

	menus, _ = c.GetChefMenus(ctx, login.User.ID)
	require.Len(t, menus, 1)
	assert.Equal(t, 14.0, menus[0].Price)
	assert.Equal(t, menu.CategoryIDs, menus[0].CategoryIDs)
}
