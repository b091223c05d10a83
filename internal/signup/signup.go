// Package signup is the registration wizard: an onboarding carousel, the
// customer/chef choice, credentials, and then either the customer profile
// steps or a hand-off to the chef account form.
package signup

import (
	"context"
	"time"

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

// Route names the wizard can finish on.
const (
	RouteCustomerHome = "CustomerHome"
	RouteChefHome     = "ChefHome"
	RouteAccount      = "Account"
)

// Backend is the part of the API the signup screens call. *client.Client
// satisfies it.
type Backend interface {
	Register(ctx context.Context, fields any, photoPath string) client.Response
	Login(ctx context.Context, email, password string) (client.LoginResult, client.Response)
	VerifyPhone(ctx context.Context, phone, code string) client.Response
}

// Wizard is the signup step controller.
type Wizard struct {
	*wizard.Controller[draft.UserSignupDraft, draft.UserType]
	signedIn

	locator       Locator
	locateTimeout time.Duration
}

// userTypeIndex is where the role is chosen; it is fixed once the wizard moves past it.
const userTypeIndex = 1

// signedIn keeps the session opened right after registration so callers
// do not have to log in again.
type signedIn struct {
	login *client.LoginResult
}

func (s *signedIn) remember(r client.LoginResult) {
	s.login = &r
}

// LoginResult is the login made when registration finished.
func (s *signedIn) LoginResult() (client.LoginResult, bool) {
	if s.login == nil {
		return client.LoginResult{}, false
	}
	return *s.login, true
}

type Option func(*Wizard)

// WithLocator enables DetectLocation on the location step.
func WithLocator(l Locator) Option {
	return func(w *Wizard) { w.locator = l }
}

// WithLocateTimeout bounds how long DetectLocation waits for the locator.
func WithLocateTimeout(d time.Duration) Option {
	return func(w *Wizard) { w.locateTimeout = d }
}

// New builds the wizard with one step sequence per role. Until a role is
// chosen the customer sequence is shown; both start with the same three steps.
func New(backend Backend, opts ...Option) *Wizard {
	w := &Wizard{locateTimeout: DefaultLocateTimeout}
	onboarding := onboardingStep{}
	userType := userTypeStep{}
	credentials := credentialsStep{}

	flows := map[draft.UserType]wizard.Flow[draft.UserSignupDraft]{
		draft.UserTypeCustomer: {
			Steps: []wizard.Step[draft.UserSignupDraft]{
				onboarding,
				userType,
				credentials,
				basicProfileStep{backend: backend},
				locationStep{},
				preferencesStep{},
			},
			Finish: registerAndLogin(backend, RouteCustomerHome, w.remember),
		},
		draft.UserTypeChef: {
			Steps:  []wizard.Step[draft.UserSignupDraft]{onboarding, userType, credentials},
			Finish: handOffToAccount,
		},
	}

	w.Controller = wizard.New(draft.UserSignupDraft{}, flowKey, flows)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func flowKey(d *draft.UserSignupDraft) draft.UserType {
	if d.UserType == draft.UserTypeChef {
		return draft.UserTypeChef
	}
	return draft.UserTypeCustomer
}

// Update merges patches into the draft. Past the user type step the chosen
// role is kept whatever the patches say.
func (w *Wizard) Update(patches ...draft.Patch[draft.UserSignupDraft]) bool {
	if w.Index() > userTypeIndex {
		patches = append(patches[:len(patches):len(patches)], keepUserType(w.Draft().UserType))
	}
	return w.Controller.Update(patches...)
}

// SelectUserType sets the role. It is only honored up to the user type step.
func (w *Wizard) SelectUserType(t draft.UserType) bool {
	if w.Index() > userTypeIndex {
		log.WithFields(logrus.Fields{"index": w.Index(), "user_type": t.String()}).Warn("User type is already chosen")
		return false
	}
	return w.Controller.Update(keepUserType(t))
}

func keepUserType(t draft.UserType) draft.Patch[draft.UserSignupDraft] {
	return func(d *draft.UserSignupDraft) { d.UserType = t }
}

// ShowProgress reports whether the progress indicator is visible.
func (w *Wizard) ShowProgress() bool {
	return w.Index() >= 2
}

// Progress is the one-based position and the length of the current sequence.
func (w *Wizard) Progress() (int, int) {
	return w.Index() + 1, len(w.Flow().Steps)
}

// registerAndLogin submits the draft, signs in with the same credentials,
// hands the login to onLogin and routes to home. A failed call stops the
// sequence.
func registerAndLogin(backend Backend, home string, onLogin func(client.LoginResult)) func(context.Context, *draft.UserSignupDraft) (wizard.Route, error) {
	return func(ctx context.Context, d *draft.UserSignupDraft) (wizard.Route, error) {
		logger := log.WithFields(logrus.Fields{"email": d.Email, "user_type": d.UserType.String()})

		if err := wizard.Check(backend.Register(ctx, *d, d.Photo)); err != nil {
			logger.WithError(err).Info("Registration rejected")
			return wizard.Route{}, err
		}
		login, resp := backend.Login(ctx, d.Email, d.Password)
		if !resp.OK() {
			logger.WithField("error", resp.ErrorMessage()).Info("Login after registration failed")
			return wizard.Route{}, wizard.Check(resp)
		}
		onLogin(login)
		logger.Info("User registered and signed in")
		return wizard.Route{Name: home, Replace: true}, nil
	}
}

// handOffToAccount routes chefs to the account form with what they entered so far.
func handOffToAccount(_ context.Context, d *draft.UserSignupDraft) (wizard.Route, error) {
	return wizard.Route{
		Name: RouteAccount,
		Params: map[string]any{
			"email":     d.Email,
			"password":  d.Password,
			"user_type": int(draft.UserTypeChef),
		},
	}, nil
}
