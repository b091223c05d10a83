package signup

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/validation"
	"github.com/franciscosanchezn/taist-api/internal/wizard"
)

const stepAccount = "account"

// AccountForm is the single-screen chef registration reached from the
// Account route. It runs as a one-step wizard so it shares the submit guard.
type AccountForm struct {
	*wizard.Controller[draft.UserSignupDraft, draft.UserType]
	signedIn
}

// NewAccountForm seeds the form from the Account route params.
func NewAccountForm(backend Backend, params map[string]any) (*AccountForm, error) {
	seed := draft.UserSignupDraft{UserType: draft.UserTypeChef}
	var ok bool
	if seed.Email, ok = params["email"].(string); !ok {
		return nil, fmt.Errorf("account form: missing email param")
	}
	if seed.Password, ok = params["password"].(string); !ok {
		return nil, fmt.Errorf("account form: missing password param")
	}
	if ut, ok := params["user_type"].(int); ok && draft.UserType(ut) != draft.UserTypeChef {
		return nil, fmt.Errorf("account form: user_type %d is not a chef", ut)
	}

	f := &AccountForm{}
	flows := map[draft.UserType]wizard.Flow[draft.UserSignupDraft]{
		draft.UserTypeChef: {
			Steps:  []wizard.Step[draft.UserSignupDraft]{accountStep{}},
			Finish: registerAndLogin(backend, RouteChefHome, f.remember),
		},
	}
	key := func(*draft.UserSignupDraft) draft.UserType { return draft.UserTypeChef }
	f.Controller = wizard.New(seed, key, flows)
	return f, nil
}

// Update merges patches into the draft; the form always registers a chef.
func (f *AccountForm) Update(patches ...draft.Patch[draft.UserSignupDraft]) bool {
	patches = append(patches[:len(patches):len(patches)], keepUserType(draft.UserTypeChef))
	return f.Controller.Update(patches...)
}

// Submit validates every field and registers the chef.
func (f *AccountForm) Submit(ctx context.Context) (wizard.Route, error) {
	out, err := f.Next(ctx)
	if err != nil {
		return wizard.Route{}, err
	}
	return *out.Route, nil
}

type accountStep struct{}

func (accountStep) Name() string { return stepAccount }

func (accountStep) Validate(d *draft.UserSignupDraft) error {
	var birthday error
	if d.Birthday == 0 {
		birthday = &validation.Error{Field: "birthday", Message: validation.MsgMissingBirthday}
	}
	return validation.First(
		validation.Email(d.Email),
		validation.Password(d.Password),
		validation.Phone(d.Phone),
		validation.Zip(d.Zip),
		validation.Required("first_name", d.FirstName, validation.MsgMissingFirstName),
		validation.Required("last_name", d.LastName, validation.MsgMissingLastName),
		birthday,
		validation.Required("address", d.Address, validation.MsgMissingAddress),
		validation.Required("city", d.City, validation.MsgMissingCity),
		validation.Required("state", d.State, validation.MsgMissingState),
		validation.Required("photo", d.Photo, validation.MsgMissingPhoto),
	)
}
