package signup

import (
	"context"

	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/validation"
)

// Step names, in customer order.
const (
	StepOnboarding   = "onboarding"
	StepUserType     = "user_type"
	StepCredentials  = "credentials"
	StepBasicProfile = "basic_profile"
	StepLocation     = "location"
	StepPreferences  = "preferences"
)

// onboardingStep is the carousel; "Get Started" is a plain Next.
type onboardingStep struct{}

func (onboardingStep) Name() string                          { return StepOnboarding }
func (onboardingStep) Validate(*draft.UserSignupDraft) error { return nil }

type userTypeStep struct{}

func (userTypeStep) Name() string { return StepUserType }

func (userTypeStep) Validate(d *draft.UserSignupDraft) error {
	if !d.UserType.Valid() {
		return &validation.Error{Field: "user_type", Message: validation.MsgInvalidUserType}
	}
	return nil
}

type credentialsStep struct{}

func (credentialsStep) Name() string { return StepCredentials }

func (credentialsStep) Validate(d *draft.UserSignupDraft) error {
	return validation.First(
		validation.Email(d.Email),
		validation.Password(d.Password),
	)
}

// basicProfileStep asks the server to text a verification code once the
// profile is valid. The request is best effort.
type basicProfileStep struct {
	backend Backend
}

func (basicProfileStep) Name() string { return StepBasicProfile }

func (basicProfileStep) Validate(d *draft.UserSignupDraft) error {
	return validation.First(
		validation.Required("first_name", d.FirstName, validation.MsgMissingFirstName),
		validation.Required("last_name", d.LastName, validation.MsgMissingLastName),
		validation.Phone(d.Phone),
	)
}

func (s basicProfileStep) BeforeAdvance(ctx context.Context, d *draft.UserSignupDraft) (bool, error) {
	if s.backend == nil {
		return false, nil
	}
	if resp := s.backend.VerifyPhone(ctx, validation.PhoneDigits(d.Phone), ""); !resp.OK() {
		log.WithField("error", resp.ErrorMessage()).Debug("Verification code request failed")
	}
	return false, nil
}

type locationStep struct{}

func (locationStep) Name() string { return StepLocation }

func (locationStep) Validate(d *draft.UserSignupDraft) error {
	return validation.Zip(d.Zip)
}

// preferencesStep collects allergens; nothing is required.
type preferencesStep struct{}

func (preferencesStep) Name() string                          { return StepPreferences }
func (preferencesStep) Validate(*draft.UserSignupDraft) error { return nil }

// ToggleAllergen flips one allergen on the preferences step.
func ToggleAllergen(id int) draft.Patch[draft.UserSignupDraft] {
	return func(d *draft.UserSignupDraft) {
		d.Allergens = d.Allergens.Toggle(id)
	}
}
