// Package validation holds every field rule used by the signup wizard, the chef
// account form, the menu item wizard and the register endpoint. Messages are
// shown to users verbatim, so they must not be reworded.
package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

const (
	MinPasswordLength = 4
	MinPhoneDigits    = 10
	MinServingSize    = 1
	MaxServingSize    = 10
)

// User-facing messages.
const (
	MsgInvalidEmail        = "Please enter a valid email address"
	MsgShortPassword       = "Password must be at least 4 characters"
	MsgMissingFirstName    = "Please enter your first name"
	MsgMissingLastName     = "Please enter your last name"
	MsgInvalidPhone        = "Please enter a valid phone number"
	MsgInvalidZip          = "Please enter a valid ZIP code"
	MsgMissingBirthday     = "Please enter your birthday"
	MsgMissingAddress      = "Please enter your address"
	MsgMissingCity         = "Please enter your city"
	MsgMissingState        = "Please enter your state"
	MsgMissingPhoto        = "Please upload a profile photo"
	MsgInvalidUserType     = "Please choose whether you are a customer or a chef"
	MsgMissingTitle        = "Please enter a menu item name"
	MsgMissingDescription  = "Please enter a description"
	MsgMissingCategory     = "Please select at least one category"
	MsgMissingNewCategory  = "Please enter a new category name"
	MsgInvalidPrice        = "Please enter a valid price"
	MsgPriceNotPositive    = "Price must be greater than $0.00"
	MsgServingSizeRange    = "Serving size must be between 1 and 10"
	MsgMissingCustomName   = "Please enter a name for each customization"
	MsgInvalidUpcharge     = "Please enter a valid upcharge price"
)

// Error is a client-side validation failure. Field names the offending input
// using its wire name.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fail(field, message string) error {
	return &Error{Field: field, Message: message}
}

// Email checks the address against the signup email pattern.
func Email(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return fail("email", MsgInvalidEmail)
	}
	return nil
}

func Password(password string) error {
	if len(password) < MinPasswordLength {
		return fail("password", MsgShortPassword)
	}
	return nil
}

// Required fails with message when value is blank after trimming.
func Required(field, value, message string) error {
	if strings.TrimSpace(value) == "" {
		return fail(field, message)
	}
	return nil
}

// PhoneDigits returns only the digits of a formatted phone number.
func PhoneDigits(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// Phone accepts any formatting as long as at least ten digits remain.
func Phone(phone string) error {
	if len(PhoneDigits(phone)) < MinPhoneDigits {
		return fail("phone", MsgInvalidPhone)
	}
	return nil
}

// Zip accepts 5-digit and ZIP+4 codes.
func Zip(zip string) error {
	if !zipPattern.MatchString(zip) {
		return fail("zip", MsgInvalidZip)
	}
	return nil
}

// Price parses text as a dollar amount and requires it to be positive once
// rounded to cents, so "0.004" is rejected rather than stored as zero.
func Price(text string) error {
	cleaned := strings.TrimPrefix(strings.TrimSpace(text), "$")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return fail("price", MsgInvalidPrice)
	}
	if !amount.Round(2).IsPositive() {
		return fail("price", MsgPriceNotPositive)
	}
	return nil
}

// ServingSize accepts the textual or numeric serving size in [1, 10].
func ServingSize(text string) error {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < MinServingSize || n > MaxServingSize {
		return fail("serving_size", MsgServingSizeRange)
	}
	return nil
}

// First returns the first non-nil error.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
