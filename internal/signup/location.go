package signup

import (
	"context"
	"errors"
	"time"

	"github.com/franciscosanchezn/taist-api/internal/draft"
)

// DefaultLocateTimeout is how long the location step waits before leaving
// the ZIP field to the user.
const DefaultLocateTimeout = 10 * time.Second

// ErrLocateTimeout means the locator did not answer in time.
var ErrLocateTimeout = errors.New("signup: location lookup timed out")

// ErrNoLocator is returned by DetectLocation when the wizard has no locator.
var ErrNoLocator = errors.New("signup: no locator configured")

// Location is a resolved device position.
type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
	City      string
	State     string
	Zip       string
}

// Locator resolves the current position. Implementations should honor ctx
// but are not required to.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Location, error)

func (f LocatorFunc) Locate(ctx context.Context) (Location, error) {
	return f(ctx)
}

// DetectLocation fills the location fields from the locator, racing it
// against the wizard's timeout. Fields the user already typed are kept.
func (w *Wizard) DetectLocation(ctx context.Context) error {
	if w.locator == nil {
		return ErrNoLocator
	}
	loc, err := locate(ctx, w.locator, w.locateTimeout)
	if err != nil {
		log.WithError(err).Debug("Location lookup failed")
		return err
	}
	w.Update(func(d *draft.UserSignupDraft) {
		d.Latitude, d.Longitude = loc.Latitude, loc.Longitude
		fillBlank(&d.Address, loc.Address)
		fillBlank(&d.City, loc.City)
		fillBlank(&d.State, loc.State)
		fillBlank(&d.Zip, loc.Zip)
	})
	return nil
}

func locate(ctx context.Context, l Locator, timeout time.Duration) (Location, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		loc Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := l.Locate(ctx)
		done <- result{loc, err}
	}()

	select {
	case r := <-done:
		return r.loc, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Location{}, ErrLocateTimeout
		}
		return Location{}, ctx.Err()
	}
}

func fillBlank(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
