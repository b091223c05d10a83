package main

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/taist-api/internal/draft"
	"github.com/franciscosanchezn/taist-api/internal/signup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocator(t *testing.T) {
	locator, err := parseLocator("40.75, -73.99")
	require.NoError(t, err)
	loc, err := locator.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, signup.Location{Latitude: 40.75, Longitude: -73.99}, loc)

	for _, bad := range []string{"40.75", "north,-73.99", "91,0", "0,181"} {
		_, err := parseLocator(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseLocatorFeedsLocationStep(t *testing.T) {
	locator, err := parseLocator("34.09,-118.41")
	require.NoError(t, err)

	w := signup.New(nil, signup.WithLocator(locator))
	w.Update(func(d *draft.UserSignupDraft) { d.Zip = "90210" })
	require.NoError(t, w.DetectLocation(context.Background()))
	assert.InDelta(t, 34.09, w.Draft().Latitude, 1e-9)
	assert.Equal(t, "90210", w.Draft().Zip)
}

func TestParseUserType(t *testing.T) {
	assert.Equal(t, draft.UserTypeChef, parseUserType("Chef"))
	assert.Equal(t, draft.UserTypeCustomer, parseUserType("1"))
	assert.Equal(t, draft.UserTypeUnknown, parseUserType("admin"))
}
