package registration

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload_Provider(t *testing.T) {
	s := providerReady(t)
	prof := s.Draft.Provider()
	prof.HourlyRate = " 45.5 "
	prof.YearsExperience = ""

	p, err := BuildPayload(RoleProvider, &s.Draft)

	require.NoError(t, err)
	require.NotNil(t, p.ProviderProfile)
	assert.Nil(t, p.CustomerProfile)
	assert.Equal(t, 45.5, *p.ProviderProfile.HourlyRate)
	assert.Nil(t, p.ProviderProfile.YearsExperience)
	assert.Equal(t, []string{}, p.ProviderProfile.Skills)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"yearsExperience":null`)
	assert.Contains(t, string(raw), `"providerProfile":{`)
	assert.NotContains(t, string(raw), "customerProfile")
}

func TestBuildPayload_CustomerNumbers(t *testing.T) {
	s := customerReady(t)
	c := s.Draft.Customer()
	c.EmployeeCount = "25"
	c.EstablishedYear = "2015"
	c.AverageBudget = "1200.75"

	p, err := BuildPayload(RoleCustomer, &s.Draft)

	require.NoError(t, err)
	assert.Equal(t, 25, *p.CustomerProfile.EmployeeCount)
	assert.Equal(t, 2015, *p.CustomerProfile.EstablishedYear)
	assert.Nil(t, p.CustomerProfile.AnnualRevenue)
	assert.Equal(t, 1200.75, *p.CustomerProfile.AverageBudget)
}

func TestBuildPayload_InvalidNumber(t *testing.T) {
	s := providerReady(t)
	s.Draft.Provider().HourlyRate = "fifty"

	_, err := BuildPayload(RoleProvider, &s.Draft)

	var fe *FieldAssemblyError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "hourlyRate", fe.Field)
	assert.ErrorIs(t, err, ErrPayloadAssembly)
}

func TestBuildPayload_RoleMismatch(t *testing.T) {
	s := customerReady(t)

	_, err := BuildPayload(RoleProvider, &s.Draft)
	assert.ErrorIs(t, err, ErrRoleMismatch)

	_, err = BuildPayload(RoleUnset, &s.Draft)
	assert.ErrorIs(t, err, ErrRoleNotSelected)
}
