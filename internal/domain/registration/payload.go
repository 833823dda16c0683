package registration

import (
	"strconv"
	"strings"
)

// RegistrationPayload is the body of POST /{role}/auth/register.
type RegistrationPayload struct {
	Name            string                  `json:"name"`
	Email           string                  `json:"email"`
	Password        string                  `json:"password"`
	Phone           string                  `json:"phone"`
	ProviderProfile *ProviderProfilePayload `json:"providerProfile,omitempty"`
	CustomerProfile *CustomerProfilePayload `json:"customerProfile,omitempty"`
}

type ProviderProfilePayload struct {
	Bio             string   `json:"bio"`
	Location        string   `json:"location"`
	Website         string   `json:"website"`
	HourlyRate      *float64 `json:"hourlyRate"`
	YearsExperience *int     `json:"yearsExperience"`
	Skills          []string `json:"skills"`
	Languages       []string `json:"languages"`
	PortfolioURLs   []string `json:"portfolioUrls"`
	LinkedIn        string   `json:"linkedin"`
	GitHub          string   `json:"github"`
}

type CustomerProfilePayload struct {
	CompanyName            string   `json:"companyName"`
	Industry               string   `json:"industry"`
	CompanySize            string   `json:"companySize"`
	Location               string   `json:"location"`
	Website                string   `json:"website"`
	Description            string   `json:"description"`
	EmployeeCount          *int     `json:"employeeCount"`
	EstablishedYear        *int     `json:"establishedYear"`
	AnnualRevenue          *float64 `json:"annualRevenue"`
	AverageBudget          *float64 `json:"averageBudget"`
	FundingStage           string   `json:"fundingStage"`
	PreferredContractTypes []string `json:"preferredContractTypes"`
	RemotePolicy           string   `json:"remotePolicy"`
	HiringFrequency        string   `json:"hiringFrequency"`
	CategoriesHiringFor    []string `json:"categoriesHiringFor"`
	Mission                string   `json:"mission"`
	Values                 []string `json:"values"`
}

// BuildPayload assembles the role-shaped registration body. Empty numeric
// inputs become null; anything unparsable aborts with a FieldAssemblyError.
func BuildPayload(role Role, d *Draft) (RegistrationPayload, error) {
	if !role.Valid() {
		return RegistrationPayload{}, ErrRoleNotSelected
	}
	id := d.Identity
	p := RegistrationPayload{
		Name:     strings.TrimSpace(id.Name),
		Email:    strings.TrimSpace(id.Email),
		Password: id.Password,
		Phone:    strings.TrimSpace(id.Phone),
	}

	switch role {
	case RoleProvider:
		prof := d.Provider()
		if prof == nil {
			return RegistrationPayload{}, ErrRoleMismatch
		}
		rate, err := parseFloat("hourlyRate", prof.HourlyRate)
		if err != nil {
			return RegistrationPayload{}, err
		}
		years, err := parseInt("yearsExperience", prof.YearsExperience)
		if err != nil {
			return RegistrationPayload{}, err
		}
		p.ProviderProfile = &ProviderProfilePayload{
			Bio:             strings.TrimSpace(prof.Bio),
			Location:        strings.TrimSpace(prof.Location),
			Website:         strings.TrimSpace(prof.Website),
			HourlyRate:      rate,
			YearsExperience: years,
			Skills:          nonNil(prof.Skills),
			Languages:       nonNil(prof.Languages),
			PortfolioURLs:   nonNil(prof.PortfolioURLs),
			LinkedIn:        strings.TrimSpace(prof.LinkedIn),
			GitHub:          strings.TrimSpace(prof.GitHub),
		}
	case RoleCustomer:
		c := d.Customer()
		if c == nil {
			return RegistrationPayload{}, ErrRoleMismatch
		}
		employees, err := parseInt("employeeCount", c.EmployeeCount)
		if err != nil {
			return RegistrationPayload{}, err
		}
		established, err := parseInt("establishedYear", c.EstablishedYear)
		if err != nil {
			return RegistrationPayload{}, err
		}
		revenue, err := parseFloat("annualRevenue", c.AnnualRevenue)
		if err != nil {
			return RegistrationPayload{}, err
		}
		budget, err := parseFloat("averageBudget", c.AverageBudget)
		if err != nil {
			return RegistrationPayload{}, err
		}
		p.CustomerProfile = &CustomerProfilePayload{
			CompanyName:            strings.TrimSpace(c.CompanyName),
			Industry:               strings.TrimSpace(c.Industry),
			CompanySize:            strings.TrimSpace(c.CompanySize),
			Location:               strings.TrimSpace(c.Location),
			Website:                strings.TrimSpace(c.Website),
			Description:            strings.TrimSpace(c.Description),
			EmployeeCount:          employees,
			EstablishedYear:        established,
			AnnualRevenue:          revenue,
			AverageBudget:          budget,
			FundingStage:           strings.TrimSpace(c.FundingStage),
			PreferredContractTypes: nonNil(c.PreferredContractTypes),
			RemotePolicy:           strings.TrimSpace(c.RemotePolicy),
			HiringFrequency:        strings.TrimSpace(c.HiringFrequency),
			CategoriesHiringFor:    nonNil(c.CategoriesHiringFor),
			Mission:                strings.TrimSpace(c.Mission),
			Values:                 nonNil(c.Values),
		}
	}
	return p, nil
}

func parseFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &FieldAssemblyError{Field: field, Value: raw}
	}
	return &v, nil
}

func parseInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &FieldAssemblyError{Field: field, Value: raw}
	}
	return &v, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
