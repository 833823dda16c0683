package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"techconnect/internal/domain/registration"
)

// Manifest lists accounts to register. File paths are relative to the
// manifest itself. Numeric profile fields are read as text; the wizard
// validates them like form input.
type Manifest struct {
	Registrations []Entry `yaml:"registrations"`

	dir string
}

type Entry struct {
	Role           string              `yaml:"role"`
	Identity       IdentityFields      `yaml:"identity"`
	Provider       *providerYAML       `yaml:"provider"`
	Customer       *customerYAML       `yaml:"customer"`
	Certifications []certificationYAML `yaml:"certifications"`
	Resume         string              `yaml:"resume"`
	KYC            string              `yaml:"kyc"`
	KYCDocType     string              `yaml:"kyc_doc_type"`
}

type IdentityFields struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Phone    string `yaml:"phone"`
}

func loadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(m.Registrations) == 0 {
		return nil, fmt.Errorf("%s: no registrations", path)
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

func (m *Manifest) attachment(path string) (*registration.Attachment, error) {
	if path == "" {
		return nil, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &registration.Attachment{FileName: filepath.Base(path), ContentType: ct, Data: data}, nil
}

type providerYAML struct {
	Bio             string   `yaml:"bio"`
	Location        string   `yaml:"location"`
	Website         string   `yaml:"website"`
	HourlyRate      string   `yaml:"hourly_rate"`
	YearsExperience string   `yaml:"years_experience"`
	LinkedIn        string   `yaml:"linkedin"`
	GitHub          string   `yaml:"github"`
	Skills          []string `yaml:"skills"`
	Languages       []string `yaml:"languages"`
	PortfolioURLs   []string `yaml:"portfolio_urls"`
}

func (p providerYAML) patch(docType string) *registration.ProviderPatch {
	out := &registration.ProviderPatch{
		Bio:             &p.Bio,
		Location:        &p.Location,
		Website:         &p.Website,
		HourlyRate:      &p.HourlyRate,
		YearsExperience: &p.YearsExperience,
		LinkedIn:        &p.LinkedIn,
		GitHub:          &p.GitHub,
		Skills:          &p.Skills,
		Languages:       &p.Languages,
		PortfolioURLs:   &p.PortfolioURLs,
	}
	if docType != "" {
		out.KYCDocType = &docType
	}
	return out
}

type customerYAML struct {
	CompanyName            string   `yaml:"company_name"`
	Industry               string   `yaml:"industry"`
	CompanySize            string   `yaml:"company_size"`
	Location               string   `yaml:"location"`
	Website                string   `yaml:"website"`
	Description            string   `yaml:"description"`
	EmployeeCount          string   `yaml:"employee_count"`
	EstablishedYear        string   `yaml:"established_year"`
	AnnualRevenue          string   `yaml:"annual_revenue"`
	AverageBudget          string   `yaml:"average_budget"`
	FundingStage           string   `yaml:"funding_stage"`
	RemotePolicy           string   `yaml:"remote_policy"`
	HiringFrequency        string   `yaml:"hiring_frequency"`
	Mission                string   `yaml:"mission"`
	PreferredContractTypes []string `yaml:"preferred_contract_types"`
	CategoriesHiringFor    []string `yaml:"categories_hiring_for"`
	Values                 []string `yaml:"values"`
}

func (c customerYAML) patch() *registration.CustomerPatch {
	return &registration.CustomerPatch{
		CompanyName:            &c.CompanyName,
		Industry:               &c.Industry,
		CompanySize:            &c.CompanySize,
		Location:               &c.Location,
		Website:                &c.Website,
		Description:            &c.Description,
		EmployeeCount:          &c.EmployeeCount,
		EstablishedYear:        &c.EstablishedYear,
		AnnualRevenue:          &c.AnnualRevenue,
		AverageBudget:          &c.AverageBudget,
		FundingStage:           &c.FundingStage,
		RemotePolicy:           &c.RemotePolicy,
		HiringFrequency:        &c.HiringFrequency,
		Mission:                &c.Mission,
		PreferredContractTypes: &c.PreferredContractTypes,
		CategoriesHiringFor:    &c.CategoriesHiringFor,
		Values:                 &c.Values,
	}
}

type certificationYAML struct {
	Name         string `yaml:"name"`
	Issuer       string `yaml:"issuer"`
	IssuedDate   string `yaml:"issued_date"`
	SerialNumber string `yaml:"serial_number"`
	SourceURL    string `yaml:"source_url"`
}

func (c certificationYAML) certification() registration.Certification {
	return registration.Certification{
		Name:         c.Name,
		Issuer:       c.Issuer,
		IssuedDate:   c.IssuedDate,
		SerialNumber: c.SerialNumber,
		SourceURL:    c.SourceURL,
	}
}
