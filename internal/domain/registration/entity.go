package registration

import (
	"encoding/json"
	"errors"
	"strings"
)

type Role string

const (
	RoleUnset    Role = ""
	RoleProvider Role = "provider"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleProvider:
		return RoleProvider, nil
	case RoleCustomer:
		return RoleCustomer, nil
	}
	return RoleUnset, ErrInvalidRole
}

func (r Role) Valid() bool {
	return r == RoleProvider || r == RoleCustomer
}

// EmailStatus tracks the availability gate in front of step 2.
type EmailStatus string

const (
	EmailIdle      EmailStatus = "idle"
	EmailChecking  EmailStatus = "checking"
	EmailAvailable EmailStatus = "available"
	EmailUsed      EmailStatus = "used"
)

type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
)

// KYC document types accepted by the backend.
const (
	DocPassport            = "PASSPORT"
	DocIC                  = "IC"
	DocCompanyRegistration = "COMPANY_REGISTRATION"
)

type Identity struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Phone           string `json:"phone"`
}

// Attachment is a file held in the draft until submission.
type Attachment struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

func (a *Attachment) Present() bool {
	return a != nil && len(a.Data) > 0
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssuedDate   string `json:"issued_date"`
	Verified     bool   `json:"verified"`
	SerialNumber string `json:"serial_number,omitempty"`
	SourceURL    string `json:"source_url,omitempty"`
}

// Addable reports whether the certification may enter the collection: the
// descriptive fields are filled and it can be verified by serial or URL.
func (c Certification) Addable() bool {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Issuer) == "" || strings.TrimSpace(c.IssuedDate) == "" {
		return false
	}
	return strings.TrimSpace(c.SerialNumber) != "" || strings.TrimSpace(c.SourceURL) != ""
}

// ProfileDraft is the role-specific half of a draft. Exactly one
// implementation is held by a Draft at a time.
type ProfileDraft interface {
	Role() Role
	isProfileDraft()
}

type ProviderProfileDraft struct {
	Bio             string          `json:"bio"`
	Location        string          `json:"location"`
	Website         string          `json:"website"`
	HourlyRate      string          `json:"hourly_rate"`
	YearsExperience string          `json:"years_experience"`
	Skills          []string        `json:"skills"`
	Languages       []string        `json:"languages"`
	PortfolioURLs   []string        `json:"portfolio_urls"`
	Certifications  []Certification `json:"certifications"`
	LinkedIn        string          `json:"linkedin"`
	GitHub          string          `json:"github"`
}

func (*ProviderProfileDraft) Role() Role      { return RoleProvider }
func (*ProviderProfileDraft) isProfileDraft() {}

type CustomerProfileDraft struct {
	CompanyName            string   `json:"company_name"`
	Industry               string   `json:"industry"`
	CompanySize            string   `json:"company_size"`
	Location               string   `json:"location"`
	Website                string   `json:"website"`
	Description            string   `json:"description"`
	EmployeeCount          string   `json:"employee_count"`
	EstablishedYear        string   `json:"established_year"`
	AnnualRevenue          string   `json:"annual_revenue"`
	AverageBudget          string   `json:"average_budget"`
	FundingStage           string   `json:"funding_stage"`
	PreferredContractTypes []string `json:"preferred_contract_types"`
	RemotePolicy           string   `json:"remote_policy"`
	HiringFrequency        string   `json:"hiring_frequency"`
	CategoriesHiringFor    []string `json:"categories_hiring_for"`
	Mission                string   `json:"mission"`
	Values                 []string `json:"values"`
}

func (*CustomerProfileDraft) Role() Role      { return RoleCustomer }
func (*CustomerProfileDraft) isProfileDraft() {}

func newProfile(role Role) ProfileDraft {
	switch role {
	case RoleProvider:
		return &ProviderProfileDraft{}
	case RoleCustomer:
		return &CustomerProfileDraft{}
	}
	return nil
}

// Draft is the form field store of one registration attempt.
type Draft struct {
	Identity   Identity
	Profile    ProfileDraft
	ResumeFile *Attachment
	KYCFile    *Attachment
	KYCDocType string
}

func (d *Draft) Provider() *ProviderProfileDraft {
	p, _ := d.Profile.(*ProviderProfileDraft)
	return p
}

func (d *Draft) Customer() *CustomerProfileDraft {
	c, _ := d.Profile.(*CustomerProfileDraft)
	return c
}

type draftJSON struct {
	Identity   Identity              `json:"identity"`
	Provider   *ProviderProfileDraft `json:"provider,omitempty"`
	Customer   *CustomerProfileDraft `json:"customer,omitempty"`
	ResumeFile *Attachment           `json:"resume_file,omitempty"`
	KYCFile    *Attachment           `json:"kyc_file,omitempty"`
	KYCDocType string                `json:"kyc_doc_type,omitempty"`
}

func (d Draft) MarshalJSON() ([]byte, error) {
	return json.Marshal(draftJSON{
		Identity:   d.Identity,
		Provider:   d.Provider(),
		Customer:   d.Customer(),
		ResumeFile: d.ResumeFile,
		KYCFile:    d.KYCFile,
		KYCDocType: d.KYCDocType,
	})
}

func (d *Draft) UnmarshalJSON(data []byte) error {
	var raw draftJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Provider != nil && raw.Customer != nil {
		return errors.New("draft holds both provider and customer profiles")
	}
	*d = Draft{
		Identity:   raw.Identity,
		ResumeFile: raw.ResumeFile,
		KYCFile:    raw.KYCFile,
		KYCDocType: raw.KYCDocType,
	}
	switch {
	case raw.Provider != nil:
		d.Profile = raw.Provider
	case raw.Customer != nil:
		d.Profile = raw.Customer
	}
	return nil
}
