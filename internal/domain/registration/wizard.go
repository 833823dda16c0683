package registration

import (
	"encoding/json"
	"net/url"
	"slices"
	"strings"
	"time"
)

// RegisterPath is the UI route the wizard lives on; the role travels in its
// query string so a refresh resumes on the right step list.
const RegisterPath = "/register"

// Position is where a session stands in its role's step list.
type Position struct {
	Role        Role `json:"role"`
	CurrentStep int  `json:"current_step"`
	TotalSteps  int  `json:"total_steps"`
}

// Session is the whole state of one registration attempt. It is owned by a
// single wizard and destroyed on success or expiry.
type Session struct {
	ID               string          `json:"id"`
	Role             Role            `json:"role"`
	CurrentStep      int             `json:"current_step"`
	Draft            Draft           `json:"draft"`
	EmailStatus      EmailStatus     `json:"email_status"`
	Error            string          `json:"error,omitempty"`
	FieldErrors      FieldErrors     `json:"field_errors,omitempty"`
	Focus            string          `json:"focus,omitempty"`
	Phase            Phase           `json:"phase"`
	ProcessingResume bool            `json:"processing_resume"`
	Analysis         *ResumeAnalysis `json:"analysis,omitempty"`
	Result           *SubmitResult   `json:"result,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ExpiresAt        time.Time       `json:"expires_at"`
}

func NewSession(id string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:          id,
		CurrentStep: 1,
		EmailStatus: EmailIdle,
		FieldErrors: FieldErrors{},
		Phase:       PhaseEditing,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func (s *Session) Position() Position {
	return Position{Role: s.Role, CurrentStep: s.CurrentStep, TotalSteps: TotalSteps(s.Role)}
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Location is the deep link of the wizard for the current role.
func (s *Session) Location() string {
	if !s.Role.Valid() {
		return RegisterPath
	}
	q := url.Values{}
	q.Set("role", string(s.Role))
	return RegisterPath + "?" + q.Encode()
}

func (s *Session) editable() error {
	if s.Phase != PhaseEditing {
		return ErrSessionClosed
	}
	return nil
}

// SelectRole fixes the role and restarts at step 1. Selecting the active role
// again is a no-op. A profile of another role is replaced, together with the
// attachments that only make sense for it.
func (s *Session) SelectRole(role Role) error {
	if err := s.editable(); err != nil {
		return err
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	if s.Role == role {
		return nil
	}
	s.Role = role
	s.CurrentStep = 1
	if s.Draft.Profile == nil || s.Draft.Profile.Role() != role {
		s.Draft.Profile = newProfile(role)
		s.Draft.ResumeFile = nil
		s.Draft.KYCFile = nil
		s.Draft.KYCDocType = ""
		s.Analysis = nil
	}
	s.clearErrors()
	return nil
}

// ChangeRole returns to role selection. Entered values stay in the draft so
// reselecting the same role finds them again.
func (s *Session) ChangeRole() error {
	if err := s.editable(); err != nil {
		return err
	}
	s.Role = RoleUnset
	s.CurrentStep = 1
	s.clearErrors()
	return nil
}

// Retreat moves one step back without validation, never below step 1.
func (s *Session) Retreat() error {
	if err := s.editable(); err != nil {
		return err
	}
	if s.CurrentStep > 1 {
		s.CurrentStep--
	}
	s.clearErrors()
	return nil
}

func (s *Session) forward() {
	total := TotalSteps(s.Role)
	if s.CurrentStep < total {
		s.CurrentStep++
	}
	if s.CurrentStep < 1 {
		s.CurrentStep = 1
	}
}

type IdentityPatch struct {
	Name            *string
	Email           *string
	Password        *string
	ConfirmPassword *string
	Phone           *string
}

// UpdateIdentity applies the account fields. Any change to the email resets
// the availability status so the gate runs again.
func (s *Session) UpdateIdentity(p IdentityPatch) error {
	if err := s.editable(); err != nil {
		return err
	}
	id := &s.Draft.Identity
	assign(&id.Name, p.Name)
	assign(&id.Password, p.Password)
	assign(&id.ConfirmPassword, p.ConfirmPassword)
	assign(&id.Phone, p.Phone)
	if p.Email != nil && *p.Email != id.Email {
		id.Email = *p.Email
		s.EmailStatus = EmailIdle
		delete(s.FieldErrors, "email")
		if s.Focus == "email" {
			s.Focus = ""
		}
	}
	return nil
}

type ProviderPatch struct {
	Bio             *string
	Location        *string
	Website         *string
	HourlyRate      *string
	YearsExperience *string
	LinkedIn        *string
	GitHub          *string
	Skills          *[]string
	Languages       *[]string
	PortfolioURLs   *[]string
	KYCDocType      *string
}

func (s *Session) UpdateProvider(p ProviderPatch) error {
	if err := s.editable(); err != nil {
		return err
	}
	prof := s.Draft.Provider()
	if s.Role != RoleProvider || prof == nil {
		return ErrRoleMismatch
	}
	if p.KYCDocType != nil {
		doc := strings.ToUpper(strings.TrimSpace(*p.KYCDocType))
		if doc != "" && doc != DocPassport && doc != DocIC {
			return ErrInvalidDocType
		}
		s.Draft.KYCDocType = doc
	}
	assign(&prof.Bio, p.Bio)
	assign(&prof.Location, p.Location)
	assign(&prof.Website, p.Website)
	assign(&prof.HourlyRate, p.HourlyRate)
	assign(&prof.YearsExperience, p.YearsExperience)
	assign(&prof.LinkedIn, p.LinkedIn)
	assign(&prof.GitHub, p.GitHub)
	if p.Skills != nil {
		prof.Skills = uniqueTrimmed(*p.Skills)
	}
	if p.Languages != nil {
		prof.Languages = uniqueTrimmed(*p.Languages)
	}
	if p.PortfolioURLs != nil {
		prof.PortfolioURLs = uniqueTrimmed(*p.PortfolioURLs)
	}
	return nil
}

type CustomerPatch struct {
	CompanyName            *string
	Industry               *string
	CompanySize            *string
	Location               *string
	Website                *string
	Description            *string
	EmployeeCount          *string
	EstablishedYear        *string
	AnnualRevenue          *string
	AverageBudget          *string
	FundingStage           *string
	RemotePolicy           *string
	HiringFrequency        *string
	Mission                *string
	PreferredContractTypes *[]string
	CategoriesHiringFor    *[]string
	Values                 *[]string
}

func (s *Session) UpdateCustomer(p CustomerPatch) error {
	if err := s.editable(); err != nil {
		return err
	}
	prof := s.Draft.Customer()
	if s.Role != RoleCustomer || prof == nil {
		return ErrRoleMismatch
	}
	assign(&prof.CompanyName, p.CompanyName)
	assign(&prof.Industry, p.Industry)
	assign(&prof.CompanySize, p.CompanySize)
	assign(&prof.Location, p.Location)
	assign(&prof.Website, p.Website)
	assign(&prof.Description, p.Description)
	assign(&prof.EmployeeCount, p.EmployeeCount)
	assign(&prof.EstablishedYear, p.EstablishedYear)
	assign(&prof.AnnualRevenue, p.AnnualRevenue)
	assign(&prof.AverageBudget, p.AverageBudget)
	assign(&prof.FundingStage, p.FundingStage)
	assign(&prof.RemotePolicy, p.RemotePolicy)
	assign(&prof.HiringFrequency, p.HiringFrequency)
	assign(&prof.Mission, p.Mission)
	if p.PreferredContractTypes != nil {
		prof.PreferredContractTypes = uniqueTrimmed(*p.PreferredContractTypes)
	}
	if p.CategoriesHiringFor != nil {
		prof.CategoriesHiringFor = uniqueTrimmed(*p.CategoriesHiringFor)
	}
	if p.Values != nil {
		prof.Values = uniqueTrimmed(*p.Values)
	}
	return nil
}

// AddCertification appends c when it passes the add guard. Nothing is added
// otherwise; already stored entries are never re-checked.
func (s *Session) AddCertification(c Certification) error {
	if err := s.editable(); err != nil {
		return err
	}
	prof := s.Draft.Provider()
	if s.Role != RoleProvider || prof == nil {
		return ErrRoleMismatch
	}
	if !c.Addable() {
		return ErrCertificationIncomplete
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Issuer = strings.TrimSpace(c.Issuer)
	c.IssuedDate = strings.TrimSpace(c.IssuedDate)
	c.SerialNumber = strings.TrimSpace(c.SerialNumber)
	c.SourceURL = strings.TrimSpace(c.SourceURL)
	c.Verified = false
	prof.Certifications = append(prof.Certifications, c)
	return nil
}

func (s *Session) RemoveCertification(index int) error {
	if err := s.editable(); err != nil {
		return err
	}
	prof := s.Draft.Provider()
	if s.Role != RoleProvider || prof == nil {
		return ErrRoleMismatch
	}
	if index < 0 || index >= len(prof.Certifications) {
		return ErrCertificationNotFound
	}
	prof.Certifications = slices.Delete(slices.Clone(prof.Certifications), index, index+1)
	return nil
}

func (s *Session) AttachResume(a Attachment) error {
	if err := s.editable(); err != nil {
		return err
	}
	if s.Role != RoleProvider {
		return ErrRoleMismatch
	}
	if !a.Present() {
		return ErrEmptyAttachment
	}
	s.Draft.ResumeFile = &a
	s.Analysis = nil
	delete(s.FieldErrors, "resume")
	return nil
}

func (s *Session) AttachKYC(a Attachment) error {
	if err := s.editable(); err != nil {
		return err
	}
	if !s.Role.Valid() {
		return ErrRoleNotSelected
	}
	if !a.Present() {
		return ErrEmptyAttachment
	}
	s.Draft.KYCFile = &a
	delete(s.FieldErrors, "kyc_file")
	return nil
}

// KYCDocType resolves the document tag sent with the KYC upload.
func (s *Session) KYCDocType() string {
	if s.Role == RoleCustomer {
		return DocCompanyRegistration
	}
	return s.Draft.KYCDocType
}

func (s *Session) fail(msg string, fields FieldErrors) {
	s.Error = msg
	if fields != nil {
		s.FieldErrors = fields
	}
}

func (s *Session) setFieldError(field, msg string) {
	if s.FieldErrors == nil {
		s.FieldErrors = FieldErrors{}
	}
	s.FieldErrors[field] = msg
}

func (s *Session) clearErrors() {
	s.Error = ""
	s.FieldErrors = FieldErrors{}
	s.Focus = ""
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func uniqueTrimmed(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func (s *Session) clone() (*Session, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out Session
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
