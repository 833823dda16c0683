package registration

import (
	"slices"
	"time"
)

type StepView struct {
	Number   int    `json:"number"`
	Key      string `json:"key"`
	Title    string `json:"title"`
	Complete bool   `json:"complete"`
}

type IdentityView struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	PasswordSet    bool            `json:"password_set"`
	PasswordIssues []PasswordIssue `json:"password_issues"`
	PasswordsMatch bool            `json:"passwords_match"`
}

type AttachmentView struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// View is what clients see of a session. Passwords and file contents never
// leave the server.
type View struct {
	ID               string                `json:"id"`
	Role             Role                  `json:"role"`
	CurrentStep      int                   `json:"current_step"`
	TotalSteps       int                   `json:"total_steps"`
	Steps            []StepView            `json:"steps"`
	Location         string                `json:"location"`
	Identity         IdentityView          `json:"identity"`
	Provider         *ProviderProfileDraft `json:"provider,omitempty"`
	Customer         *CustomerProfileDraft `json:"customer,omitempty"`
	Resume           *AttachmentView       `json:"resume,omitempty"`
	KYC              *AttachmentView       `json:"kyc,omitempty"`
	KYCDocType       string                `json:"kyc_doc_type,omitempty"`
	EmailStatus      EmailStatus           `json:"email_status"`
	CanAdvance       bool                  `json:"can_advance"`
	Error            string                `json:"error,omitempty"`
	FieldErrors      FieldErrors           `json:"field_errors"`
	Focus            string                `json:"focus,omitempty"`
	Warnings         []string              `json:"warnings"`
	Phase            Phase                 `json:"phase"`
	ProcessingResume bool                  `json:"processing_resume"`
	Analysis         *ResumeAnalysis       `json:"analysis,omitempty"`
	Result           *SubmitResult         `json:"result,omitempty"`
	ExpiresAt        time.Time             `json:"expires_at"`
}

func (s *Session) View() *View {
	id := s.Draft.Identity
	v := &View{
		ID:          s.ID,
		Role:        s.Role,
		CurrentStep: s.CurrentStep,
		TotalSteps:  TotalSteps(s.Role),
		Steps:       []StepView{},
		Location:    s.Location(),
		Identity: IdentityView{
			Name:           id.Name,
			Email:          id.Email,
			Phone:          id.Phone,
			PasswordSet:    id.Password != "",
			PasswordIssues: PasswordIssues(id.Password),
			PasswordsMatch: id.Password != "" && id.Password == id.ConfirmPassword,
		},
		Resume:           attachmentView(s.Draft.ResumeFile),
		KYC:              attachmentView(s.Draft.KYCFile),
		KYCDocType:       s.KYCDocType(),
		EmailStatus:      s.EmailStatus,
		CanAdvance:       s.Phase == PhaseEditing && s.EmailStatus != EmailChecking && s.Role.Valid(),
		Error:            s.Error,
		FieldErrors:      FieldErrors{},
		Focus:            s.Focus,
		Warnings:         []string{},
		Phase:            s.Phase,
		ProcessingResume: s.ProcessingResume,
		Analysis:         s.Analysis,
		Result:           s.Result,
		ExpiresAt:        s.ExpiresAt,
	}
	if v.Identity.PasswordIssues == nil {
		v.Identity.PasswordIssues = []PasswordIssue{}
	}
	for k, msg := range s.FieldErrors {
		v.FieldErrors[k] = msg
	}

	if p := s.Draft.Provider(); p != nil && s.Role == RoleProvider {
		cp := *p
		cp.Skills = slices.Clone(p.Skills)
		cp.Languages = slices.Clone(p.Languages)
		cp.PortfolioURLs = slices.Clone(p.PortfolioURLs)
		cp.Certifications = slices.Clone(p.Certifications)
		v.Provider = &cp
	}
	if c := s.Draft.Customer(); c != nil && s.Role == RoleCustomer {
		cp := *c
		cp.PreferredContractTypes = slices.Clone(c.PreferredContractTypes)
		cp.CategoriesHiringFor = slices.Clone(c.CategoriesHiringFor)
		cp.Values = slices.Clone(c.Values)
		v.Customer = &cp
	}

	for _, def := range Steps(s.Role) {
		v.Steps = append(v.Steps, StepView{
			Number:   def.Number,
			Key:      def.Key,
			Title:    def.Title,
			Complete: IsStepComplete(s.Role, def.Number, &s.Draft),
		})
	}
	if gaps := AdvisoryGaps(s.Role, s.CurrentStep, &s.Draft); len(gaps) > 0 {
		v.Warnings = gaps
	}
	return v
}

func attachmentView(a *Attachment) *AttachmentView {
	if !a.Present() {
		return nil
	}
	return &AttachmentView{FileName: a.FileName, ContentType: a.ContentType, Size: len(a.Data)}
}
