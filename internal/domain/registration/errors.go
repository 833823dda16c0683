package registration

import "errors"

var (
	ErrInvalidRole             = errors.New("role must be provider or customer")
	ErrRoleNotSelected         = errors.New("select a role first")
	ErrRoleMismatch            = errors.New("fields do not belong to the selected role")
	ErrSessionNotFound         = errors.New("registration session not found")
	ErrSessionExpired          = errors.New("registration session expired")
	ErrSessionExists           = errors.New("registration session already exists")
	ErrSessionBusy             = errors.New("registration session is busy")
	ErrSessionClosed           = errors.New("registration session is no longer editable")
	ErrCertificationIncomplete = errors.New("certification needs name, issuer, issued date and a serial number or verification URL")
	ErrCertificationNotFound   = errors.New("certification not found")
	ErrInvalidDocType          = errors.New("KYC document type must be PASSPORT or IC")
	ErrEmptyAttachment         = errors.New("attachment is empty")
	ErrResumeRequired          = errors.New("attach a resume first")
	ErrNoAnalysis              = errors.New("no resume analysis to apply")
	ErrAnalysisInProgress      = errors.New("resume analysis already in progress")
	ErrNotFinalStep            = errors.New("submission is only possible from the final step")
	ErrIncompleteDraft         = errors.New("registration draft is incomplete")
	ErrPayloadAssembly         = errors.New("registration payload could not be assembled")
	ErrRegistrationFailed      = errors.New("account creation failed")
)

// Messages shown to the person filling the wizard.
const (
	MsgIncompleteStep     = "Please complete all required fields before continuing."
	MsgEmailTaken         = "This email is already registered. Please use a different email."
	MsgEmailCheckFailed   = "Could not verify email right now. Please try again."
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgAnalysisFailed     = "Could not analyze the resume right now. You can fill the fields manually."
)

// ServerMessage is implemented by backend errors that carry a message meant
// for the end user.
type ServerMessage interface {
	ServerMessage() string
}

// FieldAssemblyError reports a draft value that cannot be converted into the
// registration payload.
type FieldAssemblyError struct {
	Field string
	Value string
}

func (e *FieldAssemblyError) Error() string {
	return e.Field + " must be a valid number"
}

func (e *FieldAssemblyError) Unwrap() error { return ErrPayloadAssembly }
