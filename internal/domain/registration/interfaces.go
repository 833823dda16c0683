package registration

import (
	"context"
	"time"
)

// Backend is the part of the TechConnect REST API the wizard talks to.
type Backend interface {
	// CheckEmail reports whether email is still free. Any error means the
	// answer is unknown, never that the address is taken.
	CheckEmail(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, role Role, payload RegistrationPayload) (*RegisteredUser, error)
	UploadKYC(ctx context.Context, upload KYCUpload) error
	UploadResume(ctx context.Context, userID string, resume Attachment) error
	UploadCertifications(ctx context.Context, userID string, certs []Certification) error
	AnalyzeResume(ctx context.Context, resume Attachment) (*ResumeAnalysis, error)
}

// FollowUpReporter receives uploads that failed after the account was created.
type FollowUpReporter interface {
	ReportFollowUpFailure(ctx context.Context, f FollowUpFailure) error
}

// EventPublisher pushes session events to connected clients.
type EventPublisher interface {
	Publish(sessionID, eventType string, payload any)
}

// Store persists sessions between requests.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type TokenIssuer interface {
	GenerateToken(sessionID string) (string, error)
}

// Session event types.
const (
	EventEmailStatus        = "email_status"
	EventStepChanged        = "step_changed"
	EventSubmissionProgress = "submission_progress"
	EventRedirect           = "redirect"
)

type RegisteredUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

type KYCUpload struct {
	Role     Role
	UserID   string
	DocType  string
	Document Attachment
}

// Follow-up kinds, in the order they are attempted.
const (
	FollowUpKYC            = "kyc"
	FollowUpResume         = "resume"
	FollowUpCertifications = "certifications"
)

type FollowUpFailure struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	Role       Role      `json:"role"`
	Kind       string    `json:"kind"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ResumeAnalysis is what the backend extracted from an uploaded resume.
type ResumeAnalysis struct {
	Bio                 string          `json:"bio"`
	Skills              []string        `json:"skills"`
	Languages           []string        `json:"languages"`
	YearsExperience     *float64        `json:"yearsExperience"`
	SuggestedHourlyRate *float64        `json:"suggestedHourlyRate"`
	Certifications      []Certification `json:"certifications"`
}

type SubmitResult struct {
	UserID           string    `json:"user_id"`
	PendingFollowUps []string  `json:"pending_follow_ups"`
	RedirectURL      string    `json:"redirect_url"`
	RedirectAt       time.Time `json:"redirect_at"`
}
