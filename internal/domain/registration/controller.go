package registration

import (
	"context"
	"time"

	"techconnect/internal/pkg/metrics"

	"go.uber.org/zap"
)

type AdvanceOutcome string

const (
	OutcomeAdvanced        AdvanceOutcome = "advanced"
	OutcomeAtLastStep      AdvanceOutcome = "at_last_step"
	OutcomeInvalid         AdvanceOutcome = "invalid"
	OutcomeEmailTaken      AdvanceOutcome = "email_taken"
	OutcomeEmailUnverified AdvanceOutcome = "email_unverified"
)

type ControllerConfig struct {
	LoginURL      string
	RedirectDelay time.Duration
}

// Controller drives navigation and the terminal submission of a session. It
// holds no per-session state; callers serialize access to each Session.
type Controller struct {
	backend       Backend
	email         *EmailCheck
	reporter      FollowUpReporter
	events        EventPublisher
	metrics       *metrics.Metrics
	log           *zap.Logger
	loginURL      string
	redirectDelay time.Duration
	now           func() time.Time
}

func NewController(
	backend Backend,
	reporter FollowUpReporter,
	events EventPublisher,
	m *metrics.Metrics,
	log *zap.Logger,
	cfg ControllerConfig,
) *Controller {
	if m == nil {
		m = metrics.Nop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	loginURL := cfg.LoginURL
	if loginURL == "" {
		loginURL = "/login"
	}
	return &Controller{
		backend:       backend,
		email:         NewEmailCheck(backend, events, m, log),
		reporter:      reporter,
		events:        events,
		metrics:       m,
		log:           log,
		loginURL:      loginURL,
		redirectDelay: cfg.RedirectDelay,
		now:           time.Now,
	}
}

func (c *Controller) EmailCheck() *EmailCheck { return c.email }

// Advance is the Next action. Local validation runs first; on step 1 the
// email must then be confirmed free before the step moves.
func (c *Controller) Advance(ctx context.Context, s *Session) (AdvanceOutcome, error) {
	if err := s.editable(); err != nil {
		return "", err
	}
	if !s.Role.Valid() {
		return "", ErrRoleNotSelected
	}

	if errs := ValidateStep(s.Role, s.CurrentStep, &s.Draft); len(errs) > 0 {
		s.fail(MsgIncompleteStep, errs)
		return c.record(s, OutcomeInvalid), nil
	}

	if s.CurrentStep == 1 {
		s.Error = ""
		switch c.email.Check(ctx, s) {
		case AvailabilityUnknown:
			s.Error = MsgEmailCheckFailed
			return c.record(s, OutcomeEmailUnverified), nil
		case AvailabilityTaken:
			s.Error = MsgEmailTaken
			s.Focus = "email"
			return c.record(s, OutcomeEmailTaken), nil
		}
	}

	before := s.CurrentStep
	s.clearErrors()
	s.forward()
	if s.CurrentStep == before {
		return c.record(s, OutcomeAtLastStep), nil
	}
	c.publish(s.ID, EventStepChanged, s.Position())
	return c.record(s, OutcomeAdvanced), nil
}

// Retreat is the Previous action.
func (c *Controller) Retreat(s *Session) error {
	before := s.CurrentStep
	if err := s.Retreat(); err != nil {
		return err
	}
	if s.CurrentStep != before {
		c.publish(s.ID, EventStepChanged, s.Position())
	}
	return nil
}

func (c *Controller) record(s *Session, outcome AdvanceOutcome) AdvanceOutcome {
	c.metrics.AdvanceAttempts.WithLabelValues(string(s.Role), string(outcome)).Inc()
	return outcome
}

func (c *Controller) publish(sessionID, eventType string, payload any) {
	if c.events == nil {
		return
	}
	c.events.Publish(sessionID, eventType, payload)
}
