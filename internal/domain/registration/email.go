package registration

import (
	"context"
	"strings"

	"techconnect/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Availability is the tri-state answer of the email gate. Unknown must never
// be read as "taken".
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityTaken
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityTaken:
		return "taken"
	}
	return "unknown"
}

// EmailCheck runs the availability round trip and records its outcome on the
// session.
type EmailCheck struct {
	backend  Backend
	events   EventPublisher
	metrics  *metrics.Metrics
	log      *zap.Logger
	checking func(*Session)
}

func NewEmailCheck(backend Backend, events EventPublisher, m *metrics.Metrics, log *zap.Logger) *EmailCheck {
	if m == nil {
		m = metrics.Nop()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EmailCheck{backend: backend, events: events, metrics: m, log: log}
}

// OnChecking registers a hook called once the status flips to checking and
// before the backend is asked.
func (e *EmailCheck) OnChecking(fn func(*Session)) {
	e.checking = fn
}

// Check asks the backend about the session's current email. Each call
// overwrites whatever status the previous one left.
func (e *EmailCheck) Check(ctx context.Context, s *Session) Availability {
	email := strings.TrimSpace(s.Draft.Identity.Email)

	s.EmailStatus = EmailChecking
	e.publish(s)
	if e.checking != nil {
		e.checking(s)
	}

	available, err := e.backend.CheckEmail(ctx, email)
	switch {
	case err != nil:
		e.log.Warn("email availability check failed", zap.String("session_id", s.ID), zap.Error(err))
		s.EmailStatus = EmailIdle
		s.setFieldError("email", MsgEmailCheckFailed)
		e.metrics.EmailChecks.WithLabelValues(AvailabilityUnknown.String()).Inc()
		e.publish(s)
		return AvailabilityUnknown
	case available:
		s.EmailStatus = EmailAvailable
		delete(s.FieldErrors, "email")
		e.metrics.EmailChecks.WithLabelValues(AvailabilityAvailable.String()).Inc()
		e.publish(s)
		return AvailabilityAvailable
	default:
		s.EmailStatus = EmailUsed
		s.setFieldError("email", MsgEmailTaken)
		e.metrics.EmailChecks.WithLabelValues(AvailabilityTaken.String()).Inc()
		e.publish(s)
		return AvailabilityTaken
	}
}

func (e *EmailCheck) publish(s *Session) {
	if e.events == nil {
		return
	}
	e.events.Publish(s.ID, EventEmailStatus, map[string]any{"status": s.EmailStatus})
}
