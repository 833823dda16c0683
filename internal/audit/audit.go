// Package audit records non-terminal follow-up failures of a registration
// so operators can finish the uploads by hand.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"techconnect/internal/domain/registration"
)

// Record is the wire shape of a follow-up failure.
type Record struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	Kind       string    `json:"kind"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

func recordOf(f registration.FollowUpFailure) Record {
	return Record{
		SessionID:  f.SessionID,
		UserID:     f.UserID,
		Role:       string(f.Role),
		Kind:       f.Kind,
		Reason:     f.Reason,
		OccurredAt: f.OccurredAt.UTC(),
	}
}

// Publisher is a registration.FollowUpReporter that can be shut down.
type Publisher interface {
	registration.FollowUpReporter
	Close() error
}

// LogPublisher writes failures to the structured log only.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogPublisher{log: log.Named("audit")}
}

func (p *LogPublisher) ReportFollowUpFailure(_ context.Context, f registration.FollowUpFailure) error {
	r := recordOf(f)
	p.log.Warn("follow-up failed",
		zap.String("session_id", r.SessionID),
		zap.String("user_id", r.UserID),
		zap.String("role", r.Role),
		zap.String("kind", r.Kind),
		zap.String("reason", r.Reason),
		zap.Time("occurred_at", r.OccurredAt),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
