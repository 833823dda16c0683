package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Submit runs the Create Account sequence: build payload, register, then the
// follow-up uploads KYC, resume and certifications in that order. Only the
// registration call can fail the sequence; follow-up failures are reported
// and listed in the result.
func (c *Controller) Submit(ctx context.Context, s *Session) (*SubmitResult, error) {
	if err := s.editable(); err != nil {
		return nil, err
	}
	if !s.Role.Valid() {
		return nil, ErrRoleNotSelected
	}
	total := TotalSteps(s.Role)
	if s.CurrentStep != total {
		return nil, ErrNotFinalStep
	}
	for n := 1; n <= total; n++ {
		if errs := ValidateStep(s.Role, n, &s.Draft); len(errs) > 0 {
			s.fail(MsgIncompleteStep, errs)
			return nil, fmt.Errorf("%w: step %d", ErrIncompleteDraft, n)
		}
	}

	payload, err := BuildPayload(s.Role, &s.Draft)
	if err != nil {
		var fe *FieldAssemblyError
		if errors.As(err, &fe) {
			s.fail(fe.Error(), nil)
		} else {
			s.fail(MsgRegistrationFailed, nil)
		}
		return nil, err
	}

	s.clearErrors()
	s.Phase = PhaseSubmitting
	c.progress(s, "registering")

	user, err := c.backend.Register(ctx, s.Role, payload)
	if err != nil {
		s.Phase = PhaseEditing
		s.Error = registrationMessage(err)
		c.metrics.Submissions.WithLabelValues(string(s.Role), "failed").Inc()
		c.log.Info("registration rejected", zap.String("session_id", s.ID), zap.String("role", string(s.Role)), zap.Error(err))
		c.progress(s, "failed")
		return nil, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}
	c.metrics.Submissions.WithLabelValues(string(s.Role), "succeeded").Inc()

	result := &SubmitResult{PendingFollowUps: []string{}, RedirectURL: c.loginURL}
	if user != nil && strings.TrimSpace(user.ID) != "" {
		result.UserID = user.ID
		result.PendingFollowUps = c.runFollowUps(ctx, s, user.ID)
	}

	now := c.now()
	result.RedirectAt = now.Add(c.redirectDelay)
	s.Phase = PhaseSucceeded
	s.Result = result
	c.progress(s, "succeeded")
	return result, nil
}

// runFollowUps awaits each upload before starting the next one. A failure is
// logged and reported, never returned.
func (c *Controller) runFollowUps(ctx context.Context, s *Session, userID string) []string {
	failed := []string{}
	d := &s.Draft

	if d.KYCFile.Present() {
		c.progress(s, "uploading_kyc")
		err := c.backend.UploadKYC(ctx, KYCUpload{
			Role:     s.Role,
			UserID:   userID,
			DocType:  s.KYCDocType(),
			Document: *d.KYCFile,
		})
		if err != nil {
			failed = append(failed, c.followUpFailed(ctx, s, userID, FollowUpKYC, err))
		}
	}

	if s.Role != RoleProvider {
		return failed
	}

	if d.ResumeFile.Present() {
		c.progress(s, "uploading_resume")
		if err := c.backend.UploadResume(ctx, userID, *d.ResumeFile); err != nil {
			failed = append(failed, c.followUpFailed(ctx, s, userID, FollowUpResume, err))
		}
	}

	if prof := d.Provider(); prof != nil && len(prof.Certifications) > 0 {
		c.progress(s, "uploading_certifications")
		if err := c.backend.UploadCertifications(ctx, userID, prof.Certifications); err != nil {
			failed = append(failed, c.followUpFailed(ctx, s, userID, FollowUpCertifications, err))
		}
	}
	return failed
}

func (c *Controller) followUpFailed(ctx context.Context, s *Session, userID, kind string, cause error) string {
	c.log.Warn("follow-up upload failed",
		zap.String("session_id", s.ID),
		zap.String("user_id", userID),
		zap.String("kind", kind),
		zap.Error(cause),
	)
	c.metrics.FollowUpFailures.WithLabelValues(kind).Inc()
	if c.reporter != nil {
		f := FollowUpFailure{
			SessionID:  s.ID,
			UserID:     userID,
			Role:       s.Role,
			Kind:       kind,
			Reason:     cause.Error(),
			OccurredAt: c.now(),
		}
		if err := c.reporter.ReportFollowUpFailure(ctx, f); err != nil {
			c.log.Error("report follow-up failure", zap.String("user_id", userID), zap.String("kind", kind), zap.Error(err))
		}
	}
	return kind
}

func (c *Controller) progress(s *Session, stage string) {
	c.publish(s.ID, EventSubmissionProgress, map[string]any{"stage": stage, "phase": s.Phase})
}

func registrationMessage(err error) string {
	var sm ServerMessage
	if errors.As(err, &sm) {
		if msg := strings.TrimSpace(sm.ServerMessage()); msg != "" {
			return msg
		}
	}
	return MsgRegistrationFailed
}
