package registration

import (
	"context"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// BeginAnalysis marks the resume as being processed and returns it. The
// caller runs the backend call without holding the session.
func (s *Session) BeginAnalysis() (*Attachment, error) {
	if err := s.editable(); err != nil {
		return nil, err
	}
	if s.Role != RoleProvider {
		return nil, ErrRoleMismatch
	}
	if !s.Draft.ResumeFile.Present() {
		return nil, ErrResumeRequired
	}
	if s.ProcessingResume {
		return nil, ErrAnalysisInProgress
	}
	s.ProcessingResume = true
	return s.Draft.ResumeFile, nil
}

// FinishAnalysis stores the outcome as a pending suggestion. Results for a
// resume that has since been replaced are dropped.
func (s *Session) FinishAnalysis(resume *Attachment, a *ResumeAnalysis, err error) {
	s.ProcessingResume = false
	if s.Phase != PhaseEditing || s.Draft.ResumeFile != resume {
		return
	}
	if err != nil {
		s.Error = MsgAnalysisFailed
		return
	}
	s.Analysis = a
}

// ApplyAnalysis copies the pending suggestion into the provider draft.
// Lists are merged, certifications go through the add guard.
func (s *Session) ApplyAnalysis() error {
	if err := s.editable(); err != nil {
		return err
	}
	prof := s.Draft.Provider()
	if s.Role != RoleProvider || prof == nil {
		return ErrRoleMismatch
	}
	a := s.Analysis
	if a == nil {
		return ErrNoAnalysis
	}

	if bio := strings.TrimSpace(a.Bio); bio != "" {
		prof.Bio = bio
	}
	prof.Skills = uniqueTrimmed(append(append([]string{}, prof.Skills...), a.Skills...))
	prof.Languages = uniqueTrimmed(append(append([]string{}, prof.Languages...), a.Languages...))
	if a.YearsExperience != nil {
		prof.YearsExperience = strconv.Itoa(int(math.Round(*a.YearsExperience)))
	}
	if a.SuggestedHourlyRate != nil {
		prof.HourlyRate = strconv.FormatFloat(*a.SuggestedHourlyRate, 'f', -1, 64)
	}

	known := make(map[string]bool, len(prof.Certifications))
	for _, c := range prof.Certifications {
		known[certKey(c)] = true
	}
	for _, c := range a.Certifications {
		if !c.Addable() || known[certKey(c)] {
			continue
		}
		known[certKey(c)] = true
		c.Verified = false
		prof.Certifications = append(prof.Certifications, c)
	}

	s.Analysis = nil
	delete(s.FieldErrors, "bio")
	return nil
}

func certKey(c Certification) string {
	return strings.ToLower(strings.TrimSpace(c.Name)) + "|" + strings.ToLower(strings.TrimSpace(c.Issuer))
}

// AnalyzeResume asks the backend to extract profile fields from a resume.
func (c *Controller) AnalyzeResume(ctx context.Context, sessionID string, resume Attachment) (*ResumeAnalysis, error) {
	a, err := c.backend.AnalyzeResume(ctx, resume)
	if err != nil {
		c.log.Warn("resume analysis failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return a, nil
}
