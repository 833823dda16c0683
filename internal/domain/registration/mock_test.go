package registration

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

/* ==================== MOCKS ==================== */

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) CheckEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) Register(ctx context.Context, role Role, payload RegistrationPayload) (*RegisteredUser, error) {
	args := m.Called(ctx, role, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RegisteredUser), args.Error(1)
}

func (m *MockBackend) UploadKYC(ctx context.Context, upload KYCUpload) error {
	return m.Called(ctx, upload).Error(0)
}

func (m *MockBackend) UploadResume(ctx context.Context, userID string, resume Attachment) error {
	return m.Called(ctx, userID, resume).Error(0)
}

func (m *MockBackend) UploadCertifications(ctx context.Context, userID string, certs []Certification) error {
	return m.Called(ctx, userID, certs).Error(0)
}

func (m *MockBackend) AnalyzeResume(ctx context.Context, resume Attachment) (*ResumeAnalysis, error) {
	args := m.Called(ctx, resume)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ResumeAnalysis), args.Error(1)
}

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) ReportFollowUpFailure(ctx context.Context, f FollowUpFailure) error {
	return m.Called(ctx, f).Error(0)
}

/* ==================== FAKES ==================== */

type publishedEvent struct {
	SessionID string
	Type      string
	Payload   any
}

type recordingEvents struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (r *recordingEvents) Publish(sessionID, eventType string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{SessionID: sessionID, Type: eventType, Payload: payload})
}

func (r *recordingEvents) ofType(eventType string) []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []publishedEvent
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type staticTokens struct{}

func (staticTokens) GenerateToken(sessionID string) (string, error) {
	return "token-" + sessionID, nil
}
