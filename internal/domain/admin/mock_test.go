package admin

import (
	"context"

	"github.com/stretchr/testify/mock"

	"techconnect/internal/backend"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListKYC(ctx context.Context) ([]backend.KYCDocument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backend.KYCDocument), args.Error(1)
}

func (m *MockBackend) ReviewKYC(ctx context.Context, id string, review backend.KYCReview) error {
	return m.Called(ctx, id, review).Error(0)
}

func (m *MockBackend) ListDisputes(ctx context.Context) ([]backend.Dispute, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backend.Dispute), args.Error(1)
}

func (m *MockBackend) GetDispute(ctx context.Context, id string) (*backend.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Dispute), args.Error(1)
}

func (m *MockBackend) UpdateDispute(ctx context.Context, id string, update backend.DisputeUpdate) (*backend.Dispute, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Dispute), args.Error(1)
}

func (m *MockBackend) ListProjects(ctx context.Context) ([]backend.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backend.Project), args.Error(1)
}

func (m *MockBackend) ListUsers(ctx context.Context) ([]backend.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backend.User), args.Error(1)
}
