package admin

import (
	"context"

	"techconnect/internal/backend"
)

// Backend is the admin surface of the TechConnect API.
type Backend interface {
	ListKYC(ctx context.Context) ([]backend.KYCDocument, error)
	ReviewKYC(ctx context.Context, id string, review backend.KYCReview) error
	ListDisputes(ctx context.Context) ([]backend.Dispute, error)
	GetDispute(ctx context.Context, id string) (*backend.Dispute, error)
	UpdateDispute(ctx context.Context, id string, update backend.DisputeUpdate) (*backend.Dispute, error)
	ListProjects(ctx context.Context) ([]backend.Project, error)
	ListUsers(ctx context.Context) ([]backend.User, error)
}
