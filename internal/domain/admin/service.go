package admin

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"techconnect/internal/backend"
)

// Service serves the admin console read models on top of the backend.
type Service struct {
	backend Backend
	log     *zap.Logger
	now     func() time.Time
}

func NewService(b Backend, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{backend: b, log: log, now: time.Now}
}

type KYCQueue struct {
	Stats     KYCStats `json:"stats"`
	Documents []KYCRow `json:"documents"`
}

// KYCQueue returns the filtered document list. Stats always cover the full
// queue so the counters do not move with the filter.
func (s *Service) KYCQueue(ctx context.Context, f KYCFilter) (*KYCQueue, error) {
	docs, err := s.backend.ListKYC(ctx)
	if err != nil {
		return nil, err
	}
	q := &KYCQueue{Stats: SummarizeKYC(docs)}
	filtered := FilterKYC(docs, f)
	q.Documents = make([]KYCRow, 0, len(filtered))
	for _, d := range filtered {
		q.Documents = append(q.Documents, kycRow(d))
	}
	return q, nil
}

func (s *Service) ReviewKYC(ctx context.Context, id, status, notes string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != KYCApproved && status != KYCRejected {
		return ErrInvalidReviewStatus
	}
	if err := s.backend.ReviewKYC(ctx, id, backend.KYCReview{Status: status, Notes: strings.TrimSpace(notes)}); err != nil {
		return err
	}
	s.log.Info("kyc reviewed", zap.String("document_id", id), zap.String("status", status))
	return nil
}

func (s *Service) Disputes(ctx context.Context, status string) ([]DisputeView, error) {
	list, err := s.backend.ListDisputes(ctx)
	if err != nil {
		return nil, err
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	out := make([]DisputeView, 0, len(list))
	for _, d := range list {
		if status != "" && status != "ALL" && strings.ToUpper(d.Status) != status {
			continue
		}
		out = append(out, disputeView(d))
	}
	return out, nil
}

func (s *Service) Dispute(ctx context.Context, id string) (*DisputeView, error) {
	d, err := s.backend.GetDispute(ctx, id)
	if err != nil {
		return nil, err
	}
	v := disputeView(*d)
	return &v, nil
}

// DisputeChange is an admin edit of a dispute. Note, when set, is appended to
// the description as a new trail entry signed by Author.
type DisputeChange struct {
	Status     *string
	Resolution *string
	Note       string
	Author     string
}

func (s *Service) UpdateDispute(ctx context.Context, id string, ch DisputeChange) (*DisputeView, error) {
	var upd backend.DisputeUpdate
	if ch.Status != nil {
		st := strings.ToUpper(strings.TrimSpace(*ch.Status))
		if !validDisputeStatus(st) {
			return nil, ErrInvalidDisputeStatus
		}
		upd.Status = &st
	}
	upd.Resolution = ch.Resolution
	if strings.TrimSpace(ch.Note) != "" {
		current, err := s.backend.GetDispute(ctx, id)
		if err != nil {
			return nil, err
		}
		desc, err := AppendUpdate(current.Description, ch.Author, s.now(), ch.Note)
		if err != nil {
			return nil, err
		}
		upd.Description = &desc
	}
	if upd.Status == nil && upd.Resolution == nil && upd.Description == nil {
		return nil, ErrEmptyUpdate
	}

	d, err := s.backend.UpdateDispute(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info("dispute updated", zap.String("dispute_id", id), zap.Bool("note", upd.Description != nil))
	v := disputeView(*d)
	return &v, nil
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	return FetchOverview(ctx, s.backend)
}
