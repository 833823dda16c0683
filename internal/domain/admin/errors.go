package admin

import "errors"

var (
	ErrInvalidReviewStatus  = errors.New("review status must be APPROVED or REJECTED")
	ErrEmptyUpdate          = errors.New("update text is required")
	ErrInvalidDisputeStatus = errors.New("unknown dispute status")
)
