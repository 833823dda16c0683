package admin

type ReviewKYCRequest struct {
	Status string `json:"status" binding:"required" validate:"oneof=APPROVED REJECTED approved rejected"`
	Notes  string `json:"notes" validate:"max=2000"`
}

type UpdateDisputeRequest struct {
	Status     *string `json:"status" validate:"omitempty,max=32"`
	Resolution *string `json:"resolution" validate:"omitempty,max=4000"`
	Note       string  `json:"note" validate:"max=4000"`
	Author     string  `json:"author" validate:"max=120"`
}

func (r UpdateDisputeRequest) Change() DisputeChange {
	return DisputeChange{Status: r.Status, Resolution: r.Resolution, Note: r.Note, Author: r.Author}
}
