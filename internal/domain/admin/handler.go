package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"techconnect/internal/backend"
	"techconnect/internal/pkg/response"
	"techconnect/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetKYCQueue lists KYC documents with queue statistics.
// @Summary		KYC queue
// @Tags		Admin
// @Security	AdminToken
// @Param		status	query	string	false	"PENDING | APPROVED | REJECTED | ALL"
// @Param		q		query	string	false	"name, email or document type"
// @Param		latest	query	bool	false	"latest document per user only"
// @Success		200	{object}	map[string]interface{}
// @Failure		502	{object}	map[string]interface{}
// @Router		/admin/kyc [GET]
func (h *Handler) GetKYCQueue(c *gin.Context) {
	latest, _ := strconv.ParseBool(c.Query("latest"))
	q, err := h.service.KYCQueue(c.Request.Context(), KYCFilter{
		Status:     c.Query("status"),
		Search:     c.Query("q"),
		LatestOnly: latest,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, q)
}

// @Summary		Review KYC document
// @Tags		Admin
// @Security	AdminToken
// @Param		id		path	string				true	"document id"
// @Param		request	body	ReviewKYCRequest	true	"decision"
// @Router		/admin/kyc/{id}/review [POST]
func (h *Handler) ReviewKYC(c *gin.Context) {
	var req ReviewKYCRequest
	if !bind(c, &req) {
		return
	}
	if err := h.service.ReviewKYC(c.Request.Context(), c.Param("id"), req.Status, req.Notes); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Review recorded"})
}

// @Summary		List disputes
// @Tags		Admin
// @Security	AdminToken
// @Param		status	query	string	false	"OPEN | INVESTIGATING | RESOLVED | CLOSED | ALL"
// @Router		/admin/disputes [GET]
func (h *Handler) ListDisputes(c *gin.Context) {
	list, err := h.service.Disputes(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"disputes": list, "count": len(list)})
}

// @Summary		Get dispute with its update trail
// @Tags		Admin
// @Security	AdminToken
// @Router		/admin/disputes/{id} [GET]
func (h *Handler) GetDispute(c *gin.Context) {
	d, err := h.service.Dispute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

// UpdateDispute changes status or resolution and may append a trail note.
// @Summary		Update dispute
// @Tags		Admin
// @Security	AdminToken
// @Param		request	body	UpdateDisputeRequest	true	"changes"
// @Router		/admin/disputes/{id} [PATCH]
func (h *Handler) UpdateDispute(c *gin.Context) {
	var req UpdateDisputeRequest
	if !bind(c, &req) {
		return
	}
	d, err := h.service.UpdateDispute(c.Request.Context(), c.Param("id"), req.Change())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

// @Summary		Platform overview
// @Tags		Admin
// @Security	AdminToken
// @Router		/admin/overview [GET]
func (h *Handler) GetOverview(c *gin.Context) {
	o, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) fail(c *gin.Context, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, ErrInvalidReviewStatus),
		errors.Is(err, ErrInvalidDisputeStatus),
		errors.Is(err, ErrEmptyUpdate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case backend.IsStatus(err, http.StatusNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.As(err, &apiErr):
		msg := apiErr.ServerMessage()
		if msg == "" {
			msg = "Backend rejected the request"
		}
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", msg)
	case errors.Is(err, backend.ErrUnreachable), errors.Is(err, backend.ErrMalformedResponse):
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, "BACKEND_UNAVAILABLE", "Backend is not reachable")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return false
	}
	return true
}
