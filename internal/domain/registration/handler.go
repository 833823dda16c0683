package registration

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"techconnect/internal/pkg/response"
	"techconnect/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20

// Handler exposes the registration wizard over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// StartSession opens a new registration session.
// @Summary		Start registration
// @Description	Creates a registration session and returns its token. The optional role query parameter preselects provider or customer.
// @Tags		Registration
// @Param		role	query	string	false	"provider | customer"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/registration/sessions [POST]
func (h *Handler) StartSession(c *gin.Context) {
	view, token, err := h.service.Start(c.Request.Context(), c.Query("role"))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Success(c, http.StatusCreated, StartResponse{Token: token, Session: view})
}

// GetSession returns the current state of the wizard.
// @Summary		Get registration session
// @Tags		Registration
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/registration/session [GET]
func (h *Handler) GetSession(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// SelectRole chooses provider or customer and restarts at step 1.
// @Summary		Select role
// @Tags		Registration
// @Param		request	body	SelectRoleRequest	true	"role"
// @Router		/registration/session/role [PUT]
func (h *Handler) SelectRole(c *gin.Context) {
	var req SelectRoleRequest
	if !bind(c, &req) {
		return
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	h.respond(c)(h.service.SelectRole(c.Request.Context(), sessionID(c), role))
}

// ChangeRole goes back to role selection.
// @Summary		Change role
// @Tags		Registration
// @Router		/registration/session/role [DELETE]
func (h *Handler) ChangeRole(c *gin.Context) {
	h.respond(c)(h.service.ChangeRole(c.Request.Context(), sessionID(c)))
}

// UpdateIdentity patches the account fields of step 1.
// @Summary		Update account fields
// @Tags		Registration
// @Param		request	body	UpdateIdentityRequest	true	"fields to change"
// @Router		/registration/session/identity [PATCH]
func (h *Handler) UpdateIdentity(c *gin.Context) {
	var req UpdateIdentityRequest
	if !bind(c, &req) {
		return
	}
	h.respond(c)(h.service.UpdateIdentity(c.Request.Context(), sessionID(c), req.Patch()))
}

// UpdateProvider patches provider profile fields.
// @Summary		Update provider profile
// @Tags		Registration
// @Param		request	body	UpdateProviderRequest	true	"fields to change"
// @Router		/registration/session/provider [PATCH]
func (h *Handler) UpdateProvider(c *gin.Context) {
	var req UpdateProviderRequest
	if !bind(c, &req) {
		return
	}
	h.respond(c)(h.service.UpdateProvider(c.Request.Context(), sessionID(c), req.Patch()))
}

// UpdateCustomer patches company profile fields.
// @Summary		Update company profile
// @Tags		Registration
// @Param		request	body	UpdateCustomerRequest	true	"fields to change"
// @Router		/registration/session/customer [PATCH]
func (h *Handler) UpdateCustomer(c *gin.Context) {
	var req UpdateCustomerRequest
	if !bind(c, &req) {
		return
	}
	h.respond(c)(h.service.UpdateCustomer(c.Request.Context(), sessionID(c), req.Patch()))
}

// AddCertification adds a certification that can be verified by serial
// number or URL.
// @Summary		Add certification
// @Tags		Registration
// @Param		request	body	AddCertificationRequest	true	"certification"
// @Failure		400	{object}	map[string]interface{} "Missing name, issuer, date or verification"
// @Router		/registration/session/certifications [POST]
func (h *Handler) AddCertification(c *gin.Context) {
	var req AddCertificationRequest
	if !bind(c, &req) {
		return
	}
	h.respond(c)(h.service.AddCertification(c.Request.Context(), sessionID(c), req.Certification()))
}

// @Summary		Remove certification
// @Tags		Registration
// @Router		/registration/session/certifications/{index} [DELETE]
func (h *Handler) RemoveCertification(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid certification index")
		return
	}
	h.respond(c)(h.service.RemoveCertification(c.Request.Context(), sessionID(c), index))
}

// AttachResume stores the resume file (multipart field "resume").
// @Summary		Attach resume
// @Tags		Registration
// @Router		/registration/session/resume [PUT]
func (h *Handler) AttachResume(c *gin.Context) {
	a, ok := readAttachment(c, "resume")
	if !ok {
		return
	}
	h.respond(c)(h.service.AttachResume(c.Request.Context(), sessionID(c), a))
}

// AttachKYC stores the identity or company document (multipart field
// "document").
// @Summary		Attach KYC document
// @Tags		Registration
// @Router		/registration/session/kyc [PUT]
func (h *Handler) AttachKYC(c *gin.Context) {
	a, ok := readAttachment(c, "document")
	if !ok {
		return
	}
	h.respond(c)(h.service.AttachKYC(c.Request.Context(), sessionID(c), a))
}

// @Summary		Analyze resume
// @Description	Extracts profile fields from the attached resume. The result is kept as a suggestion until applied.
// @Tags		Registration
// @Router		/registration/session/resume/analyze [POST]
func (h *Handler) AnalyzeResume(c *gin.Context) {
	h.respond(c)(h.service.AnalyzeResume(c.Request.Context(), sessionID(c)))
}

// @Summary		Apply resume analysis
// @Tags		Registration
// @Router		/registration/session/resume/apply [POST]
func (h *Handler) ApplyAnalysis(c *gin.Context) {
	h.respond(c)(h.service.ApplyAnalysis(c.Request.Context(), sessionID(c)))
}

// Next validates the current step and moves forward.
// @Summary		Next step
// @Tags		Registration
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "Step incomplete"
// @Failure		409	{object}	map[string]interface{} "Email already registered or session busy"
// @Failure		503	{object}	map[string]interface{} "Email could not be verified"
// @Router		/registration/session/next [POST]
func (h *Handler) Next(c *gin.Context) {
	view, outcome, err := h.service.Advance(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err, view)
		return
	}
	switch outcome {
	case OutcomeInvalid:
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", view.Error, AdvanceResponse{Outcome: outcome, Session: view})
	case OutcomeEmailTaken:
		response.ErrorWithDetails(c, http.StatusConflict, "EMAIL_TAKEN", MsgEmailTaken, AdvanceResponse{Outcome: outcome, Session: view})
	case OutcomeEmailUnverified:
		response.ErrorWithDetails(c, http.StatusServiceUnavailable, "EMAIL_CHECK_FAILED", MsgEmailCheckFailed, AdvanceResponse{Outcome: outcome, Session: view})
	default:
		response.Success(c, http.StatusOK, AdvanceResponse{Outcome: outcome, Session: view})
	}
}

// @Summary		Previous step
// @Tags		Registration
// @Router		/registration/session/previous [POST]
func (h *Handler) Previous(c *gin.Context) {
	h.respond(c)(h.service.Retreat(c.Request.Context(), sessionID(c)))
}

// Submit creates the account and runs the follow-up uploads.
// @Summary		Create account
// @Tags		Registration
// @Success		200	{object}	map[string]interface{} "Account created, redirect scheduled"
// @Failure		400	{object}	map[string]interface{} "Draft incomplete"
// @Failure		502	{object}	map[string]interface{} "Backend rejected the registration"
// @Router		/registration/session/submit [POST]
func (h *Handler) Submit(c *gin.Context) {
	view, result, err := h.service.Submit(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err, view)
		return
	}
	response.Success(c, http.StatusOK, SubmitResponse{Result: result, Session: view})
}

func (h *Handler) respond(c *gin.Context) func(*View, error) {
	return func(view *View, err error) {
		if err != nil {
			h.fail(c, err, view)
			return
		}
		response.Success(c, http.StatusOK, view)
	}
}

func (h *Handler) fail(c *gin.Context, err error, view *View) {
	details := func() any {
		if view == nil {
			return nil
		}
		return gin.H{"session": view}
	}

	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Registration session not found")
	case errors.Is(err, ErrSessionExpired):
		response.Error(c, http.StatusGone, "SESSION_EXPIRED", "Registration session expired, please start again")
	case errors.Is(err, ErrSessionBusy), errors.Is(err, ErrAnalysisInProgress):
		response.Error(c, http.StatusConflict, "SESSION_BUSY", err.Error())
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrNotFinalStep):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrCertificationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrRegistrationFailed):
		msg := MsgRegistrationFailed
		if view != nil && view.Error != "" {
			msg = view.Error
		}
		response.ErrorWithDetails(c, http.StatusBadGateway, "REGISTRATION_FAILED", msg, details())
	case errors.Is(err, ErrIncompleteDraft):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", MsgIncompleteStep, details())
	case errors.Is(err, ErrPayloadAssembly),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrRoleNotSelected),
		errors.Is(err, ErrRoleMismatch),
		errors.Is(err, ErrInvalidDocType),
		errors.Is(err, ErrEmptyAttachment),
		errors.Is(err, ErrCertificationIncomplete),
		errors.Is(err, ErrResumeRequired),
		errors.Is(err, ErrNoAnalysis):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), details())
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

func readAttachment(c *gin.Context, field string) (Attachment, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", fmt.Sprintf("File field %q is required", field))
		return Attachment{}, false
	}
	if fh.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("File size exceeds %d MB limit", maxUploadSize/(1024*1024)))
		return Attachment{}, false
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "Could not read the uploaded file")
		return Attachment{}, false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil || len(data) > maxUploadSize {
		response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Could not read the uploaded file")
		return Attachment{}, false
	}
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return Attachment{
		FileName:    strings.TrimSpace(fh.Filename),
		ContentType: contentType,
		Data:        data,
	}, true
}

func sessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
