package controllers

import (
	"log/slog"
	"net/http"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/domain"
)

// SubmitFormRequest is the optional request body for POST /events/{eventID}/forms/{kind}.
type SubmitFormRequest struct {
	Details map[string]string `json:"details" validate:"max=20,dive,keys,max=64,endkeys,max=2000"`
}

// MarkAttendanceRequest is the request body for POST /events/{eventID}/attendance.
type MarkAttendanceRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	Attended *bool  `json:"attended" validate:"required"`
}

// RegistrationSuccessResponse is the success response envelope for endpoints returning a registration.
type RegistrationSuccessResponse struct {
	Data  *domain.EventRegistration `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// RegistrationController handles event forms: RSVP, volunteer and sponsor interest.
type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

func formKind(w http.ResponseWriter, r *http.Request) (string, bool) {
	kind := r.PathValue("kind")
	if !domain.ValidFormKind(kind) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "kind must be one of rsvp, volunteer, sponsor")
		return "", false
	}
	return kind, true
}

// SubmitForm godoc
// @Summary Submit an event form
// @Description Idempotent per event, user and kind: 201 when created or reactivated, 200 when an active submission already existed.
// @Tags forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param kind path string true "Form kind" Enums(rsvp, volunteer, sponsor)
// @Param body body SubmitFormRequest false "Free-form answers"
// @Success 200 {object} controllers.RegistrationSuccessResponse "already submitted"
// @Success 201 {object} controllers.RegistrationSuccessResponse "submitted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: event_full"
// @Router /events/{eventID}/forms/{kind} [post]
func (c *RegistrationController) SubmitForm(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	kind, ok := formKind(w, r)
	if !ok {
		return
	}
	var req SubmitFormRequest
	if r.ContentLength != 0 && !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	reg, created, err := c.Service.Submit(r.Context(), eventID, caller.UserID, kind, req.Details)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, reg)
}

// CancelForm godoc
// @Summary Cancel an event form submission
// @Tags forms
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param kind path string true "Form kind" Enums(rsvp, volunteer, sponsor)
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/forms/{kind} [delete]
func (c *RegistrationController) CancelForm(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	kind, ok := formKind(w, r)
	if !ok {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if err := c.Service.Cancel(r.Context(), eventID, caller.UserID, kind); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMyRegistrations godoc
// @Summary List the current user's form submissions
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains registrations with their events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/registrations [get]
func (c *RegistrationController) ListMyRegistrations(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	regs, err := c.Service.ListMyRegistrations(r.Context(), caller.UserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(regs))
}

// ListEventRegistrations godoc
// @Summary List an event's form submissions
// @Description Club officers, the club owner and admins only.
// @Tags forms
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param kind query string false "Form kind" Enums(rsvp, volunteer, sponsor)
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events/{eventID}/registrations [get]
func (c *RegistrationController) ListEventRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind != "" && !domain.ValidFormKind(kind) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "kind must be one of rsvp, volunteer, sponsor")
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	regs, total, err := c.Service.ListEventRegistrations(r.Context(), eventID, kind, caller, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePaginated(w, emptyIfNil(regs), params.Page, params.PageSize, total)
}

// MarkAttendance godoc
// @Summary Mark a user's attendance
// @Description Club officers, the club owner and admins only. The user must hold an active RSVP or volunteer form.
// @Tags forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body MarkAttendanceRequest true "User and attendance flag"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/attendance [post]
func (c *RegistrationController) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req MarkAttendanceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.MarkAttendance(r.Context(), eventID, req.UserID, *req.Attended, caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}
