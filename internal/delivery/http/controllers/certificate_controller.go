package controllers

import (
	"log/slog"
	"net/http"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/domain"
)

// IssueCertificateRequest is the request body for POST /events/{eventID}/certificates.
type IssueCertificateRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Title  string `json:"title" validate:"max=200"`
}

// BulkIssueRequest is the request body for POST /events/{eventID}/certificates/bulk.
type BulkIssueRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// CertificateSuccessResponse is the success response envelope for POST /events/{eventID}/certificates.
type CertificateSuccessResponse struct {
	Data  *domain.Certificate `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CertificateDetailsSuccessResponse is the success response envelope for GET /certificates/{code}.
type CertificateDetailsSuccessResponse struct {
	Data  *domain.CertificateDetails `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// BulkIssueSuccessResponse is the success response envelope for POST /events/{eventID}/certificates/bulk.
type BulkIssueSuccessResponse struct {
	Data  *domain.BulkIssueResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type CertificateController struct {
	Logger  *slog.Logger
	Service domain.CertificateService
}

func NewCertificateController(logger *slog.Logger, svc domain.CertificateService) *CertificateController {
	return &CertificateController{
		Logger:  logger,
		Service: svc,
	}
}

// IssueCertificate godoc
// @Summary Issue a certificate
// @Description Club officers only. Returns the existing certificate (200) when the user already holds one for the event.
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body IssueCertificateRequest true "Recipient and optional title"
// @Success 200 {object} controllers.CertificateSuccessResponse "already issued"
// @Success 201 {object} controllers.CertificateSuccessResponse "issued"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/certificates [post]
func (c *CertificateController) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req IssueCertificateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	cert, created, err := c.Service.Issue(r.Context(), eventID, req.UserID, req.Title, caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, cert)
}

// IssueForAttendees godoc
// @Summary Issue certificates to every attendee
// @Description Club officers only. Issues to each registration marked attended and reports how many were new.
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body BulkIssueRequest false "Optional title"
// @Success 200 {object} controllers.BulkIssueSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/certificates/bulk [post]
func (c *CertificateController) IssueForAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req BulkIssueRequest
	if r.ContentLength != 0 && !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	result, err := c.Service.IssueForAttendees(r.Context(), eventID, req.Title, caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	c.Logger.InfoContext(r.Context(), "certificates issued", "event_id", eventID,
		"issued", result.Issued, "already_issued", result.AlreadyIssued)
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// VerifyCertificate godoc
// @Summary Verify a certificate
// @Description Public lookup by verification code (case-insensitive).
// @Tags certificates
// @Produce json
// @Param code path string true "Verification code, e.g. CC-1A2B-3C4D-5E6F"
// @Success 200 {object} controllers.CertificateDetailsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /certificates/{code} [get]
func (c *CertificateController) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	details, err := c.Service.Verify(r.Context(), r.PathValue("code"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// RenderCertificate godoc
// @Summary Render a certificate
// @Description Returns the certificate as an HTML document that clients convert to an image or PDF.
// @Tags certificates
// @Produce html
// @Param code path string true "Verification code"
// @Success 200 {string} string "HTML document"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /certificates/{code}/render [get]
func (c *CertificateController) RenderCertificate(w http.ResponseWriter, r *http.Request) {
	contentType, body, err := c.Service.Render(r.Context(), r.PathValue("code"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ListMyCertificates godoc
// @Summary List the current user's certificates
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the certificates"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/certificates [get]
func (c *CertificateController) ListMyCertificates(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	certs, err := c.Service.ListMine(r.Context(), caller.UserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(certs))
}
