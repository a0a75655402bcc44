package controllers

import (
	"log/slog"
	"net/http"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/domain"

	"github.com/google/uuid"
)

// CreateSponsorRequest is the request body for POST /sponsors.
type CreateSponsorRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Website      string `json:"website" validate:"omitempty,url"`
	LogoURL      string `json:"logo_url" validate:"omitempty,url"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// UpdateSponsorRequest is the request body for PATCH /sponsors/{sponsorID}. Omitted fields are unchanged.
type UpdateSponsorRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=120"`
	Website      *string `json:"website" validate:"omitempty,url"`
	LogoURL      *string `json:"logo_url" validate:"omitempty,url"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
}

// CreatePackageRequest is the request body for POST /clubs/{clubID}/packages.
type CreatePackageRequest struct {
	Title       string   `json:"title" validate:"required,max=120"`
	Description string   `json:"description" validate:"max=5000"`
	PriceCents  int64    `json:"price_cents" validate:"gte=0"`
	Perks       []string `json:"perks" validate:"max=20,dive,required,max=200"`
}

// ApplyRequest is the request body for POST /sponsorships.
type ApplyRequest struct {
	SponsorID string  `json:"sponsor_id" validate:"required,uuid"`
	ClubID    string  `json:"club_id" validate:"required,uuid"`
	PackageID *string `json:"package_id" validate:"omitempty,uuid"`
	Message   string  `json:"message" validate:"max=2000"`
}

// DecisionRequest is the request body for POST /sponsorships/{sponsorshipID}/decision.
type DecisionRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

// SponsorSuccessResponse is the success response envelope for endpoints returning a sponsor.
type SponsorSuccessResponse struct {
	Data  *domain.Sponsor   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PackageSuccessResponse is the success response envelope for POST /clubs/{clubID}/packages.
type PackageSuccessResponse struct {
	Data  *domain.SponsorshipPackage `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// SponsorshipSuccessResponse is the success response envelope for endpoints returning a sponsorship.
type SponsorshipSuccessResponse struct {
	Data  *domain.Sponsorship `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SponsorshipStatsSuccessResponse is the success response envelope for GET /sponsorships/{sponsorshipID}/stats.
type SponsorshipStatsSuccessResponse struct {
	Data  *domain.SponsorshipStats `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// SponsorshipController handles sponsors, club packages and sponsorships.
type SponsorshipController struct {
	Logger  *slog.Logger
	Service domain.SponsorshipService
}

func NewSponsorshipController(logger *slog.Logger, svc domain.SponsorshipService) *SponsorshipController {
	return &SponsorshipController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSponsor godoc
// @Summary Create a sponsor profile
// @Description The caller becomes the sponsor owner.
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSponsorRequest true "Sponsor data"
// @Success 201 {object} controllers.SponsorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /sponsors [post]
func (c *SponsorshipController) CreateSponsor(w http.ResponseWriter, r *http.Request) {
	var req CreateSponsorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	sponsor := &domain.Sponsor{
		OwnerID:      caller.UserID,
		Name:         req.Name,
		Website:      req.Website,
		LogoURL:      req.LogoURL,
		ContactEmail: req.ContactEmail,
	}
	if err := c.Service.CreateSponsor(r.Context(), sponsor); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sponsor)
}

// GetSponsor godoc
// @Summary Get a sponsor
// @Tags sponsors
// @Produce json
// @Param sponsorID path string true "Sponsor ID (UUID)"
// @Success 200 {object} controllers.SponsorSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sponsors/{sponsorID} [get]
func (c *SponsorshipController) GetSponsor(w http.ResponseWriter, r *http.Request) {
	sponsorID, ok := pathID(w, r, "sponsorID")
	if !ok {
		return
	}
	sponsor, err := c.Service.GetSponsor(r.Context(), sponsorID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sponsor)
}

// UpdateSponsor godoc
// @Summary Update a sponsor
// @Description Sponsor owner or admin only.
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sponsorID path string true "Sponsor ID (UUID)"
// @Param body body UpdateSponsorRequest true "Fields to update"
// @Success 200 {object} controllers.SponsorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sponsors/{sponsorID} [patch]
func (c *SponsorshipController) UpdateSponsor(w http.ResponseWriter, r *http.Request) {
	sponsorID, ok := pathID(w, r, "sponsorID")
	if !ok {
		return
	}
	var req UpdateSponsorRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	sponsor, err := c.Service.UpdateSponsor(r.Context(), sponsorID, caller, domain.SponsorUpdate{
		Name:         req.Name,
		Website:      req.Website,
		LogoURL:      req.LogoURL,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sponsor)
}

// ListMySponsors godoc
// @Summary List the current user's sponsor profiles
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the sponsors"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/sponsors [get]
func (c *SponsorshipController) ListMySponsors(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	sponsors, err := c.Service.ListMySponsors(r.Context(), caller.UserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(sponsors))
}

// CreatePackage godoc
// @Summary Create a sponsorship package
// @Description Club officers, the club owner and admins only.
// @Tags packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param body body CreatePackageRequest true "Package data"
// @Success 201 {object} controllers.PackageSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /clubs/{clubID}/packages [post]
func (c *SponsorshipController) CreatePackage(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	var req CreatePackageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	pkg := &domain.SponsorshipPackage{
		ClubID:      clubID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Perks:       req.Perks,
	}
	if err := c.Service.CreatePackage(r.Context(), pkg, caller); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, pkg)
}

// ListPackages godoc
// @Summary Browse the sponsorship marketplace
// @Tags packages
// @Produce json
// @Param club_id query string false "Only packages of this club (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the packages"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /packages [get]
func (c *SponsorshipController) ListPackages(w http.ResponseWriter, r *http.Request) {
	clubID := r.URL.Query().Get("club_id")
	if clubID != "" {
		if _, err := uuid.Parse(clubID); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid club_id")
			return
		}
	}
	pkgs, err := c.Service.ListPackages(r.Context(), clubID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(pkgs))
}

// DeletePackage godoc
// @Summary Delete a sponsorship package
// @Tags packages
// @Security BearerAuth
// @Param packageID path string true "Package ID (UUID)"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /packages/{packageID} [delete]
func (c *SponsorshipController) DeletePackage(w http.ResponseWriter, r *http.Request) {
	packageID, ok := pathID(w, r, "packageID")
	if !ok {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeletePackage(r.Context(), packageID, caller); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Apply godoc
// @Summary Apply to sponsor a club
// @Description The caller must own the sponsor. A pending or active application for the same sponsor, club and package is a conflict.
// @Tags sponsorships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyRequest true "Application"
// @Success 201 {object} controllers.SponsorshipSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /sponsorships [post]
func (c *SponsorshipController) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	sp := &domain.Sponsorship{
		SponsorID: req.SponsorID,
		ClubID:    req.ClubID,
		PackageID: req.PackageID,
		Message:   req.Message,
	}
	if err := c.Service.Apply(r.Context(), sp, caller); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sp)
}

// Decide godoc
// @Summary Accept or decline a sponsorship
// @Description Club officers only, on pending sponsorships. The sponsor contact is emailed.
// @Tags sponsorships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sponsorshipID path string true "Sponsorship ID (UUID)"
// @Param body body DecisionRequest true "Decision"
// @Success 200 {object} controllers.SponsorshipSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not pending)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sponsorships/{sponsorshipID}/decision [post]
func (c *SponsorshipController) Decide(w http.ResponseWriter, r *http.Request) {
	sponsorshipID, ok := pathID(w, r, "sponsorshipID")
	if !ok {
		return
	}
	var req DecisionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	sp, err := c.Service.Decide(r.Context(), sponsorshipID, *req.Accept, caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sp)
}

// ListClubSponsorships godoc
// @Summary List a club's sponsorships
// @Description Club officers only.
// @Tags sponsorships
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param status query string false "Status" Enums(pending, active, declined)
// @Success 200 {object} helpers.APIResponse "data contains the sponsorships"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /clubs/{clubID}/sponsorships [get]
func (c *SponsorshipController) ListClubSponsorships(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	list, err := c.Service.ListClubSponsorships(r.Context(), clubID, r.URL.Query().Get("status"), caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(list))
}

// ListActiveSponsorships godoc
// @Summary List a club's active sponsors for display
// @Tags sponsorships
// @Produce json
// @Param clubID path string true "Club ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains active sponsorships with sponsor details"
// @Router /clubs/{clubID}/sponsorships/active [get]
func (c *SponsorshipController) ListActiveSponsorships(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	list, err := c.Service.ListActiveSponsorships(r.Context(), clubID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(list))
}

// RecordImpression godoc
// @Summary Record a sponsor impression
// @Description Public and rate limited. Only active sponsorships count.
// @Tags sponsorships
// @Param sponsorshipID path string true "Sponsorship ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /sponsorships/{sponsorshipID}/impressions [post]
func (c *SponsorshipController) RecordImpression(w http.ResponseWriter, r *http.Request) {
	sponsorshipID, ok := pathID(w, r, "sponsorshipID")
	if !ok {
		return
	}
	if err := c.Service.RecordImpression(r.Context(), sponsorshipID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordClick godoc
// @Summary Record a sponsor click
// @Description Public and rate limited. Only active sponsorships count.
// @Tags sponsorships
// @Param sponsorshipID path string true "Sponsorship ID (UUID)"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Router /sponsorships/{sponsorshipID}/clicks [post]
func (c *SponsorshipController) RecordClick(w http.ResponseWriter, r *http.Request) {
	sponsorshipID, ok := pathID(w, r, "sponsorshipID")
	if !ok {
		return
	}
	if err := c.Service.RecordClick(r.Context(), sponsorshipID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStats godoc
// @Summary Get sponsorship display statistics
// @Tags sponsorships
// @Produce json
// @Param sponsorshipID path string true "Sponsorship ID (UUID)"
// @Success 200 {object} controllers.SponsorshipStatsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /sponsorships/{sponsorshipID}/stats [get]
func (c *SponsorshipController) GetStats(w http.ResponseWriter, r *http.Request) {
	sponsorshipID, ok := pathID(w, r, "sponsorshipID")
	if !ok {
		return
	}
	stats, err := c.Service.GetStats(r.Context(), sponsorshipID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
