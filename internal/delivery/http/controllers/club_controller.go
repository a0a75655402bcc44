package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/domain"
)

// CreateClubRequest is the request body for POST /clubs.
type CreateClubRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=5000"`
	Category     string `json:"category" validate:"max=60"`
	LogoURL      string `json:"logo_url" validate:"omitempty,url"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

// UpdateClubRequest is the request body for PATCH /clubs/{clubID}. Omitted fields are unchanged.
type UpdateClubRequest struct {
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	Category     *string `json:"category" validate:"omitempty,max=60"`
	LogoURL      *string `json:"logo_url" validate:"omitempty,url"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
}

// ClubSuccessResponse is the success response envelope for endpoints returning a club.
type ClubSuccessResponse struct {
	Data  *domain.Club      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ClubMemberSuccessResponse is the success response envelope for endpoints returning a membership.
type ClubMemberSuccessResponse struct {
	Data  *domain.ClubMember `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ClubController handles the club directory and memberships.
type ClubController struct {
	Logger  *slog.Logger
	Service domain.ClubService
}

func NewClubController(logger *slog.Logger, svc domain.ClubService) *ClubController {
	return &ClubController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateClub godoc
// @Summary Create a club
// @Description The caller becomes the owner and an officer. The slug is derived from the name.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateClubRequest true "Club data"
// @Success 201 {object} controllers.ClubSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slug taken)"
// @Router /clubs [post]
func (c *ClubController) CreateClub(w http.ResponseWriter, r *http.Request) {
	var req CreateClubRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	club := &domain.Club{
		Name:         req.Name,
		Description:  req.Description,
		Category:     strings.TrimSpace(req.Category),
		LogoURL:      req.LogoURL,
		ContactEmail: req.ContactEmail,
		OwnerID:      caller.UserID,
	}
	if err := c.Service.CreateClub(r.Context(), club); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, club)
}

// ListClubs godoc
// @Summary List clubs
// @Description Public club directory ordered by name. Filters by a name/description search and by category.
// @Tags clubs
// @Produce json
// @Param search query string false "Search text"
// @Param category query string false "Category"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Router /clubs [get]
func (c *ClubController) ListClubs(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	filter := domain.ClubFilter{
		Search:   strings.TrimSpace(r.URL.Query().Get("search")),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}
	clubs, total, err := c.Service.ListClubs(r.Context(), filter, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePaginated(w, emptyIfNil(clubs), params.Page, params.PageSize, total)
}

// GetClub godoc
// @Summary Get a club by id or slug
// @Tags clubs
// @Produce json
// @Param clubID path string true "Club ID (UUID) or slug"
// @Success 200 {object} controllers.ClubSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID} [get]
func (c *ClubController) GetClub(w http.ResponseWriter, r *http.Request) {
	club, err := c.Service.GetClub(r.Context(), r.PathValue("clubID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, club)
}

// UpdateClub godoc
// @Summary Update a club
// @Description Owner or admin only.
// @Tags clubs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param body body UpdateClubRequest true "Fields to update"
// @Success 200 {object} controllers.ClubSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID} [patch]
func (c *ClubController) UpdateClub(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	var req UpdateClubRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	club, err := c.Service.UpdateClub(r.Context(), clubID, caller, domain.ClubUpdate{
		Description:  req.Description,
		Category:     req.Category,
		LogoURL:      req.LogoURL,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, club)
}

// DeleteClub godoc
// @Summary Delete a club
// @Description Owner or admin only.
// @Tags clubs
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID} [delete]
func (c *ClubController) DeleteClub(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteClub(r.Context(), clubID, caller); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// JoinClub godoc
// @Summary Join a club
// @Description Idempotent: 201 when the membership is new, 200 when the caller was already a member.
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Success 200 {object} controllers.ClubMemberSuccessResponse "already a member"
// @Success 201 {object} controllers.ClubMemberSuccessResponse "joined"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID}/members [post]
func (c *ClubController) JoinClub(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	member, created, err := c.Service.JoinClub(r.Context(), clubID, caller.UserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	helpers.WriteJSONSuccess(w, status, member)
}

// LeaveClub godoc
// @Summary Leave a club
// @Description The owner cannot leave their own club.
// @Tags clubs
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (owner cannot leave)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID}/members/me [delete]
func (c *ClubController) LeaveClub(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if err := c.Service.LeaveClub(r.Context(), clubID, caller.UserID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers godoc
// @Summary List club members
// @Tags clubs
// @Produce json
// @Param clubID path string true "Club ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the members"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID}/members [get]
func (c *ClubController) ListMembers(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	members, err := c.Service.ListMembers(r.Context(), clubID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(members))
}

// PromoteMember godoc
// @Summary Promote a member to officer
// @Description Club owner only.
// @Tags clubs
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.ClubMemberSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID}/members/{userID}/promote [post]
func (c *ClubController) PromoteMember(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	member, err := c.Service.PromoteMember(r.Context(), clubID, userID, caller)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, member)
}

// ListMyClubs godoc
// @Summary List the current user's clubs
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the clubs"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/clubs [get]
func (c *ClubController) ListMyClubs(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	clubs, err := c.Service.ListMyClubs(r.Context(), caller.UserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(clubs))
}
