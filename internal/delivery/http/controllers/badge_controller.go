package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/domain"
)

// UserBadgesSuccessResponse is the success response envelope for GET /users/me/badges.
type UserBadgesSuccessResponse struct {
	Data  *domain.UserBadges `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type BadgeController struct {
	Logger  *slog.Logger
	Service domain.BadgeService
}

func NewBadgeController(logger *slog.Logger, svc domain.BadgeService) *BadgeController {
	return &BadgeController{
		Logger:  logger,
		Service: svc,
	}
}

// ListBadges godoc
// @Summary List badge definitions
// @Tags badges
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the badges"
// @Router /badges [get]
func (c *BadgeController) ListBadges(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.ListBadges())
}

// GetMyBadges godoc
// @Summary Get the current user's badge progress
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserBadgesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /users/me/badges [get]
func (c *BadgeController) GetMyBadges(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	badges, err := c.Service.GetUserBadges(r.Context(), caller.UserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, badges)
}

// Leaderboard godoc
// @Summary Get the leaderboard
// @Description Users ranked by points, then earned badges.
// @Tags badges
// @Produce json
// @Param limit query int false "Number of entries (default 10, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains the ranked entries"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /leaderboard [get]
func (c *BadgeController) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	entries, err := c.Service.Leaderboard(r.Context(), limit)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, emptyIfNil(entries))
}
