package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/domain"

	"github.com/google/uuid"
)

// CreateEventRequest is the request body for POST /clubs/{clubID}/events.
type CreateEventRequest struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Description    string    `json:"description" validate:"max=10000"`
	Location       string    `json:"location" validate:"max=200"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required"`
	Capacity       int       `json:"capacity" validate:"gte=0"`
	VolunteerSlots int       `json:"volunteer_slots" validate:"gte=0"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	if !c.StartsAt.IsZero() && !c.EndsAt.IsZero() && !c.EndsAt.After(c.StartsAt) {
		return []string{"ends_at must be after starts_at"}
	}
	return nil
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. Omitted fields are unchanged.
type UpdateEventRequest struct {
	Title          *string    `json:"title" validate:"omitempty,max=200"`
	Description    *string    `json:"description" validate:"omitempty,max=10000"`
	Location       *string    `json:"location" validate:"omitempty,max=200"`
	StartsAt       *time.Time `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	Capacity       *int       `json:"capacity" validate:"omitempty,gte=0"`
	VolunteerSlots *int       `json:"volunteer_slots" validate:"omitempty,gte=0"`
}

// Validate implements Validator. The merged start/end pair is checked by the service.
func (u UpdateEventRequest) Validate() []string {
	if u.StartsAt != nil && u.EndsAt != nil && !u.EndsAt.After(*u.StartsAt) {
		return []string{"ends_at must be after starts_at"}
	}
	return nil
}

// EventSuccessResponse is the success response envelope for endpoints returning an event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventWithCountsSuccessResponse is the success response envelope for GET /events/{eventID}.
type EventWithCountsSuccessResponse struct {
	Data  *domain.EventWithCounts `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Club officers, the club owner and admins may create events.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /clubs/{clubID}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	event := &domain.Event{
		ClubID:         clubID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Capacity:       req.Capacity,
		VolunteerSlots: req.VolunteerSlots,
	}
	if err := c.Service.CreateEvent(r.Context(), event, caller); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListEvents godoc
// @Summary List upcoming events
// @Description Ordered by starts_at. Events that already ended are hidden unless include_past=true.
// @Tags events
// @Produce json
// @Param club_id query string false "Club ID (UUID)"
// @Param from query string false "RFC 3339 lower bound (default now)"
// @Param include_past query bool false "Include events that already ended"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	clubID := r.URL.Query().Get("club_id")
	if clubID != "" {
		if _, err := uuid.Parse(clubID); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid club_id")
			return
		}
	}
	c.listEvents(w, r, clubID)
}

// ListClubEvents godoc
// @Summary List a club's upcoming events
// @Tags events
// @Produce json
// @Param clubID path string true "Club ID (UUID)"
// @Param from query string false "RFC 3339 lower bound (default now)"
// @Param include_past query bool false "Include events that already ended"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /clubs/{clubID}/events [get]
func (c *EventController) ListClubEvents(w http.ResponseWriter, r *http.Request) {
	clubID, ok := pathID(w, r, "clubID")
	if !ok {
		return
	}
	c.listEvents(w, r, clubID)
}

func (c *EventController) listEvents(w http.ResponseWriter, r *http.Request, clubID string) {
	q := r.URL.Query()
	filter := domain.EventFilter{ClubID: clubID}
	if s := q.Get("from"); s != "" {
		from, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from must be an RFC 3339 timestamp")
			return
		}
		filter.From = from
	}
	if s := q.Get("include_past"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "include_past must be a boolean")
			return
		}
		filter.IncludePast = v
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WritePaginated(w, emptyIfNil(events), params.Page, params.PageSize, total)
}

// GetEvent godoc
// @Summary Get an event
// @Description Includes active RSVP and volunteer counts.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventWithCountsSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update by club officers, the club owner and admins.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, caller, domain.EventUpdate{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Capacity:       req.Capacity,
		VolunteerSlots: req.VolunteerSlots,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, caller); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
