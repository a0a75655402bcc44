package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventController_CreateEvent(t *testing.T) {
	path := map[string]string{"clubID": testClubID}

	t.Run("created", func(t *testing.T) {
		svc := &fakeEventService{}
		c := NewEventController(testLogger, svc)

		rr := serve(t, c.CreateEvent, testRequest{method: http.MethodPost, target: "/clubs/" + testClubID + "/events",
			caller: &testCaller, pathValues: path,
			body: `{"title":"Hack Night","starts_at":"2026-11-05T18:00:00Z","ends_at":"2026-11-05T22:00:00Z","capacity":40,"volunteer_slots":4}`})

		require.Equal(t, http.StatusCreated, rr.Code)
		var event domain.Event
		assert.Nil(t, decodeEnvelope(t, rr, &event))
		assert.Equal(t, testEventID, event.ID)
		assert.Equal(t, testClubID, event.ClubID)
		assert.Equal(t, 40, event.Capacity)
		assert.Equal(t, testTime, svc.lastCreated.StartsAt)
	})

	t.Run("ends before it starts", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{})
		rr := serve(t, c.CreateEvent, testRequest{method: http.MethodPost, target: "/clubs/" + testClubID + "/events",
			caller: &testCaller, pathValues: path,
			body: `{"title":"Hack Night","starts_at":"2026-11-05T18:00:00Z","ends_at":"2026-11-05T17:00:00Z"}`})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		apiErr := decodeEnvelope(t, rr, nil)
		require.NotNil(t, apiErr)
		assert.Contains(t, apiErr.Message, "ends_at must be after starts_at")
	})

	t.Run("negative capacity", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{})
		rr := serve(t, c.CreateEvent, testRequest{method: http.MethodPost, target: "/clubs/" + testClubID + "/events",
			caller: &testCaller, pathValues: path,
			body: `{"title":"Hack Night","starts_at":"2026-11-05T18:00:00Z","ends_at":"2026-11-05T22:00:00Z","capacity":-1}`})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not a club officer", func(t *testing.T) {
		c := NewEventController(testLogger, &fakeEventService{err: domain.ErrForbidden})
		rr := serve(t, c.CreateEvent, testRequest{method: http.MethodPost, target: "/clubs/" + testClubID + "/events",
			caller: &testCaller, pathValues: path,
			body: `{"title":"Hack Night","starts_at":"2026-11-05T18:00:00Z","ends_at":"2026-11-05T22:00:00Z"}`})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestEventController_ListEvents(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantFilter domain.EventFilter
	}{
		{
			name:       "defaults",
			target:     "/events",
			wantStatus: http.StatusOK,
		},
		{
			name:       "club, from and include_past",
			target:     "/events?club_id=" + testClubID + "&from=2026-11-05T18:00:00Z&include_past=true",
			wantStatus: http.StatusOK,
			wantFilter: domain.EventFilter{ClubID: testClubID, From: testTime, IncludePast: true},
		},
		{name: "bad club id", target: "/events?club_id=x", wantStatus: http.StatusBadRequest},
		{name: "bad from", target: "/events?from=tomorrow", wantStatus: http.StatusBadRequest},
		{name: "bad include_past", target: "/events?include_past=maybe", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{}
			c := NewEventController(testLogger, svc)

			rr := serve(t, c.ListEvents, testRequest{method: http.MethodGet, target: tt.target})

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.True(t, tt.wantFilter.From.Equal(svc.lastFilter.From))
				assert.Equal(t, tt.wantFilter.ClubID, svc.lastFilter.ClubID)
				assert.Equal(t, tt.wantFilter.IncludePast, svc.lastFilter.IncludePast)
				assert.Equal(t, domain.PaginationParams{Page: 1, PageSize: 20}, svc.lastParams)
			}
		})
	}
}

func TestEventController_ListClubEvents(t *testing.T) {
	svc := &fakeEventService{events: []*domain.Event{{ID: testEventID, ClubID: testClubID}}, total: 1}
	c := NewEventController(testLogger, svc)

	rr := serve(t, c.ListClubEvents, testRequest{method: http.MethodGet, target: "/clubs/" + testClubID + "/events",
		pathValues: map[string]string{"clubID": testClubID}})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, testClubID, svc.lastFilter.ClubID)
	var data helpers.PaginatedData
	assert.Nil(t, decodeEnvelope(t, rr, &data))
	assert.Equal(t, 1, data.Pagination.Total)
}

func TestEventController_GetEvent(t *testing.T) {
	svc := &fakeEventService{withCounts: &domain.EventWithCounts{Event: &domain.Event{ID: testEventID}, RSVPCount: 12, VolunteerCount: 2}}
	c := NewEventController(testLogger, svc)

	rr := serve(t, c.GetEvent, testRequest{method: http.MethodGet, target: "/events/" + testEventID,
		pathValues: map[string]string{"eventID": testEventID}})

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"rsvp_count":12`)
	assert.Contains(t, rr.Body.String(), `"volunteer_count":2`)

	svc.err = fmt.Errorf("get event: %w", errBoom)
	rr = serve(t, c.GetEvent, testRequest{method: http.MethodGet, target: "/events/" + testEventID,
		pathValues: map[string]string{"eventID": testEventID}})
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestEventController_UpdateEvent(t *testing.T) {
	svc := &fakeEventService{updated: &domain.Event{ID: testEventID, Capacity: 0}}
	c := NewEventController(testLogger, svc)
	path := map[string]string{"eventID": testEventID}

	rr := serve(t, c.UpdateEvent, testRequest{method: http.MethodPatch, target: "/events/" + testEventID,
		caller: &testCaller, pathValues: path, body: `{"capacity":0,"ends_at":"2026-11-06T00:00:00Z"}`})

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, svc.lastUpdate.Capacity)
	assert.Equal(t, 0, *svc.lastUpdate.Capacity)
	require.NotNil(t, svc.lastUpdate.EndsAt)
	assert.Equal(t, testTime.Add(6*time.Hour), *svc.lastUpdate.EndsAt)
	assert.Nil(t, svc.lastUpdate.Title)

	svc.err = domain.ErrNotFound
	rr = serve(t, c.UpdateEvent, testRequest{method: http.MethodPatch, target: "/events/" + testEventID,
		caller: &testCaller, pathValues: path, body: `{"title":"New"}`})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEventController_DeleteEvent(t *testing.T) {
	svc := &fakeEventService{}
	c := NewEventController(testLogger, svc)

	rr := serve(t, c.DeleteEvent, testRequest{method: http.MethodDelete, target: "/events/" + testEventID,
		caller: &testCaller, pathValues: map[string]string{"eventID": testEventID}})

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, testEventID, svc.lastEventID)
}
