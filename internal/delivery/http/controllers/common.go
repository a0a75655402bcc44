package controllers

import (
	"net/http"

	"clubconn/internal/delivery/http/helpers"
	"clubconn/internal/delivery/http/middleware"
	"clubconn/internal/domain"

	"github.com/google/uuid"
)

// callerFrom returns the authenticated principal, writing 401 when there is none.
func callerFrom(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return p, ok
}

// pathID returns the named path value when it is a UUID, writing 400 otherwise.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if _, err := uuid.Parse(id); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return id, true
}

// emptyIfNil keeps list responses as [] rather than null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
