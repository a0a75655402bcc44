package helpers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"clubconn/internal/domain"
)

// WriteServiceError maps a service error to its HTTP status and error code.
// Unknown errors are logged and reported as 500 without leaking their text.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, clientMessage(err, domain.ErrInvalidInput))
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidLoginCode):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "you are not allowed to do that")
	case errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "user not found")
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrEventFull):
		WriteJSONError(w, http.StatusConflict, ErrCodeEventFull, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "email already in use")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyMember):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, clientMessage(err, domain.ErrConflict))
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}

// clientMessage returns the detail following "sentinel: " in err's text, dropping any wrapping context.
func clientMessage(err, sentinel error) string {
	msg := err.Error()
	if _, detail, ok := strings.Cut(msg, sentinel.Error()+": "); ok {
		return detail
	}
	return msg
}
