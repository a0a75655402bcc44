package domain

import "errors"

// Sentinel errors shared by services and repositories. Controllers map them to HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	// ErrEventFull is returned when an RSVP or volunteer form exceeds the event's capacity.
	ErrEventFull = errors.New("event is full")
	// ErrAlreadyMember is returned when a uniqueness constraint on membership is hit.
	ErrAlreadyMember = errors.New("already a member")
)
