// Package apperror defines the error kinds surfaced by the booking engine.
// Every kind carries the HTTP status the controllers answer with.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidInput      Kind = "invalid_input"
	KindRoomUnavailable   Kind = "room_unavailable"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
	KindStoreUnavailable  Kind = "store_unavailable"
	KindConflict          Kind = "conflict"
)

// Error is the single error type returned across package boundaries.
// ConflictID is set for RoomUnavailable; State and Action for InvalidTransition.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error

	ConflictID uint
	State      string
	Action     string
}

var (
	ErrInvalidInput      = New(KindInvalidInput, http.StatusBadRequest, "invalid input")
	ErrRoomUnavailable   = New(KindRoomUnavailable, http.StatusConflict, "room unavailable")
	ErrInvalidTransition = New(KindInvalidTransition, http.StatusConflict, "invalid transition")
	ErrNotFound          = New(KindNotFound, http.StatusNotFound, "not found")
	ErrStoreUnavailable  = New(KindStoreUnavailable, http.StatusServiceUnavailable, "store unavailable")
	ErrConflict          = New(KindConflict, http.StatusConflict, "conflict")
)

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so callers can test against the
// package sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func InvalidInput(format string, args ...any) *Error {
	return New(KindInvalidInput, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, http.StatusNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, http.StatusConflict, fmt.Sprintf(format, args...))
}

// RoomUnavailable names the reservation that blocks the requested dates.
func RoomUnavailable(conflictID uint) *Error {
	e := New(KindRoomUnavailable, http.StatusConflict,
		fmt.Sprintf("room is not available for the selected dates (overlaps reservation #%d)", conflictID))
	e.ConflictID = conflictID
	return e
}

func InvalidTransition(state, action, message string) *Error {
	e := New(KindInvalidTransition, http.StatusConflict, message)
	e.State = state
	e.Action = action
	return e
}

// StoreUnavailable wraps a persistence failure. A nil cause still yields an error.
func StoreUnavailable(cause error) *Error {
	e := New(KindStoreUnavailable, http.StatusServiceUnavailable, "store unavailable")
	e.Err = cause
	return e
}

// StatusOf returns the HTTP status for err, 500 for anything untyped.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// As is a small helper around errors.As for *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
