package models

import (
	"fmt"

	"hotel-reservation/apperror"
)

// ReservationState is the lifecycle state stored on a reservation.
// The variant set is closed; every switch below is exhaustive.
type ReservationState string

const (
	StatePending   ReservationState = "pending"
	StateActive    ReservationState = "active" // never entered by the current creation path
	StateCheckedIn ReservationState = "checked_in"
	StateCompleted ReservationState = "completed"
	StateCanceled  ReservationState = "canceled"
)

type Action string

const (
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
	ActionCancel   Action = "cancel"
)

// ParseReservationState maps a stored status string onto a state. Unknown
// strings are read as pending.
func ParseReservationState(raw string) ReservationState {
	switch s := ReservationState(raw); s {
	case StatePending, StateActive, StateCheckedIn, StateCompleted, StateCanceled:
		return s
	default:
		return StatePending
	}
}

func (s ReservationState) Name() string { return string(s) }

func (s ReservationState) IsTerminal() bool {
	return s == StateCompleted || s == StateCanceled
}

func (s ReservationState) OnCheckIn() (ReservationState, error) {
	switch s {
	case StatePending, StateActive:
		return StateCheckedIn, nil
	case StateCheckedIn:
		return StateCheckedIn, nil
	case StateCompleted:
		return s, s.fail(ActionCheckIn, "already completed")
	case StateCanceled:
		return s, s.fail(ActionCheckIn, "reservation is canceled")
	}
	return s, s.unknown(ActionCheckIn)
}

func (s ReservationState) OnCheckOut() (ReservationState, error) {
	switch s {
	case StatePending, StateActive:
		return s, s.fail(ActionCheckOut, "cannot check-out before check-in")
	case StateCheckedIn:
		return StateCompleted, nil
	case StateCompleted:
		return s, s.fail(ActionCheckOut, "already completed")
	case StateCanceled:
		return s, s.fail(ActionCheckOut, "reservation is canceled")
	}
	return s, s.unknown(ActionCheckOut)
}

func (s ReservationState) OnCancel() (ReservationState, error) {
	switch s {
	case StatePending, StateActive:
		return StateCanceled, nil
	case StateCheckedIn:
		return s, s.fail(ActionCancel, "cannot cancel after check-in")
	case StateCompleted:
		return s, s.fail(ActionCancel, "cannot cancel a completed reservation")
	case StateCanceled:
		return s, s.fail(ActionCancel, "already canceled")
	}
	return s, s.unknown(ActionCancel)
}

// Apply dispatches an action to the matching transition.
func (s ReservationState) Apply(a Action) (ReservationState, error) {
	switch a {
	case ActionCheckIn:
		return s.OnCheckIn()
	case ActionCheckOut:
		return s.OnCheckOut()
	case ActionCancel:
		return s.OnCancel()
	}
	return s, apperror.InvalidInput("unknown reservation action %q", a)
}

func (s ReservationState) fail(a Action, msg string) error {
	return apperror.InvalidTransition(string(s), string(a), msg)
}

func (s ReservationState) unknown(a Action) error {
	return apperror.InvalidTransition(string(s), string(a), fmt.Sprintf("unknown reservation state %q", s))
}
