package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("create: %w", RoomUnavailable(7))
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("expected wrapped RoomUnavailable to match sentinel")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("RoomUnavailable must not match NotFound")
	}
	e, ok := As(err)
	if !ok || e.ConflictID != 7 {
		t.Fatalf("expected conflict id 7, got %+v", e)
	}
}

func TestInvalidTransitionCarriesStateAndAction(t *testing.T) {
	err := InvalidTransition("completed", "cancel", "cannot cancel a completed reservation")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected InvalidTransition kind")
	}
	if err.State != "completed" || err.Action != "cancel" {
		t.Fatalf("unexpected state/action: %s/%s", err.State, err.Action)
	}
	if err.Error() != "cannot cancel a completed reservation" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestStoreUnavailableUnwrapsCause(t *testing.T) {
	err := StoreUnavailable(context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected StoreUnavailable kind")
	}
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{RoomUnavailable(1), http.StatusConflict},
		{StoreUnavailable(nil), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusOf(tc.err); got != tc.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
