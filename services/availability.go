package services

import (
	"context"
	"fmt"
	"time"

	"hotel-reservation/apperror"
	"hotel-reservation/models"
	"hotel-reservation/repository"
)

// RoomAvailability is one row of the availability search.
type RoomAvailability struct {
	Room     models.Room         `json:"room"`
	Label    string              `json:"label"`
	Bookable bool                `json:"bookable"`
	Conflict *models.Reservation `json:"conflict,omitempty"`
}

type AvailabilityChecker struct {
	store repository.Store
}

func NewAvailabilityChecker(store repository.Store) *AvailabilityChecker {
	return &AvailabilityChecker{store: store}
}

// FindConflict returns the earliest non-canceled reservation on the room that
// overlaps [start,end), or nil.
func (a *AvailabilityChecker) FindConflict(ctx context.Context, roomID uint, start, end time.Time) (*models.Reservation, error) {
	return findConflict(ctx, a.store, roomID, start, end)
}

func findConflict(ctx context.Context, store repository.Store, roomID uint, start, end time.Time) (*models.Reservation, error) {
	return store.Reservations().FindFirstOverlapForRoom(ctx, roomID, models.DateOnly(start), models.DateOnly(end))
}

// SearchAvailableRooms labels every room of the type (any type when empty)
// with at least minCapacity beds. Nothing is written.
func (a *AvailabilityChecker) SearchAvailableRooms(ctx context.Context, roomType models.RoomType, minCapacity int, start, end time.Time) ([]RoomAvailability, error) {
	start, end = models.DateOnly(start), models.DateOnly(end)
	if !end.After(start) {
		return nil, apperror.InvalidInput("end date must be after start date")
	}
	if minCapacity < 0 {
		minCapacity = 0
	}

	rooms, err := a.store.Rooms().SearchByTypeAndCapacity(ctx, roomType, minCapacity)
	if err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}

	out := make([]RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		row := RoomAvailability{Room: room}
		switch room.Status {
		case models.RoomMaintenance, models.RoomInactive:
			row.Label = string(room.Status)
			out = append(out, row)
			continue
		}

		conflict, err := findConflict(ctx, a.store, room.ID, start, end)
		if err != nil {
			return nil, fmt.Errorf("check room %s: %w", room.RoomNumber, err)
		}
		row.Conflict = conflict
		row.Label = availabilityLabel(conflict)
		row.Bookable = conflict == nil
		out = append(out, row)
	}
	return out, nil
}

func availabilityLabel(conflict *models.Reservation) string {
	if conflict == nil {
		return string(models.RoomAvailable)
	}
	if conflict.State == models.StateCheckedIn {
		return string(models.RoomOccupied)
	}
	return fmt.Sprintf("reserved (overlaps #%d %s → %s)",
		conflict.ID, models.FormatDate(conflict.StartDate), models.FormatDate(conflict.EndDate))
}
