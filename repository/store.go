// Package repository holds the persistence collaborators of the booking
// engine. GormStore talks to MySQL, Postgres or an in-memory SQLite database
// (STORE_DRIVER=memory and the tests).
package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"hotel-reservation/models"
)

type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	// FindByIdentifier matches username or email, case-insensitively.
	FindByIdentifier(ctx context.Context, identifier string) (*models.Customer, error)
	Update(ctx context.Context, c *models.Customer) error
	IsActive(ctx context.Context, id uint) (bool, error)
}

type RoomStore interface {
	Create(ctx context.Context, r *models.Room) error
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	// FindByIDForUpdate row-locks the room until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Room, error)
	UpdateStatus(ctx context.Context, id uint, status models.RoomStatus) error
	// SearchByTypeAndCapacity ignores the type when it is empty.
	SearchByTypeAndCapacity(ctx context.Context, roomType models.RoomType, minCapacity int) ([]models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
}

type StaffStore interface {
	Create(ctx context.Context, s *models.Staff) error
	FindByID(ctx context.Context, id uint) (*models.Staff, error)
	FindAllActive(ctx context.Context) ([]models.Staff, error)
	FindActiveByRole(ctx context.Context, role string) ([]models.Staff, error)
}

type ReservationStore interface {
	Create(ctx context.Context, r *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id uint, state models.ReservationState) error
	UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error
	FindAll(ctx context.Context) ([]models.Reservation, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error)
	// FindHistoryByCustomer returns completed, canceled and already ended
	// reservations, latest end date first.
	FindHistoryByCustomer(ctx context.Context, customerID uint, today time.Time) ([]models.Reservation, error)
	FindByFilters(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error)
	// FindFirstOverlapForRoom returns the earliest non-canceled reservation
	// overlapping [start,end), or nil when the range is free.
	FindFirstOverlapForRoom(ctx context.Context, roomID uint, start, end time.Time) (*models.Reservation, error)
}

// ActionLog is append-only. staffID is nil for customer-initiated cancels.
type ActionLog interface {
	LogCheckIn(ctx context.Context, r *models.Reservation, staffID *uint) error
	LogCheckOut(ctx context.Context, r *models.Reservation, staffID *uint) error
	LogCancel(ctx context.Context, r *models.Reservation, staffID *uint) error
	ListForReservation(ctx context.Context, reservationID uint) ([]models.ReservationAction, error)
}

type NotificationStore interface {
	Create(ctx context.Context, kind models.RecipientKind, recipientID uint, message string) (*models.Notification, error)
	ListForRecipient(ctx context.Context, kind models.RecipientKind, recipientID uint) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint) error
	MarkAllRead(ctx context.Context, kind models.RecipientKind, recipientID uint) (int64, error)
}

// Store aggregates the collaborators. Inside Transaction, fn receives a Store
// bound to the transaction; returning an error rolls everything back.
type Store interface {
	Customers() CustomerStore
	Rooms() RoomStore
	Staff() StaffStore
	Reservations() ReservationStore
	Actions() ActionLog
	Notifications() NotificationStore
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type actionSnapshot struct {
	State         models.ReservationState `json:"state"`
	PaymentStatus models.PaymentStatus    `json:"paymentStatus"`
	RoomID        uint                    `json:"roomId"`
	StartDate     string                  `json:"startDate"`
	EndDate       string                  `json:"endDate"`
}

func newAction(r *models.Reservation, action models.Action, staffID *uint) models.ReservationAction {
	entry := models.ReservationAction{
		ReservationID: r.ID,
		StaffID:       staffID,
		ActionType:    action,
	}
	raw, err := json.Marshal(actionSnapshot{
		State:         r.State,
		PaymentStatus: r.PaymentStatus,
		RoomID:        r.RoomID,
		StartDate:     models.FormatDate(r.StartDate),
		EndDate:       models.FormatDate(r.EndDate),
	})
	if err == nil {
		entry.Snapshot = datatypes.JSON(raw)
	}
	return entry
}
