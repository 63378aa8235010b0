package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"hotel-reservation/apperror"
	"hotel-reservation/models"
	"hotel-reservation/repository"
)

const (
	defaultStoreTimeout = 5 * time.Second
	defaultReadBackoff  = 200 * time.Millisecond
)

// ReservationService runs the reservation lifecycle: booking, check-in,
// check-out, cancel and payment. Every mutation commits before any
// notification goes out.
type ReservationService struct {
	store        repository.Store
	pricing      PricingStrategy
	locker       RoomLocker
	notifier     *Notifier
	availability *AvailabilityChecker
	timeout      time.Duration
	readBackoff  time.Duration
	now          func() time.Time
}

type Option func(*ReservationService)

func WithPricingStrategy(p PricingStrategy) Option {
	return func(s *ReservationService) { s.pricing = p }
}

func WithRoomLocker(l RoomLocker) Option {
	return func(s *ReservationService) { s.locker = l }
}

func WithNotifier(n *Notifier) Option {
	return func(s *ReservationService) { s.notifier = n }
}

// WithStoreTimeout bounds every store operation; zero keeps the default.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *ReservationService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithReadBackoff(d time.Duration) Option {
	return func(s *ReservationService) {
		if d >= 0 {
			s.readBackoff = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *ReservationService) { s.now = now }
}

// NewReservationService defaults to per-night pricing, an in-process room
// lock and in-app notifications.
func NewReservationService(store repository.Store, opts ...Option) *ReservationService {
	s := &ReservationService{
		store:        store,
		pricing:      DefaultPricing{},
		locker:       NewLocalRoomLocker(),
		availability: NewAvailabilityChecker(store),
		timeout:      defaultStoreTimeout,
		readBackoff:  defaultReadBackoff,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = NewNotifier(store.Staff(), NewStoreSender(store.Notifications()))
	}
	return s
}

func (s *ReservationService) Availability() *AvailabilityChecker { return s.availability }

// ---------------- booking ----------------

// CreateReservation books room for customer over [start,end). staffID is the
// acting staff member, nil when the customer books for themselves.
func (s *ReservationService) CreateReservation(ctx context.Context, customer *models.Customer, room *models.Room, start, end time.Time, staffID *uint) (*models.Reservation, error) {
	if customer == nil {
		return nil, apperror.InvalidInput("customer is required")
	}
	if room == nil {
		return nil, apperror.InvalidInput("room is required")
	}
	start, end = models.DateOnly(start), models.DateOnly(end)
	if !end.After(start) {
		return nil, apperror.InvalidInput("end date must be after start date")
	}
	if room.Capacity <= 0 {
		return nil, apperror.InvalidInput("room capacity must be positive")
	}

	var actor *models.Staff
	if staffID != nil {
		var err error
		if actor, err = s.loadStaff(ctx, *staffID); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	unlock, err := s.locker.Lock(ctx, room.ID)
	if err != nil {
		return nil, storeError(ctx, err)
	}
	defer unlock()

	var created *models.Reservation
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		locked, err := tx.Rooms().FindByIDForUpdate(ctx, room.ID)
		if err != nil {
			return err
		}
		conflict, err := findConflict(ctx, tx, locked.ID, start, end)
		if err != nil {
			return err
		}
		if conflict != nil {
			return apperror.RoomUnavailable(conflict.ID)
		}

		res := &models.Reservation{
			CustomerID:    customer.ID,
			RoomID:        locked.ID,
			StartDate:     start,
			EndDate:       end,
			TotalPrice:    s.pricing.CalculatePrice(locked, models.NightsBetween(start, end)),
			PaymentStatus: models.PaymentUnpaid,
			State:         models.StatePending,
		}
		if err := tx.Reservations().Create(ctx, res); err != nil {
			return err
		}
		if err := tx.Rooms().UpdateStatus(ctx, locked.ID, models.RoomReserved); err != nil {
			return err
		}
		locked.Status = models.RoomReserved
		res.Customer = customer
		res.Room = locked
		created = res
		return nil
	})
	if err != nil {
		return nil, storeError(ctx, err)
	}

	by := customer.DisplayName()
	if actor != nil {
		by = actor.DisplayName()
	}
	log.Printf("📅 reservation #%d created for room %s (%s → %s) by %s",
		created.ID, created.Room.RoomNumber, models.FormatDate(start), models.FormatDate(end), by)
	s.notify(ctx, created, actor, true, fmt.Sprintf("Created by %s • %s", by, Summary(created)))
	return created, nil
}

// BookRoom loads the customer and room by id and books them.
func (s *ReservationService) BookRoom(ctx context.Context, customerID, roomID uint, start, end time.Time, staffID *uint) (*models.Reservation, error) {
	customer, err := readWithRetry(ctx, s, func(ctx context.Context) (*models.Customer, error) {
		return s.store.Customers().FindByID(ctx, customerID)
	})
	if err != nil {
		return nil, err
	}
	room, err := readWithRetry(ctx, s, func(ctx context.Context) (*models.Room, error) {
		return s.store.Rooms().FindByID(ctx, roomID)
	})
	if err != nil {
		return nil, err
	}
	return s.CreateReservation(ctx, customer, room, start, end, staffID)
}

// ---------------- lifecycle ----------------

func (s *ReservationService) CheckIn(ctx context.Context, reservationID, staffID uint) (*models.Reservation, error) {
	actor, err := s.loadStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	res, changed, err := s.mutate(ctx, reservationID, func(tx repository.Store, res *models.Reservation) (bool, error) {
		switch res.State {
		case models.StatePending, models.StateActive:
		case models.StateCheckedIn:
			return false, nil
		case models.StateCanceled, models.StateCompleted:
			return false, apperror.InvalidTransition(string(res.State), string(models.ActionCheckIn),
				fmt.Sprintf("cannot check-in in the current state: %s", res.State))
		default:
			return false, apperror.InvalidTransition(string(res.State), string(models.ActionCheckIn),
				fmt.Sprintf("unknown reservation state %q", res.State))
		}

		next, err := res.State.OnCheckIn()
		if err != nil {
			return false, err
		}
		if err := tx.Reservations().UpdateStatus(ctx, res.ID, next); err != nil {
			return false, err
		}
		if err := tx.Rooms().UpdateStatus(ctx, res.RoomID, models.RoomOccupied); err != nil {
			return false, err
		}
		res.State = next
		setRoomStatus(res, models.RoomOccupied)
		return true, tx.Actions().LogCheckIn(ctx, res, &staffID)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify(ctx, res, actor, false, fmt.Sprintf("Check-in by %s • %s", actor.DisplayName(), Summary(res)))
	}
	return res, nil
}

// CheckOut completes the stay, settles payment and frees the room.
func (s *ReservationService) CheckOut(ctx context.Context, reservationID, staffID uint) (*models.Reservation, error) {
	actor, err := s.loadStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	res, _, err := s.mutate(ctx, reservationID, func(tx repository.Store, res *models.Reservation) (bool, error) {
		if res.State != models.StateCheckedIn {
			return false, apperror.InvalidTransition(string(res.State), string(models.ActionCheckOut),
				"check-out allowed only after check-in")
		}
		next, err := res.State.OnCheckOut()
		if err != nil {
			return false, err
		}
		if err := tx.Reservations().UpdateStatus(ctx, res.ID, next); err != nil {
			return false, err
		}
		if payment, changed := res.PaymentStatus.Settle(); changed {
			if err := tx.Reservations().UpdatePaymentStatus(ctx, res.ID, payment); err != nil {
				return false, err
			}
			res.PaymentStatus = payment
		}
		if err := tx.Rooms().UpdateStatus(ctx, res.RoomID, models.RoomAvailable); err != nil {
			return false, err
		}
		res.State = next
		setRoomStatus(res, models.RoomAvailable)
		return true, tx.Actions().LogCheckOut(ctx, res, &staffID)
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, res, actor, false, fmt.Sprintf("Check-out by %s • %s", actor.DisplayName(), Summary(res)))
	return res, nil
}

// CancelReservation is the staff-initiated cancel. No ownership check.
func (s *ReservationService) CancelReservation(ctx context.Context, reservationID, staffID uint) (*models.Reservation, error) {
	actor, err := s.loadStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, reservationID, nil, actor)
}

// CancelReservationByCustomer cancels on behalf of the owning customer. A
// reservation of another customer reads as not found.
func (s *ReservationService) CancelReservationByCustomer(ctx context.Context, reservationID, customerID uint) (*models.Reservation, error) {
	return s.cancel(ctx, reservationID, &customerID, nil)
}

func (s *ReservationService) cancel(ctx context.Context, reservationID uint, ownerID *uint, actor *models.Staff) (*models.Reservation, error) {
	var staffID *uint
	if actor != nil {
		id := actor.ID
		staffID = &id
	}

	res, _, err := s.mutate(ctx, reservationID, func(tx repository.Store, res *models.Reservation) (bool, error) {
		if ownerID != nil && res.CustomerID != *ownerID {
			return false, apperror.NotFound("reservation not found for this customer")
		}
		if err := cancelGuard(res.State); err != nil {
			return false, err
		}
		next, err := res.State.OnCancel()
		if err != nil {
			return false, err
		}
		if err := tx.Reservations().UpdateStatus(ctx, res.ID, next); err != nil {
			return false, err
		}
		if payment, refunded := res.PaymentStatus.OnCancel(); refunded {
			if err := tx.Reservations().UpdatePaymentStatus(ctx, res.ID, payment); err != nil {
				return false, err
			}
			res.PaymentStatus = payment
		}
		if err := tx.Rooms().UpdateStatus(ctx, res.RoomID, models.RoomAvailable); err != nil {
			return false, err
		}
		res.State = next
		setRoomStatus(res, models.RoomAvailable)
		return true, tx.Actions().LogCancel(ctx, res, staffID)
	})
	if err != nil {
		return nil, err
	}

	by := res.Customer.DisplayName()
	if actor != nil {
		by = actor.DisplayName()
	}
	s.notify(ctx, res, actor, false, fmt.Sprintf("Canceled by %s • %s", by, Summary(res)))
	return res, nil
}

func cancelGuard(state models.ReservationState) error {
	var msg string
	switch state {
	case models.StatePending, models.StateActive:
		return nil
	case models.StateCanceled:
		msg = "reservation is already canceled"
	case models.StateCheckedIn:
		msg = "cannot cancel after check-in"
	case models.StateCompleted:
		msg = "cannot cancel a completed reservation"
	default:
		msg = fmt.Sprintf("unknown reservation state %q", state)
	}
	return apperror.InvalidTransition(string(state), string(models.ActionCancel), msg)
}

// ---------------- payment ----------------

// MarkPaid is a no-op when the reservation is already paid.
func (s *ReservationService) MarkPaid(ctx context.Context, reservationID, staffID uint) (*models.Reservation, error) {
	return s.changePayment(ctx, reservationID, staffID, models.PaymentStatus.MarkPaid, "Payment marked PAID by %s • %s")
}

// Refund moves a paid reservation to refunded without touching its lifecycle state.
// Refunding an unpaid reservation fails with InvalidTransition, and so does a
// later MarkPaid on a refunded one.
func (s *ReservationService) Refund(ctx context.Context, reservationID, staffID uint) (*models.Reservation, error) {
	return s.changePayment(ctx, reservationID, staffID, models.PaymentStatus.Refund, "Payment REFUNDED by %s • %s")
}

func (s *ReservationService) changePayment(ctx context.Context, reservationID, staffID uint,
	transition func(models.PaymentStatus) (models.PaymentStatus, bool, error), format string) (*models.Reservation, error) {
	actor, err := s.loadStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}
	res, changed, err := s.mutate(ctx, reservationID, func(tx repository.Store, res *models.Reservation) (bool, error) {
		next, changed, err := transition(res.PaymentStatus)
		if err != nil || !changed {
			return false, err
		}
		if err := tx.Reservations().UpdatePaymentStatus(ctx, res.ID, next); err != nil {
			return false, err
		}
		res.PaymentStatus = next
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.notify(ctx, res, actor, false, fmt.Sprintf(format, actor.DisplayName(), Summary(res)))
	}
	return res, nil
}

// ---------------- reads ----------------

func (s *ReservationService) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return readWithRetry(ctx, s, func(ctx context.Context) (*models.Reservation, error) {
		return s.store.Reservations().FindByID(ctx, id)
	})
}

func (s *ReservationService) ListAll(ctx context.Context) ([]models.Reservation, error) {
	return readWithRetry(ctx, s, s.store.Reservations().FindAll)
}

func (s *ReservationService) ListByCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	return readWithRetry(ctx, s, func(ctx context.Context) ([]models.Reservation, error) {
		return s.store.Reservations().FindByCustomer(ctx, customerID)
	})
}

// ListHistory returns completed, canceled and already ended stays.
func (s *ReservationService) ListHistory(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	today := models.DateOnly(s.now())
	return readWithRetry(ctx, s, func(ctx context.Context) ([]models.Reservation, error) {
		return s.store.Reservations().FindHistoryByCustomer(ctx, customerID, today)
	})
}

func (s *ReservationService) Search(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		return nil, apperror.InvalidInput("end date must not be before start date")
	}
	return readWithRetry(ctx, s, func(ctx context.Context) ([]models.Reservation, error) {
		return s.store.Reservations().FindByFilters(ctx, f)
	})
}

func (s *ReservationService) ListActions(ctx context.Context, reservationID uint) ([]models.ReservationAction, error) {
	return readWithRetry(ctx, s, func(ctx context.Context) ([]models.ReservationAction, error) {
		return s.store.Actions().ListForReservation(ctx, reservationID)
	})
}

func (s *ReservationService) SearchAvailableRooms(ctx context.Context, roomType models.RoomType, minCapacity int, start, end time.Time) ([]RoomAvailability, error) {
	return readWithRetry(ctx, s, func(ctx context.Context) ([]RoomAvailability, error) {
		return s.availability.SearchAvailableRooms(ctx, roomType, minCapacity, start, end)
	})
}

// ---------------- helpers ----------------

// mutate loads and row-locks the reservation inside one transaction and hands
// it to fn. Mutations are never retried.
func (s *ReservationService) mutate(ctx context.Context, id uint, fn func(tx repository.Store, res *models.Reservation) (bool, error)) (*models.Reservation, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		out     *models.Reservation
		changed bool
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		res, err := tx.Reservations().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if changed, err = fn(tx, res); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, false, storeError(ctx, err)
	}
	return out, changed, nil
}

func (s *ReservationService) loadStaff(ctx context.Context, id uint) (*models.Staff, error) {
	return readWithRetry(ctx, s, func(ctx context.Context) (*models.Staff, error) {
		return s.store.Staff().FindByID(ctx, id)
	})
}

// notify runs after commit. Delivery problems are logged and never reach the caller.
func (s *ReservationService) notify(ctx context.Context, res *models.Reservation, actor *models.Staff, broadcast bool, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.notifier.Notify(ctx, res, actor, broadcast, message); err != nil {
		log.Printf("⚠️  notification delivery for reservation #%d incomplete: %v", res.ID, err)
	}
}

func setRoomStatus(res *models.Reservation, status models.RoomStatus) {
	if res.Room != nil {
		res.Room.Status = status
	}
}

// Summary is the one-line description used in every notification.
func Summary(res *models.Reservation) string {
	roomNo, roomType := fmt.Sprintf("#%d", res.RoomID), "?"
	if res.Room != nil {
		roomNo, roomType = res.Room.RoomNumber, string(res.Room.Type)
	}
	return fmt.Sprintf("Reservation #%d • room %s (%s) • %s → %s • customer %s",
		res.ID, roomNo, roomType,
		models.FormatDate(res.StartDate), models.FormatDate(res.EndDate),
		res.Customer.DisplayName())
}

// readWithRetry bounds fn by the store timeout and retries it once after the
// backoff when the store is unavailable.
func readWithRetry[T any](ctx context.Context, s *ReservationService, fn func(context.Context) (T, error)) (T, error) {
	return retryRead(ctx, s.timeout, s.readBackoff, fn)
}

func retryRead[T any](ctx context.Context, timeout, backoff time.Duration, fn func(context.Context) (T, error)) (T, error) {
	attempt := func() (T, error) {
		c, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		v, err := fn(c)
		return v, storeError(c, err)
	}

	v, err := attempt()
	if err == nil || !errors.Is(err, apperror.ErrStoreUnavailable) || ctx.Err() != nil {
		return v, err
	}
	log.Printf("⚠️  store read failed, retrying in %s: %v", backoff, err)

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		var zero T
		return zero, apperror.StoreUnavailable(ctx.Err())
	case <-timer.C:
	}
	return attempt()
}

// storeError turns an expired or canceled context into StoreUnavailable and
// leaves typed errors alone.
func storeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.StoreUnavailable(err)
	}
	return err
}
