package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hotel-reservation/apperror"
	"hotel-reservation/models"
	"hotel-reservation/repository"
)

type testEnv struct {
	store   *repository.GormStore
	svc     *ReservationService
	alice   *models.Customer
	bob     *models.Customer
	room    *models.Room
	suite   *models.Room
	admin   *models.Staff
	desk    *models.Staff
	retired *models.Staff
}

// newStore opens a private in-memory SQLite store closed with the test.
func newStore(t *testing.T) *repository.GormStore {
	t.Helper()
	store, err := repository.OpenMemory(nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, newStore(t), opts...)
}

// newTestEnvWithStore seeds two customers, two rooms and three staff members
// (one of them an inactive admin) into store.
func newTestEnvWithStore(t *testing.T, store *repository.GormStore, opts ...Option) *testEnv {
	t.Helper()
	ctx := context.Background()
	e := &testEnv{
		store:   store,
		alice:   &models.Customer{Username: "alice", FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Active: true},
		bob:     &models.Customer{Username: "bob", FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", Active: true},
		room:    &models.Room{RoomNumber: "101", Type: models.RoomStandard, Capacity: 2, PricePerNight: 100, Status: models.RoomAvailable},
		suite:   &models.Room{RoomNumber: "301", Type: models.RoomSuite, Capacity: 4, PricePerNight: 300, Status: models.RoomAvailable},
		admin:   &models.Staff{Username: "admin", FirstName: "Ada", LastName: "Admin", Email: "admin@hotel.local", Role: "admin", Active: true},
		desk:    &models.Staff{Username: "desk", FirstName: "Dan", LastName: "Desk", Email: "desk@hotel.local", Role: "receptionist", Active: true},
		retired: &models.Staff{Username: "retired", FirstName: "Rita", LastName: "Old", Email: "old@hotel.local", Role: "admin", Active: false},
	}
	for _, c := range []*models.Customer{e.alice, e.bob} {
		if err := store.Customers().Create(ctx, c); err != nil {
			t.Fatalf("seed customer: %v", err)
		}
	}
	for _, r := range []*models.Room{e.room, e.suite} {
		if err := store.Rooms().Create(ctx, r); err != nil {
			t.Fatalf("seed room: %v", err)
		}
	}
	for _, s := range []*models.Staff{e.admin, e.desk, e.retired} {
		if err := store.Staff().Create(ctx, s); err != nil {
			t.Fatalf("seed staff: %v", err)
		}
	}
	e.svc = NewReservationService(store, opts...)
	return e
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func (e *testEnv) book(t *testing.T, c *models.Customer, r *models.Room, start, end string) *models.Reservation {
	t.Helper()
	res, err := e.svc.CreateReservation(context.Background(), c, r, day(start), day(end), nil)
	if err != nil {
		t.Fatalf("book %s %s→%s: %v", r.RoomNumber, start, end, err)
	}
	return res
}

func (e *testEnv) inbox(t *testing.T, kind models.RecipientKind, id uint) []models.Notification {
	t.Helper()
	out, err := e.store.Notifications().ListForRecipient(context.Background(), kind, id)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	return out
}

func (e *testEnv) roomStatus(t *testing.T, id uint) models.RoomStatus {
	t.Helper()
	r, err := e.store.Rooms().FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("room: %v", err)
	}
	return r.Status
}

func assertKind(t *testing.T, err error, kind *apperror.Error) *apperror.Error {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %s, got %v", kind.Kind, err)
	}
	e, _ := apperror.As(err)
	return e
}

// recordingSender keeps every delivery in memory.
type recordingSender struct {
	mu   sync.Mutex
	sent []Recipient
	msgs []string
}

func (r *recordingSender) Send(_ context.Context, to Recipient, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to)
	r.msgs = append(r.msgs, message)
	return nil
}

type failingSender struct{ calls int32 }

func (f *failingSender) Send(context.Context, Recipient, string) error {
	atomic.AddInt32(&f.calls, 1)
	return errors.New("smtp down")
}

// flakyStore fails the first N reservation reads or row locks with
// StoreUnavailable.
type flakyStore struct {
	*repository.GormStore
	failures *int32
	calls    *int32
}

func (f flakyStore) Reservations() repository.ReservationStore {
	return flakyReservations{ReservationStore: f.GormStore.Reservations(), failures: f.failures, calls: f.calls}
}

func (f flakyStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return f.GormStore.Transaction(ctx, func(tx repository.Store) error {
		return fn(flakyStore{GormStore: tx.(*repository.GormStore), failures: f.failures, calls: f.calls})
	})
}

type flakyReservations struct {
	repository.ReservationStore
	failures *int32
	calls    *int32
}

func (f flakyReservations) fail() error {
	atomic.AddInt32(f.calls, 1)
	if atomic.AddInt32(f.failures, -1) >= 0 {
		return apperror.StoreUnavailable(errors.New("connection reset"))
	}
	return nil
}

func (f flakyReservations) FindAll(ctx context.Context) ([]models.Reservation, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.ReservationStore.FindAll(ctx)
}

func (f flakyReservations) FindByIDForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.ReservationStore.FindByIDForUpdate(ctx, id)
}
