package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"hotel-reservation/apperror"
	"hotel-reservation/models"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := OpenMemory(nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func withStore(t *testing.T, fn func(t *testing.T, s Store)) {
	fn(t, newSQLiteStore(t))
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fixture struct {
	alice, bob *models.Customer
	r101, r201 *models.Room
}

func seed(t *testing.T, s Store) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		alice: &models.Customer{Username: "alice", FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", NationalID: "1234567890123", Active: true},
		bob:   &models.Customer{Username: "bob", FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", Active: true},
		r101:  &models.Room{RoomNumber: "101", Type: models.RoomStandard, Capacity: 2, PricePerNight: 100, Status: models.RoomAvailable},
		r201:  &models.Room{RoomNumber: "201", Type: models.RoomSuite, Capacity: 4, PricePerNight: 250, Status: models.RoomAvailable},
	}
	for _, c := range []*models.Customer{f.alice, f.bob} {
		if err := s.Customers().Create(ctx, c); err != nil {
			t.Fatalf("create customer: %v", err)
		}
	}
	for _, r := range []*models.Room{f.r101, f.r201} {
		if err := s.Rooms().Create(ctx, r); err != nil {
			t.Fatalf("create room: %v", err)
		}
	}
	return f
}

func book(t *testing.T, s Store, c *models.Customer, r *models.Room, start, end string, state models.ReservationState) *models.Reservation {
	t.Helper()
	res := &models.Reservation{
		CustomerID:    c.ID,
		RoomID:        r.ID,
		StartDate:     day(start),
		EndDate:       day(end),
		TotalPrice:    r.PricePerNight,
		PaymentStatus: models.PaymentUnpaid,
		State:         state,
	}
	if err := s.Reservations().Create(context.Background(), res); err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return res
}

func TestFindFirstOverlapForRoom(t *testing.T) {
	withStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		f := seed(t, s)
		canceled := book(t, s, f.alice, f.r101, "2024-12-01", "2024-12-05", models.StateCanceled)
		book(t, s, f.alice, f.r101, "2024-12-03", "2024-12-06", models.StatePending)
		earlier := book(t, s, f.bob, f.r101, "2024-12-01", "2024-12-03", models.StatePending)

		got, err := s.Reservations().FindFirstOverlapForRoom(ctx, f.r101.ID, day("2024-12-02"), day("2024-12-04"))
		if err != nil {
			t.Fatalf("overlap: %v", err)
		}
		if got == nil || got.ID != earlier.ID {
			t.Fatalf("expected earliest conflict #%d, got %+v", earlier.ID, got)
		}
		if got.ID == canceled.ID {
			t.Fatalf("canceled reservation must not conflict")
		}

		got, err = s.Reservations().FindFirstOverlapForRoom(ctx, f.r101.ID, day("2024-12-06"), day("2024-12-08"))
		if err != nil || got != nil {
			t.Fatalf("checkout day must be free, got %+v, %v", got, err)
		}

		got, err = s.Reservations().FindFirstOverlapForRoom(ctx, f.r201.ID, day("2024-12-01"), day("2024-12-10"))
		if err != nil || got != nil {
			t.Fatalf("other room must be free, got %+v, %v", got, err)
		}
	})
}

func TestFindByFilters(t *testing.T) {
	withStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		f := seed(t, s)
		a := book(t, s, f.alice, f.r101, "2024-12-01", "2024-12-03", models.StatePending)
		b := book(t, s, f.bob, f.r201, "2024-12-10", "2024-12-12", models.StatePending)

		got, err := s.Reservations().FindByFilters(ctx, models.ReservationFilter{CustomerText: "SMITH"})
		if err != nil {
			t.Fatalf("filter: %v", err)
		}
		if len(got) != 1 || got[0].ID != a.ID {
			t.Fatalf("customer text filter returned %+v", got)
		}
		if got[0].Customer == nil || got[0].Room == nil {
			t.Fatalf("references should be loaded")
		}

		got, _ = s.Reservations().FindByFilters(ctx, models.ReservationFilter{RoomText: "suite"})
		if len(got) != 1 || got[0].ID != b.ID {
			t.Fatalf("room text filter returned %+v", got)
		}

		start, end := day("2024-12-03"), day("2024-12-09")
		got, _ = s.Reservations().FindByFilters(ctx, models.ReservationFilter{Start: &start, End: &end})
		if len(got) != 1 || got[0].ID != a.ID {
			t.Fatalf("inclusive range should catch the reservation ending on the start day, got %+v", got)
		}

		got, _ = s.Reservations().FindByFilters(ctx, models.ReservationFilter{Start: &end})
		if len(got) != 1 || got[0].ID != b.ID {
			t.Fatalf("start-only filter returned %+v", got)
		}

		got, _ = s.Reservations().FindByFilters(ctx, models.ReservationFilter{End: &start})
		if len(got) != 1 || got[0].ID != a.ID {
			t.Fatalf("end-only filter returned %+v", got)
		}

		got, _ = s.Reservations().FindByFilters(ctx, models.ReservationFilter{})
		if len(got) != 2 {
			t.Fatalf("empty filter should list everything, got %d", len(got))
		}
	})
}

func TestFindHistoryByCustomer(t *testing.T) {
	withStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		f := seed(t, s)
		past := book(t, s, f.alice, f.r101, "2024-11-01", "2024-11-03", models.StatePending)
		done := book(t, s, f.alice, f.r101, "2024-12-20", "2024-12-22", models.StateCompleted)
		book(t, s, f.alice, f.r201, "2024-12-20", "2024-12-22", models.StatePending)
		book(t, s, f.bob, f.r101, "2024-10-01", "2024-10-02", models.StateCanceled)

		got, err := s.Reservations().FindHistoryByCustomer(ctx, f.alice.ID, day("2024-12-15"))
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 history rows, got %d", len(got))
		}
		if got[0].ID != done.ID || got[1].ID != past.ID {
			t.Fatalf("history should be ordered by end date desc: %d, %d", got[0].ID, got[1].ID)
		}
	})
}

func TestReservationUpdatesAndActionLog(t *testing.T) {
	withStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		f := seed(t, s)
		res := book(t, s, f.alice, f.r101, "2024-12-01", "2024-12-03", models.StatePending)

		if err := s.Reservations().UpdateStatus(ctx, res.ID, models.StateCheckedIn); err != nil {
			t.Fatalf("update status: %v", err)
		}
		if err := s.Reservations().UpdatePaymentStatus(ctx, res.ID, models.PaymentPaid); err != nil {
			t.Fatalf("update payment: %v", err)
		}
		loaded, err := s.Reservations().FindByIDForUpdate(ctx, res.ID)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if loaded.State != models.StateCheckedIn || loaded.PaymentStatus != models.PaymentPaid {
			t.Fatalf("unexpected reservation %+v", loaded)
		}

		staffID := uint(7)
		if err := s.Actions().LogCheckIn(ctx, loaded, &staffID); err != nil {
			t.Fatalf("log: %v", err)
		}
		if err := s.Actions().LogCancel(ctx, loaded, nil); err != nil {
			t.Fatalf("log: %v", err)
		}
		actions, err := s.Actions().ListForReservation(ctx, res.ID)
		if err != nil || len(actions) != 2 {
			t.Fatalf("expected 2 actions, got %d (%v)", len(actions), err)
		}
		if actions[0].ActionType != models.ActionCheckIn || actions[0].StaffID == nil || *actions[0].StaffID != 7 {
			t.Fatalf("unexpected first action %+v", actions[0])
		}
		if actions[1].StaffID != nil {
			t.Fatalf("customer cancel should carry no staff id")
		}
		if len(actions[0].Snapshot) == 0 {
			t.Fatalf("snapshot should be recorded")
		}

		if _, err := s.Reservations().FindByID(ctx, 9999); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("expected NotFound, got %v", err)
		}
	})
}

func TestTransactionRollsBack(t *testing.T) {
	withStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		f := seed(t, s)
		boom := errors.New("boom")

		err := s.Transaction(ctx, func(tx Store) error {
			if err := tx.Rooms().UpdateStatus(ctx, f.r101.ID, models.RoomMaintenance); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected the callback error, got %v", err)
		}
		room, err := s.Rooms().FindByID(ctx, f.r101.ID)
		if err != nil {
			t.Fatalf("find room: %v", err)
		}
		if room.Status != models.RoomAvailable {
			t.Fatalf("rolled back status leaked: %s", room.Status)
		}

		err = s.Transaction(ctx, func(tx Store) error {
			return tx.Rooms().UpdateStatus(ctx, f.r101.ID, models.RoomReserved)
		})
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
		room, _ = s.Rooms().FindByID(ctx, f.r101.ID)
		if room.Status != models.RoomReserved {
			t.Fatalf("committed status missing: %s", room.Status)
		}
	})
}

func TestStaffAndCustomerLookups(t *testing.T) {
	withStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seed(t, s)
		staff := []*models.Staff{
			{Username: "admin", Email: "admin@hotel.local", Role: "Admin", Active: true},
			{Username: "desk", Email: "desk@hotel.local", Role: "receptionist", Active: true},
			{Username: "gone", Email: "gone@hotel.local", Role: "admin", Active: false},
		}
		for _, st := range staff {
			if err := s.Staff().Create(ctx, st); err != nil {
				t.Fatalf("create staff: %v", err)
			}
		}
		active, err := s.Staff().FindAllActive(ctx)
		if err != nil || len(active) != 2 {
			t.Fatalf("expected 2 active staff, got %d (%v)", len(active), err)
		}
		admins, err := s.Staff().FindActiveByRole(ctx, models.RoleAdmin)
		if err != nil || len(admins) != 1 || admins[0].Username != "admin" {
			t.Fatalf("expected only the active admin, got %+v (%v)", admins, err)
		}

		c, err := s.Customers().FindByIdentifier(ctx, "BOB@example.com")
		if err != nil || c.Username != "bob" {
			t.Fatalf("lookup by email failed: %+v %v", c, err)
		}
		c.Active = false
		if err := s.Customers().Update(ctx, c); err != nil {
			t.Fatalf("update: %v", err)
		}
		if active, err := s.Customers().IsActive(ctx, c.ID); err != nil || active {
			t.Fatalf("customer should be inactive (%v)", err)
		}
		if _, err := s.Customers().FindByIdentifier(ctx, "nobody"); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("expected NotFound, got %v", err)
		}

		rooms, err := s.Rooms().SearchByTypeAndCapacity(ctx, models.RoomSuite, 3)
		if err != nil || len(rooms) != 1 || rooms[0].RoomNumber != "201" {
			t.Fatalf("search returned %+v (%v)", rooms, err)
		}
		rooms, _ = s.Rooms().SearchByTypeAndCapacity(ctx, "", 1)
		if len(rooms) != 2 {
			t.Fatalf("empty type should match all rooms, got %d", len(rooms))
		}
	})
}

func TestNotificationInbox(t *testing.T) {
	withStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		first, err := s.Notifications().Create(ctx, models.RecipientCustomer, 1, "hello")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := s.Notifications().Create(ctx, models.RecipientCustomer, 1, "again"); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := s.Notifications().Create(ctx, models.RecipientStaff, 1, "staff"); err != nil {
			t.Fatalf("create: %v", err)
		}

		if err := s.Notifications().MarkRead(ctx, first.ID); err != nil {
			t.Fatalf("mark read: %v", err)
		}
		changed, err := s.Notifications().MarkAllRead(ctx, models.RecipientCustomer, 1)
		if err != nil || changed != 1 {
			t.Fatalf("expected 1 newly read, got %d (%v)", changed, err)
		}
		inbox, _ := s.Notifications().ListForRecipient(ctx, models.RecipientCustomer, 1)
		if len(inbox) != 2 {
			t.Fatalf("expected 2 customer notifications, got %d", len(inbox))
		}
		for _, n := range inbox {
			if !n.Read {
				t.Fatalf("notification %d should be read", n.ID)
			}
		}
		staffInbox, _ := s.Notifications().ListForRecipient(ctx, models.RecipientStaff, 1)
		if len(staffInbox) != 1 || staffInbox[0].Read {
			t.Fatalf("staff inbox should be untouched: %+v", staffInbox)
		}
		if err := s.Notifications().MarkRead(ctx, 999); !errors.Is(err, apperror.ErrNotFound) {
			t.Fatalf("expected NotFound, got %v", err)
		}
	})
}

func TestCanceledContextIsStoreUnavailable(t *testing.T) {
	s := newSQLiteStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Rooms().List(ctx); !errors.Is(err, apperror.ErrStoreUnavailable) {
		t.Fatalf("expected StoreUnavailable, got %v", err)
	}
	err := s.Transaction(ctx, func(Store) error { return nil })
	if !errors.Is(err, apperror.ErrStoreUnavailable) {
		t.Fatalf("expected StoreUnavailable, got %v", err)
	}
}

func TestReservationForUnknownRoomIsInvalidInput(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	f := seed(t, s)
	err := s.Reservations().Create(ctx, &models.Reservation{
		CustomerID: f.alice.ID, RoomID: 404, StartDate: day("2025-01-01"), EndDate: day("2025-01-02"),
		PaymentStatus: models.PaymentUnpaid, State: models.StatePending,
	})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected InvalidInput for a dangling room, got %v", err)
	}
}

func TestMapError(t *testing.T) {
	if err := mapError(gorm.ErrRecordNotFound); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("record not found should map to NotFound, got %v", err)
	}
	if err := mapError(context.DeadlineExceeded); !errors.Is(err, apperror.ErrStoreUnavailable) {
		t.Fatalf("deadline should map to StoreUnavailable, got %v", err)
	}
	if err := mapError(gorm.ErrDuplicatedKey); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate should map to Conflict, got %v", err)
	}
	orig := apperror.InvalidInput("bad")
	if err := mapError(orig); err != orig {
		t.Fatalf("typed errors should pass through")
	}
}
