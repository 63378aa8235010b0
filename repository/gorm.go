package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-reservation/models"
)

// GormStore implements Store on top of a *gorm.DB. Inside Transaction the
// handle is the transaction itself.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates every table the engine uses, parents first.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.Customer{},
		&models.Staff{},
		&models.Room{},
		&models.Reservation{},
		&models.ReservationAction{},
		&models.Notification{},
	)
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) Customers() CustomerStore         { return gormCustomers{db: s.db} }
func (s *GormStore) Rooms() RoomStore                 { return gormRooms{db: s.db} }
func (s *GormStore) Staff() StaffStore                { return gormStaff{db: s.db} }
func (s *GormStore) Reservations() ReservationStore   { return gormReservations{db: s.db} }
func (s *GormStore) Actions() ActionLog               { return gormActions{db: s.db} }
func (s *GormStore) Notifications() NotificationStore { return gormNotifications{db: s.db} }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&GormStore{db: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return mapError(err)
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports it. SQLite
// serializes writers on its own.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector != nil && db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ---------------- customers ----------------

type gormCustomers struct{ db *gorm.DB }

func (r gormCustomers) Create(ctx context.Context, c *models.Customer) error {
	return mapError(r.db.WithContext(ctx).Create(c).Error)
}

func (r gormCustomers) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "customer")
	}
	return &c, nil
}

func (r gormCustomers) FindByIdentifier(ctx context.Context, identifier string) (*models.Customer, error) {
	key := strings.ToLower(strings.TrimSpace(identifier))
	var c models.Customer
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", key, key).
		Order("id").
		First(&c).Error
	if err != nil {
		return nil, notFound(err, "customer")
	}
	return &c, nil
}

// Update writes every column, including a false Active flag.
func (r gormCustomers) Update(ctx context.Context, c *models.Customer) error {
	return mapError(r.db.WithContext(ctx).Save(c).Error)
}

func (r gormCustomers) IsActive(ctx context.Context, id uint) (bool, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return c.Active, nil
}

// ---------------- rooms ----------------

type gormRooms struct{ db *gorm.DB }

func (r gormRooms) Create(ctx context.Context, room *models.Room) error {
	return mapError(r.db.WithContext(ctx).Create(room).Error)
}

func (r gormRooms) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

func (r gormRooms) FindByIDForUpdate(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := forUpdate(r.db.WithContext(ctx)).First(&room, id).Error; err != nil {
		return nil, notFound(err, "room")
	}
	return &room, nil
}

func (r gormRooms) UpdateStatus(ctx context.Context, id uint, status models.RoomStatus) error {
	return mapError(r.db.WithContext(ctx).
		Model(&models.Room{}).
		Where("id = ?", id).
		Update("status", status).Error)
}

func (r gormRooms) SearchByTypeAndCapacity(ctx context.Context, roomType models.RoomType, minCapacity int) ([]models.Room, error) {
	q := r.db.WithContext(ctx).Where("capacity >= ?", minCapacity)
	if roomType != "" {
		q = q.Where("room_type = ?", roomType)
	}
	var rooms []models.Room
	if err := q.Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, mapError(err)
	}
	return rooms, nil
}

func (r gormRooms) List(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := r.db.WithContext(ctx).Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, mapError(err)
	}
	return rooms, nil
}

// ---------------- staff ----------------

type gormStaff struct{ db *gorm.DB }

func (r gormStaff) Create(ctx context.Context, s *models.Staff) error {
	return mapError(r.db.WithContext(ctx).Create(s).Error)
}

func (r gormStaff) FindByID(ctx context.Context, id uint) (*models.Staff, error) {
	var s models.Staff
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, "staff")
	}
	return &s, nil
}

func (r gormStaff) FindAllActive(ctx context.Context) ([]models.Staff, error) {
	var out []models.Staff
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&out).Error; err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r gormStaff) FindActiveByRole(ctx context.Context, role string) ([]models.Staff, error) {
	var out []models.Staff
	err := r.db.WithContext(ctx).
		Where("active = ? AND LOWER(role) = ?", true, strings.ToLower(strings.TrimSpace(role))).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ---------------- reservations ----------------

type gormReservations struct{ db *gorm.DB }

func (r gormReservations) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Customer").Preload("Room")
}

func (r gormReservations) Create(ctx context.Context, res *models.Reservation) error {
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Create(res).Error)
}

func (r gormReservations) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.withRefs(ctx).First(&res, id).Error; err != nil {
		return nil, notFound(err, "reservation")
	}
	return &res, nil
}

func (r gormReservations) FindByIDForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	if err := forUpdate(r.db.WithContext(ctx)).First(&res, id).Error; err != nil {
		return nil, notFound(err, "reservation")
	}
	if err := r.loadRefs(ctx, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// loadRefs fills Customer and Room without taking locks on them.
func (r gormReservations) loadRefs(ctx context.Context, res *models.Reservation) error {
	var c models.Customer
	if err := r.db.WithContext(ctx).First(&c, res.CustomerID).Error; err != nil {
		return notFound(err, "customer")
	}
	var room models.Room
	if err := r.db.WithContext(ctx).First(&room, res.RoomID).Error; err != nil {
		return notFound(err, "room")
	}
	res.Customer = &c
	res.Room = &room
	return nil
}

func (r gormReservations) UpdateStatus(ctx context.Context, id uint, state models.ReservationState) error {
	return mapError(r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", state).Error)
}

func (r gormReservations) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	return mapError(r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("payment_status", status).Error)
}

func (r gormReservations) FindAll(ctx context.Context) ([]models.Reservation, error) {
	var out []models.Reservation
	if err := r.withRefs(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r gormReservations) FindByCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.withRefs(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r gormReservations) FindHistoryByCustomer(ctx context.Context, customerID uint, today time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.withRefs(ctx).
		Where("customer_id = ?", customerID).
		Where("(status IN ? OR end_date < ?)",
			[]models.ReservationState{models.StateCompleted, models.StateCanceled}, models.DateOnly(today)).
		Order("end_date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r gormReservations) FindByFilters(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	q := r.withRefs(ctx).
		Model(&models.Reservation{}).
		Joins("JOIN customers ON customers.id = reservations.customer_id").
		Joins("JOIN rooms ON rooms.id = reservations.room_id")

	if text := strings.ToLower(strings.TrimSpace(f.CustomerText)); text != "" {
		like := "%" + text + "%"
		q = q.Where(
			"(LOWER(customers.first_name) LIKE ? OR LOWER(customers.last_name) LIKE ? OR LOWER(customers.email) LIKE ? OR LOWER(customers.national_id) LIKE ? OR LOWER(customers.username) LIKE ?)",
			like, like, like, like, like,
		)
	}
	if text := strings.ToLower(strings.TrimSpace(f.RoomText)); text != "" {
		like := "%" + text + "%"
		q = q.Where("(LOWER(rooms.room_number) LIKE ? OR LOWER(rooms.room_type) LIKE ?)", like, like)
	}

	switch {
	case f.Start != nil && f.End != nil:
		q = q.Where("NOT (reservations.end_date < ? OR reservations.start_date > ?)",
			models.DateOnly(*f.Start), models.DateOnly(*f.End))
	case f.Start != nil:
		q = q.Where("reservations.end_date >= ?", models.DateOnly(*f.Start))
	case f.End != nil:
		q = q.Where("reservations.start_date <= ?", models.DateOnly(*f.End))
	}

	var out []models.Reservation
	if err := q.Order("reservations.created_at DESC, reservations.id DESC").Find(&out).Error; err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r gormReservations) FindFirstOverlapForRoom(ctx context.Context, roomID uint, start, end time.Time) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status <> ?", roomID, models.StateCanceled).
		Where("NOT (end_date <= ? OR start_date >= ?)", models.DateOnly(start), models.DateOnly(end)).
		Order("start_date ASC, id ASC").
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &res, nil
}

// ---------------- action log ----------------

type gormActions struct{ db *gorm.DB }

func (r gormActions) log(ctx context.Context, res *models.Reservation, action models.Action, staffID *uint) error {
	entry := newAction(res, action, staffID)
	return mapError(r.db.WithContext(ctx).Create(&entry).Error)
}

func (r gormActions) LogCheckIn(ctx context.Context, res *models.Reservation, staffID *uint) error {
	return r.log(ctx, res, models.ActionCheckIn, staffID)
}

func (r gormActions) LogCheckOut(ctx context.Context, res *models.Reservation, staffID *uint) error {
	return r.log(ctx, res, models.ActionCheckOut, staffID)
}

func (r gormActions) LogCancel(ctx context.Context, res *models.Reservation, staffID *uint) error {
	return r.log(ctx, res, models.ActionCancel, staffID)
}

func (r gormActions) ListForReservation(ctx context.Context, reservationID uint) ([]models.ReservationAction, error) {
	var out []models.ReservationAction
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// ---------------- notifications ----------------

type gormNotifications struct{ db *gorm.DB }

func (r gormNotifications) Create(ctx context.Context, kind models.RecipientKind, recipientID uint, message string) (*models.Notification, error) {
	n := models.Notification{RecipientKind: kind, RecipientID: recipientID, Message: message}
	if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, mapError(err)
	}
	return &n, nil
}

func (r gormNotifications) ListForRecipient(ctx context.Context, kind models.RecipientKind, recipientID uint) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_kind = ? AND recipient_id = ?", kind, recipientID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r gormNotifications) MarkRead(ctx context.Context, id uint) error {
	tx := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if tx.Error != nil {
		return mapError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return mapError(err)
		}
		if count == 0 {
			return notFound(gorm.ErrRecordNotFound, "notification")
		}
	}
	return nil
}

func (r gormNotifications) MarkAllRead(ctx context.Context, kind models.RecipientKind, recipientID uint) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_kind = ? AND recipient_id = ? AND is_read = ?", kind, recipientID, false).
		Update("is_read", true)
	if tx.Error != nil {
		return 0, mapError(tx.Error)
	}
	return tx.RowsAffected, nil
}
