package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"hotel-reservation/apperror"
	"hotel-reservation/models"
	"hotel-reservation/repository"
)

type RoomService struct {
	store    repository.Store
	validate *validator.Validate
}

func NewRoomService(store repository.Store) *RoomService {
	return &RoomService{store: store, validate: validator.New()}
}

type CreateRoomInput struct {
	RoomNumber    string  `json:"roomNumber"`
	Type          string  `json:"type"`
	Capacity      int     `json:"capacity"`
	PricePerNight float64 `json:"pricePerNight"`
}

// Create registers a new room. Legacy type names are folded onto the
// supported ones before validation.
func (s *RoomService) Create(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	room := &models.Room{
		RoomNumber:    strings.TrimSpace(in.RoomNumber),
		Type:          models.NormalizeRoomType(in.Type),
		Capacity:      in.Capacity,
		PricePerNight: in.PricePerNight,
		Status:        models.RoomAvailable,
	}
	if err := s.validate.Struct(room); err != nil {
		return nil, validationError(err)
	}
	if err := s.store.Rooms().Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	return s.store.Rooms().List(ctx)
}

func (s *RoomService) Get(ctx context.Context, id uint) (*models.Room, error) {
	return s.store.Rooms().FindByID(ctx, id)
}

// SetStatus is the staff override. Reserved and occupied belong to the
// booking engine and cannot be set by hand.
func (s *RoomService) SetStatus(ctx context.Context, id uint, raw string) (*models.Room, error) {
	status, ok := models.ParseRoomStatus(raw)
	if !ok {
		return nil, apperror.InvalidInput("unknown room status %q", raw)
	}
	switch status {
	case models.RoomAvailable, models.RoomMaintenance, models.RoomInactive:
	case models.RoomReserved, models.RoomOccupied:
		return nil, apperror.InvalidInput("room status can only be set to available, maintenance or inactive")
	}

	var room *models.Room
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		r, err := tx.Rooms().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Rooms().UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		r.Status = status
		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// validationError flattens validator field errors into one InvalidInput.
func validationError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return apperror.InvalidInput("%v", err)
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", f.Field(), f.Tag(), f.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", f.Field(), f.Tag()))
		}
	}
	return apperror.InvalidInput("%s", strings.Join(parts, "; "))
}
