package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"hotel-reservation/apperror"
	"hotel-reservation/models"
	"hotel-reservation/repository"
)

type CustomerService struct {
	store    repository.Store
	validate *validator.Validate
}

func NewCustomerService(store repository.Store) *CustomerService {
	return &CustomerService{store: store, validate: validator.New()}
}

type RegisterCustomerInput struct {
	Username   string `json:"username" validate:"required,max=50"`
	FirstName  string `json:"firstName" validate:"max=100"`
	LastName   string `json:"lastName" validate:"max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"max=30"`
	NationalID string `json:"nationalId" validate:"max=20"`
	Password   string `json:"password" validate:"required,min=6"`
}

// Register creates an active customer with a bcrypt-hashed password.
func (s *CustomerService) Register(ctx context.Context, in RegisterCustomerInput) (*models.Customer, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	c := &models.Customer{
		Username:     in.Username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		NationalID:   strings.TrimSpace(in.NationalID),
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.store.Customers().Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	return s.store.Customers().FindByID(ctx, id)
}

// Lookup finds a customer by username or email.
func (s *CustomerService) Lookup(ctx context.Context, identifier string) (*models.Customer, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, apperror.InvalidInput("identifier is required")
	}
	return s.store.Customers().FindByIdentifier(ctx, identifier)
}

// SetActive flips the active flag. Existing reservations are left as they are.
func (s *CustomerService) SetActive(ctx context.Context, id uint, active bool) (*models.Customer, error) {
	var out *models.Customer
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		c, err := tx.Customers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		c.Active = active
		if err := tx.Customers().Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
