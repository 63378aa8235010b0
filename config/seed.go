package config

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"hotel-reservation/models"
	"hotel-reservation/repository"
)

// SeedDatabase fills an empty store with two staff accounts, a handful of
// rooms and a demo customer. Stores that already have rooms are left alone.
func SeedDatabase(ctx context.Context, store repository.Store) error {
	rooms, err := store.Rooms().List(ctx)
	if err != nil {
		return err
	}
	if len(rooms) > 0 {
		log.Println("Seed data already present")
		return nil
	}

	return store.Transaction(ctx, func(tx repository.Store) error {
		staff := []struct {
			member   models.Staff
			password string
		}{
			{models.Staff{Username: "admin", FirstName: "Hotel", LastName: "Admin", Email: "admin@hotel.local", Role: models.RoleAdmin, Active: true}, "admin123"},
			{models.Staff{Username: "frontdesk", FirstName: "Front", LastName: "Desk", Email: "frontdesk@hotel.local", Role: "receptionist", Active: true}, "desk123"},
		}
		for i := range staff {
			hash, err := hashPassword(staff[i].password)
			if err != nil {
				return err
			}
			staff[i].member.PasswordHash = hash
			if err := tx.Staff().Create(ctx, &staff[i].member); err != nil {
				return fmt.Errorf("seed staff %s: %w", staff[i].member.Username, err)
			}
		}

		sample := []models.Room{
			{RoomNumber: "101", Type: models.RoomStandard, Capacity: 2, PricePerNight: 1200},
			{RoomNumber: "102", Type: models.RoomStandard, Capacity: 2, PricePerNight: 1200},
			{RoomNumber: "201", Type: models.RoomFamily, Capacity: 4, PricePerNight: 2200},
			{RoomNumber: "301", Type: models.RoomSuite, Capacity: 3, PricePerNight: 3500},
		}
		for i := range sample {
			sample[i].Status = models.RoomAvailable
			if err := tx.Rooms().Create(ctx, &sample[i]); err != nil {
				return fmt.Errorf("seed room %s: %w", sample[i].RoomNumber, err)
			}
		}

		hash, err := hashPassword("guest123")
		if err != nil {
			return err
		}
		demo := &models.Customer{
			Username: "guest", FirstName: "Demo", LastName: "Guest",
			Email: "guest@example.com", PasswordHash: hash, Active: true,
		}
		if err := tx.Customers().Create(ctx, demo); err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}

		log.Printf("✅ Seeded %d staff, %d rooms and a demo customer", len(staff), len(sample))
		return nil
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
