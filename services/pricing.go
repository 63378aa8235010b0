package services

import "hotel-reservation/models"

// PricingStrategy computes the total price of a stay once, at booking time.
type PricingStrategy interface {
	CalculatePrice(room *models.Room, nights int) float64
}

// PricingFunc adapts a plain function to PricingStrategy.
type PricingFunc func(room *models.Room, nights int) float64

func (f PricingFunc) CalculatePrice(room *models.Room, nights int) float64 { return f(room, nights) }

// DefaultPricing charges the nightly rate for every night, with a one-night
// minimum for zero or negative counts.
type DefaultPricing struct{}

func (DefaultPricing) CalculatePrice(room *models.Room, nights int) float64 {
	if nights < 1 {
		nights = 1
	}
	return room.PricePerNight * float64(nights)
}
