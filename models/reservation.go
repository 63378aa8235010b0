package models

import (
	"time"
)

// Reservation.CustomerID, RoomID and TotalPrice are fixed at creation.
type Reservation struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	CustomerID    uint             `gorm:"column:customer_id;index;not null" json:"customerId"`
	RoomID        uint             `gorm:"column:room_id;index:idx_reservation_room_dates;not null" json:"roomId"`
	StartDate     time.Time        `gorm:"column:start_date;type:date;index:idx_reservation_room_dates" json:"startDate"`
	EndDate       time.Time        `gorm:"column:end_date;type:date;index:idx_reservation_room_dates" json:"endDate"`
	TotalPrice    float64          `gorm:"column:total_price" json:"totalPrice"`
	PaymentStatus PaymentStatus    `gorm:"column:payment_status;type:varchar(20);default:unpaid" json:"paymentStatus"`
	State         ReservationState `gorm:"column:status;type:varchar(20);default:pending;index" json:"state"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`

	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}

// ReservationFilter drives the staff search. Empty text and nil dates are ignored.
type ReservationFilter struct {
	CustomerText string
	RoomText     string
	Start        *time.Time
	End          *time.Time
}

const dateLayout = "2006-01-02"

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a reservation date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// NightsBetween counts calendar days from start to end. It can be zero or
// negative; pricing applies the one-night floor.
func NightsBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

// Overlaps reports whether [s1,e1) and [s2,e2) share a night. The checkout
// day is not occupied.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !(!e1.After(s2) || !s1.Before(e2))
}
