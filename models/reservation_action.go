package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReservationAction is the append-only audit trail of lifecycle actions.
// StaffID is nil for customer-initiated cancels.
type ReservationAction struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ReservationID uint           `gorm:"column:reservation_id;index;not null" json:"reservationId"`
	StaffID       *uint          `gorm:"column:staff_id" json:"staffId,omitempty"`
	ActionType    Action         `gorm:"column:action_type;type:varchar(20)" json:"actionType"`
	Snapshot      datatypes.JSON `gorm:"column:snapshot" json:"snapshot,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}
