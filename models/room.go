package models

import (
	"strings"
	"time"
)

type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomSuite    RoomType = "suite"
	RoomFamily   RoomType = "family"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomReserved    RoomStatus = "reserved"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomInactive    RoomStatus = "inactive"
)

// Room status is written by the booking engine on reservation events; staff
// may additionally switch it between available, maintenance and inactive.
type Room struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	RoomNumber    string     `gorm:"column:room_number;uniqueIndex;type:varchar(50)" json:"roomNumber" validate:"required,max=50"`
	Type          RoomType   `gorm:"column:room_type;type:varchar(20);index" json:"type" validate:"required,oneof=standard suite family"`
	Capacity      int        `gorm:"column:capacity" json:"capacity" validate:"gt=0"`
	PricePerNight float64    `gorm:"column:price_per_night" json:"pricePerNight" validate:"gt=0"`
	Status        RoomStatus `gorm:"column:status;type:varchar(20);default:available" json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NormalizeRoomType folds the legacy names (single, double, triple) onto the
// three supported types. Unknown values fall back to standard.
func NormalizeRoomType(raw string) RoomType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "standard", "single", "double":
		return RoomStandard
	case "suite":
		return RoomSuite
	case "family", "triple":
		return RoomFamily
	default:
		return RoomStandard
	}
}

func ParseRoomStatus(raw string) (RoomStatus, bool) {
	switch s := RoomStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case RoomAvailable, RoomReserved, RoomOccupied, RoomMaintenance, RoomInactive:
		return s, true
	default:
		return "", false
	}
}
