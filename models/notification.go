package models

import "time"

type RecipientKind string

const (
	RecipientCustomer RecipientKind = "customer"
	RecipientStaff    RecipientKind = "staff"
)

func ParseRecipientKind(raw string) (RecipientKind, bool) {
	switch k := RecipientKind(raw); k {
	case RecipientCustomer, RecipientStaff:
		return k, true
	}
	return "", false
}

// Notification rows are only created by reservation events; only Read changes afterwards.
type Notification struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	RecipientKind RecipientKind `gorm:"column:recipient_kind;type:varchar(20);index:idx_notification_recipient" json:"recipientKind"`
	RecipientID   uint          `gorm:"column:recipient_id;index:idx_notification_recipient" json:"recipientId"`
	Message       string        `gorm:"type:text" json:"message"`
	Read          bool          `gorm:"column:is_read;default:false" json:"read"`
	CreatedAt     time.Time     `json:"createdAt"`
}
