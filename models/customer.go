package models

import (
	"fmt"
	"strings"
	"time"
)

// Customer deactivation does not cascade to reservations.
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex" json:"username"`
	FirstName    string    `gorm:"size:100" json:"firstName"`
	LastName     string    `gorm:"size:100" json:"lastName"`
	Email        string    `gorm:"size:150;uniqueIndex" json:"email"`
	Phone        string    `gorm:"size:30" json:"phone"`
	NationalID   string    `gorm:"column:national_id;size:20" json:"nationalId"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Active       bool      `gorm:"not null" json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName falls back to the username, then to customer#<id>.
func (c *Customer) DisplayName() string {
	if c == nil {
		return "customer"
	}
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		name = strings.TrimSpace(c.Username)
	}
	if name == "" {
		name = fmt.Sprintf("customer#%d", c.ID)
	}
	return name
}
