package models

import (
	"fmt"
	"strings"
	"time"
)

const RoleAdmin = "admin"

type Staff struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex" json:"username"`
	FirstName    string    `gorm:"size:100" json:"firstName"`
	LastName     string    `gorm:"size:100" json:"lastName"`
	Email        string    `gorm:"size:150;uniqueIndex" json:"email"`
	Role         string    `gorm:"size:30;index" json:"role"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Active       bool      `gorm:"not null" json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Staff) TableName() string { return "staff" }

func (s *Staff) IsAdmin() bool {
	return s != nil && strings.EqualFold(strings.TrimSpace(s.Role), RoleAdmin)
}

// DisplayName is "First Last (role)", or the username, or staff#<id>.
func (s *Staff) DisplayName() string {
	name := strings.TrimSpace(s.FirstName + " " + s.LastName)
	if name != "" {
		if s.Role != "" {
			return fmt.Sprintf("%s (%s)", name, s.Role)
		}
		return name
	}
	if u := strings.TrimSpace(s.Username); u != "" {
		return u
	}
	return fmt.Sprintf("staff#%d", s.ID)
}
