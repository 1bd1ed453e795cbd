package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the application-level user record. ID equals the auth
// subject (User.ID). First/last name may be empty until the member
// finishes onboarding.
type Profile struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"not null;size:255;index" json:"email"`
	FirstName    string         `gorm:"size:100" json:"first_name"`
	LastName     string         `gorm:"size:100" json:"last_name"`
	Role         string         `gorm:"size:20;default:'viewer'" json:"role"`
	Organization *string        `gorm:"size:255" json:"organization,omitempty"`
	Position     *string        `gorm:"size:255" json:"position,omitempty"`
	Phone        *string        `gorm:"size:50" json:"phone,omitempty"`
	InvitedBy    *uuid.UUID     `gorm:"type:uuid" json:"invited_by,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Complete reports whether the member has finished onboarding.
func (p *Profile) Complete() bool {
	return p != nil && p.FirstName != "" && p.LastName != ""
}
