package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification belongs to exactly one user. Rows are inserted by the
// various dashboard features (task assignment, meeting invites, forum
// replies) and consumed by the per-user notifications channel.
type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string         `gorm:"size:50;not null" json:"type"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Link      *string        `gorm:"size:500" json:"link,omitempty"`
	IsRead    bool           `gorm:"default:false;index" json:"is_read"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
