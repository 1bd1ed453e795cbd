package dto

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CreateNotificationRequest struct {
	UserID   uuid.UUID      `json:"user_id"`
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	Link     *string        `json:"link,omitempty"`
	Metadata datatypes.JSON `json:"metadata,omitempty"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
