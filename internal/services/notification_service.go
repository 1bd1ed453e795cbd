package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/komiteplus/committee-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService owns the notifications table and the in-process
// insert stream. Every successful Create is published to subscribers
// after the row is committed, so listeners never see rows that failed
// to persist.
type NotificationService struct {
	db *gorm.DB

	mu        sync.Mutex
	listeners map[int]func(models.Notification)
	nextID    int
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		db:        db,
		listeners: make(map[int]func(models.Notification)),
	}
}

func (s *NotificationService) Create(userID uuid.UUID, ntype, content string, link *string, metadata datatypes.JSON) (*models.Notification, error) {
	n := models.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     ntype,
		Content:  content,
		Link:     link,
		Metadata: metadata,
	}

	if err := s.db.Create(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.publish(n)
	return &n, nil
}

func (s *NotificationService) List(userID uuid.UUID) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flips is_read on a single notification, scoped to its
// owner so one user cannot touch another's rows.
func (s *NotificationService) MarkRead(userID, id uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}

// SubscribeInserts registers a listener for every new notification.
// The returned function unsubscribes it.
func (s *NotificationService) SubscribeInserts(fn func(models.Notification)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *NotificationService) publish(n models.Notification) {
	s.mu.Lock()
	fns := make([]func(models.Notification), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(n)
	}
}
