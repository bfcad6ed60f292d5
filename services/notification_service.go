package services

import (
	"context"
	"errors"

	"agency-backoffice-api/config"
	"agency-backoffice-api/models"

	"gorm.io/gorm"
)

// NotificationService owns the notification feed. Read state is global: there
// is no per-user ownership of notifications.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db}
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).Where("is_read = ?", false).Count(&n).Error
	return n, err
}

// Feed is what the notification page renders.
type Feed struct {
	Items       []models.Notification `json:"items"`
	UnreadCount int                   `json:"unreadCount"`
}

// ViewFeed loads every notification newest first and then marks the loaded
// ones read. Rows inserted after the load stay unread. UnreadCount reflects
// the state before the update.
func (s *NotificationService) ViewFeed(ctx context.Context) (*Feed, error) {
	var items []models.Notification
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("notification_id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	unread := 0
	var maxID uint
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
		if n.NotificationID > maxID {
			maxID = n.NotificationID
		}
	}

	if unread > 0 {
		if err := s.markReadUpTo(ctx, maxID); err != nil {
			return nil, err
		}
	}
	return &Feed{Items: items, UnreadCount: unread}, nil
}

func (s *NotificationService) markReadUpTo(ctx context.Context, maxID uint) error {
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("is_read = ? AND notification_id <= ?", false, maxID).
		Update("is_read", true).Error
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	var n models.Notification
	if err := s.db.WithContext(ctx).Select("notification_id").First(&n, "notification_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationMissing
		}
		return err
	}
	return s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("notification_id = ?", id).
		Update("is_read", true).Error
}
