package services

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/FRMWRKD/mooderi-sub001/config"
	"github.com/FRMWRKD/mooderi-sub001/database"
	"github.com/FRMWRKD/mooderi-sub001/models"
	"github.com/FRMWRKD/mooderi-sub001/repositories"
)

type NotificationService interface {
	ListNotifications(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID uint, ids []uint) error
}

type notificationService struct {
	notifications repositories.NotificationRepository
}

func NewNotificationService(notifications repositories.NotificationRepository) NotificationService {
	return &notificationService{notifications: notifications}
}

func (s *notificationService) ListNotifications(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	list, err := s.notifications.ListByUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list notifications", err)
	}
	return list, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID uint, ids []uint) error {
	if err := s.notifications.MarkRead(ctx, nil, userID, ids); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to mark notifications read", err)
	}
	return nil
}

// StartRetentionWorkers launches the background loop that prunes old
// read notifications.
func StartRetentionWorkers() {
	go notificationCleanupLoop()
}

func notificationCleanupLoop() {
	interval := time.Duration(config.AppConfig.Notifications.CleanupInterval) * time.Second
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cleanExpiredNotifications()
	}
}

func cleanExpiredNotifications() {
	retention := time.Duration(config.AppConfig.Notifications.RetentionDays) * 24 * time.Hour
	cutoff := time.Now().Add(-retention)

	result := database.DB.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{})
	if result.Error != nil {
		log.Printf("notification cleanup failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("pruned %d read notifications", result.RowsAffected)
	}
}
