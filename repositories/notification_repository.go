package repositories

import (
	"context"

	"github.com/FRMWRKD/mooderi-sub001/models"

	"gorm.io/gorm"
)

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Create(_ context.Context, tx *gorm.DB, notification *models.Notification) error {
	return useTx(r.db, tx).Create(notification).Error
}

func (r *GormNotificationRepository) ListByUser(_ context.Context, tx *gorm.DB, userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := useTx(r.db, tx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *GormNotificationRepository) MarkRead(_ context.Context, tx *gorm.DB, userID uint, ids []uint) error {
	query := useTx(r.db, tx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	return query.Update("is_read", true).Error
}
