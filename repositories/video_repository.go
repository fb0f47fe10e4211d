package repositories

import (
	"context"

	"github.com/FRMWRKD/mooderi-sub001/models"

	"gorm.io/gorm"
)

type GormVideoRepository struct {
	db *gorm.DB
}

func NewGormVideoRepository(db *gorm.DB) *GormVideoRepository {
	return &GormVideoRepository{db: db}
}

func (r *GormVideoRepository) Create(_ context.Context, tx *gorm.DB, video *models.Video) error {
	return useTx(r.db, tx).Create(video).Error
}

func (r *GormVideoRepository) GetByID(_ context.Context, tx *gorm.DB, videoID uint) (models.Video, error) {
	var video models.Video
	err := useTx(r.db, tx).First(&video, videoID).Error
	return video, err
}

func (r *GormVideoRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, videoID uint, userID uint) (models.Video, error) {
	var video models.Video
	err := useTx(r.db, tx).Where("id = ? AND user_id = ?", videoID, userID).First(&video).Error
	return video, err
}

func (r *GormVideoRepository) ListByUser(_ context.Context, tx *gorm.DB, userID uint, limit int) ([]models.Video, error) {
	var videos []models.Video
	err := useTx(r.db, tx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *GormVideoRepository) UpdateByID(_ context.Context, tx *gorm.DB, videoID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Video{}).
		Where("id = ?", videoID).
		Updates(updates).Error
}

func (r *GormVideoRepository) DeleteByIDAndUser(_ context.Context, tx *gorm.DB, videoID uint, userID uint) error {
	return useTx(r.db, tx).Where("id = ? AND user_id = ?", videoID, userID).
		Delete(&models.Video{}).Error
}
