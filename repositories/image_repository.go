package repositories

import (
	"context"

	"github.com/FRMWRKD/mooderi-sub001/models"

	"gorm.io/gorm"
)

type GormImageRepository struct {
	db *gorm.DB
}

func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

func (r *GormImageRepository) CreateBatch(_ context.Context, tx *gorm.DB, images []*models.Image) error {
	if len(images) == 0 {
		return nil
	}
	return useTx(r.db, tx).Create(images).Error
}

func (r *GormImageRepository) GetByID(_ context.Context, tx *gorm.DB, imageID uint) (models.Image, error) {
	var image models.Image
	err := useTx(r.db, tx).First(&image, imageID).Error
	return image, err
}

func (r *GormImageRepository) List(_ context.Context, tx *gorm.DB, in ListImagesInput) ([]models.Image, int64, error) {
	query := useTx(r.db, tx).Model(&models.Image{})

	if in.OnlyPublic {
		query = query.Where("is_public = ?", true)
	}
	if in.UserID != nil {
		query = query.Where("user_id = ?", *in.UserID)
	}
	if in.Mood != "" {
		query = query.Where("mood = ?", in.Mood)
	}
	if in.Lighting != "" {
		query = query.Where("lighting = ?", in.Lighting)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var images []models.Image
	err := query.Order("created_at DESC").
		Offset(in.Offset).
		Limit(in.Limit).
		Find(&images).Error
	return images, total, err
}

func (r *GormImageRepository) ListByVideo(_ context.Context, tx *gorm.DB, videoID uint) ([]models.Image, error) {
	var images []models.Image
	err := useTx(r.db, tx).Where("video_id = ?", videoID).
		Order("created_at DESC").
		Find(&images).Error
	return images, err
}

func (r *GormImageRepository) CountBySourceURL(_ context.Context, tx *gorm.DB, sourceURL string) (int64, error) {
	var count int64
	err := useTx(r.db, tx).Model(&models.Image{}).
		Where("source_video_url = ?", sourceURL).
		Count(&count).Error
	return count, err
}

func (r *GormImageRepository) UpdateByID(_ context.Context, tx *gorm.DB, imageID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Image{}).
		Where("id = ?", imageID).
		Updates(updates).Error
}

func (r *GormImageRepository) UpdateByIDsAndUser(_ context.Context, tx *gorm.DB, imageIDs []uint, userID uint, updates map[string]interface{}) error {
	if len(imageIDs) == 0 {
		return nil
	}
	return useTx(r.db, tx).Model(&models.Image{}).
		Where("id IN ? AND user_id = ?", imageIDs, userID).
		Updates(updates).Error
}

func (r *GormImageRepository) DeleteByVideo(_ context.Context, tx *gorm.DB, videoID uint) error {
	return useTx(r.db, tx).Where("video_id = ?", videoID).
		Delete(&models.Image{}).Error
}
