package repositories

import (
	"context"

	"github.com/FRMWRKD/mooderi-sub001/models"

	"gorm.io/gorm"
)

type TxManager interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type UserRepository interface {
	CountByUsername(ctx context.Context, username string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (models.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uint) (models.User, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, userID uint, updates map[string]interface{}) error
}

type VideoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, video *models.Video) error
	GetByID(ctx context.Context, tx *gorm.DB, videoID uint) (models.Video, error)
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, videoID uint, userID uint) (models.Video, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, limit int) ([]models.Video, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, videoID uint, updates map[string]interface{}) error
	DeleteByIDAndUser(ctx context.Context, tx *gorm.DB, videoID uint, userID uint) error
}

type ListImagesInput struct {
	UserID     *uint
	OnlyPublic bool
	Mood       string
	Lighting   string
	Offset     int
	Limit      int
}

type ImageRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, images []*models.Image) error
	GetByID(ctx context.Context, tx *gorm.DB, imageID uint) (models.Image, error)
	List(ctx context.Context, tx *gorm.DB, in ListImagesInput) ([]models.Image, int64, error)
	ListByVideo(ctx context.Context, tx *gorm.DB, videoID uint) ([]models.Image, error)
	CountBySourceURL(ctx context.Context, tx *gorm.DB, sourceURL string) (int64, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, imageID uint, updates map[string]interface{}) error
	UpdateByIDsAndUser(ctx context.Context, tx *gorm.DB, imageIDs []uint, userID uint, updates map[string]interface{}) error
	DeleteByVideo(ctx context.Context, tx *gorm.DB, videoID uint) error
}

type BoardRepository interface {
	Create(ctx context.Context, tx *gorm.DB, board *models.Board) error
	GetByIDAndUser(ctx context.Context, tx *gorm.DB, boardID uint, userID uint) (models.Board, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]models.Board, error)
	UpdateByID(ctx context.Context, tx *gorm.DB, boardID uint, updates map[string]interface{}) error
	DeleteByIDAndUser(ctx context.Context, tx *gorm.DB, boardID uint, userID uint) error
}

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, userID uint, ids []uint) error
}

// ProcessedVideoCache remembers source URLs that already produced library
// images, so repeat submissions short-circuit before a job is created.
type ProcessedVideoCache interface {
	IsProcessed(ctx context.Context, videoURL string) (bool, error)
	MarkProcessed(ctx context.Context, videoURL string) error
}

type Container struct {
	TxManager       TxManager
	Users           UserRepository
	Videos          VideoRepository
	Images          ImageRepository
	Boards          BoardRepository
	Notifications   NotificationRepository
	ProcessedVideos ProcessedVideoCache
}
