package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/FRMWRKD/mooderi-sub001/models"
	"github.com/FRMWRKD/mooderi-sub001/repositories"

	"gorm.io/gorm"
)

type VideoDetailOutput struct {
	Video  models.Video   `json:"video"`
	Frames []models.Image `json:"frames"`
}

// VideoLibraryService is the conventional CRUD surface over video rows.
// It never touches job state; deleting a video here does not cancel an
// in-flight extraction.
type VideoLibraryService interface {
	ListUserVideos(ctx context.Context, userID uint, limit int) ([]models.Video, error)
	GetVideoDetail(ctx context.Context, videoID uint) (VideoDetailOutput, error)
	DeleteVideo(ctx context.Context, videoID uint, userID uint, deleteFrames bool) error
}

type videoLibraryService struct {
	txManager TxManager
	videos    repositories.VideoRepository
	images    repositories.ImageRepository
}

func NewVideoLibraryService(txManager TxManager, videos repositories.VideoRepository, images repositories.ImageRepository) VideoLibraryService {
	return &videoLibraryService{txManager: txManager, videos: videos, images: images}
}

func (s *videoLibraryService) ListUserVideos(ctx context.Context, userID uint, limit int) ([]models.Video, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	videos, err := s.videos.ListByUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list videos", err)
	}
	return videos, nil
}

func (s *videoLibraryService) GetVideoDetail(ctx context.Context, videoID uint) (VideoDetailOutput, error) {
	video, err := s.videos.GetByID(ctx, nil, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VideoDetailOutput{}, newAppError(http.StatusNotFound, "video not found", nil)
		}
		return VideoDetailOutput{}, newAppError(http.StatusInternalServerError, "failed to query video", err)
	}

	frames, err := s.images.ListByVideo(ctx, nil, videoID)
	if err != nil {
		return VideoDetailOutput{}, newAppError(http.StatusInternalServerError, "failed to list frames", err)
	}

	return VideoDetailOutput{Video: video, Frames: frames}, nil
}

func (s *videoLibraryService) DeleteVideo(ctx context.Context, videoID uint, userID uint, deleteFrames bool) error {
	if _, err := s.videos.GetByIDAndUser(ctx, nil, videoID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newAppError(http.StatusNotFound, "video not found", nil)
		}
		return newAppError(http.StatusInternalServerError, "failed to query video", err)
	}

	err := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if deleteFrames {
			if err := s.images.DeleteByVideo(ctx, tx, videoID); err != nil {
				return err
			}
		}
		return s.videos.DeleteByIDAndUser(ctx, tx, videoID, userID)
	})
	if err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete video", err)
	}
	return nil
}
