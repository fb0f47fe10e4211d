package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/FRMWRKD/mooderi-sub001/models"
	"github.com/FRMWRKD/mooderi-sub001/repositories"

	"gorm.io/gorm"
)

type ListImagesOutput struct {
	Images []models.Image `json:"images"`
	Total  int64          `json:"total"`
}

type ImageService interface {
	ListPublic(ctx context.Context, mood, lighting string, offset, limit int) (ListImagesOutput, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) (ListImagesOutput, error)
	SetVisibility(ctx context.Context, userID uint, imageID uint, isPublic bool) error
	SetVisibilityBulk(ctx context.Context, userID uint, imageIDs []uint, isPublic bool) error
}

type imageService struct {
	images repositories.ImageRepository
}

func NewImageService(images repositories.ImageRepository) ImageService {
	return &imageService{images: images}
}

func (s *imageService) ListPublic(ctx context.Context, mood, lighting string, offset, limit int) (ListImagesOutput, error) {
	images, total, err := s.images.List(ctx, nil, repositories.ListImagesInput{
		OnlyPublic: true,
		Mood:       mood,
		Lighting:   lighting,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return ListImagesOutput{}, newAppError(http.StatusInternalServerError, "failed to list images", err)
	}
	return ListImagesOutput{Images: images, Total: total}, nil
}

func (s *imageService) ListByUser(ctx context.Context, userID uint, offset, limit int) (ListImagesOutput, error) {
	images, total, err := s.images.List(ctx, nil, repositories.ListImagesInput{
		UserID: &userID,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return ListImagesOutput{}, newAppError(http.StatusInternalServerError, "failed to list images", err)
	}
	return ListImagesOutput{Images: images, Total: total}, nil
}

func (s *imageService) SetVisibility(ctx context.Context, userID uint, imageID uint, isPublic bool) error {
	image, err := s.images.GetByID(ctx, nil, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newAppError(http.StatusNotFound, "image not found", nil)
		}
		return newAppError(http.StatusInternalServerError, "failed to query image", err)
	}
	if image.UserID == nil || *image.UserID != userID {
		return newAppError(http.StatusForbidden, "not the owner of this image", nil)
	}

	if err := s.images.UpdateByID(ctx, nil, imageID, map[string]interface{}{"is_public": isPublic}); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to update image", err)
	}
	return nil
}

func (s *imageService) SetVisibilityBulk(ctx context.Context, userID uint, imageIDs []uint, isPublic bool) error {
	if len(imageIDs) == 0 {
		return newAppError(http.StatusBadRequest, "image_ids required", nil)
	}
	if err := s.images.UpdateByIDsAndUser(ctx, nil, imageIDs, userID, map[string]interface{}{"is_public": isPublic}); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to update images", err)
	}
	return nil
}
