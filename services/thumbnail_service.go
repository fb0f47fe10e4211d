package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/FRMWRKD/mooderi-sub001/config"
	"github.com/FRMWRKD/mooderi-sub001/repositories"

	"github.com/disintegration/imaging"
)

// ThumbnailService renders a local preview for a video from one of its
// approved frames and records the resulting path on the video row.
type ThumbnailService interface {
	GenerateVideoThumbnail(ctx context.Context, videoID uint, frameURL string) error
}

type thumbnailService struct {
	videos repositories.VideoRepository
	client *http.Client
}

func NewThumbnailService(videos repositories.VideoRepository) ThumbnailService {
	return &thumbnailService{
		videos: videos,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *thumbnailService) GenerateVideoThumbnail(ctx context.Context, videoID uint, frameURL string) error {
	cfg := config.AppConfig

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, frameURL, nil)
	if err != nil {
		return fmt.Errorf("build frame request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch frame: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch frame: status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	dir := filepath.Join(cfg.Storage.BasePath, "thumbnails")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}

	thumbPath := filepath.Join(dir, fmt.Sprintf("video_%d.jpg", videoID))
	thumb := imaging.Fit(img, cfg.Thumbnail.Width, cfg.Thumbnail.Height, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(cfg.Thumbnail.Quality)); err != nil {
		return fmt.Errorf("save thumbnail: %w", err)
	}

	relPath := fmt.Sprintf("/thumbnails/video_%d.jpg", videoID)
	if err := s.videos.UpdateByID(ctx, nil, videoID, map[string]interface{}{"thumbnail_url": relPath}); err != nil {
		return fmt.Errorf("record thumbnail path: %w", err)
	}
	return nil
}
