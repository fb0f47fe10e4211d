package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/FRMWRKD/mooderi-sub001/config"
	"github.com/FRMWRKD/mooderi-sub001/logger"
	"github.com/FRMWRKD/mooderi-sub001/models"
	"github.com/FRMWRKD/mooderi-sub001/repositories"

	"gorm.io/gorm"
)

const (
	defaultMood     = "Cinematic"
	defaultLighting = "Cinematic"
)

type ApproveInput struct {
	JobID        string
	ApprovedURLs []string
	VideoURL     string
	IsPublic     bool
	BoardID      *uint
}

type ApproveOutput struct {
	Success       bool   `json:"success"`
	ApprovedCount int    `json:"approved_count"`
	VideoID       *uint  `json:"video_id,omitempty"`
	Message       string `json:"message"`
}

type ApprovalService interface {
	Approve(ctx context.Context, in ApproveInput) (ApproveOutput, error)
}

type approvalService struct {
	store         JobStore
	txManager     TxManager
	images        repositories.ImageRepository
	videos        repositories.VideoRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	processed     repositories.ProcessedVideoCache
	analysis      AnalysisClient
	thumbnails    ThumbnailService
}

func NewApprovalService(
	store JobStore,
	txManager TxManager,
	images repositories.ImageRepository,
	videos repositories.VideoRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
	processed repositories.ProcessedVideoCache,
	analysis AnalysisClient,
	thumbnails ThumbnailService,
) ApprovalService {
	return &approvalService{
		store:         store,
		txManager:     txManager,
		images:        images,
		videos:        videos,
		users:         users,
		notifications: notifications,
		processed:     processed,
		analysis:      analysis,
		thumbnails:    thumbnails,
	}
}

// Approve persists the human-approved frames as library images. The
// batch insert is the correctness-critical step: it either fully
// succeeds or the whole call fails and can be retried. Everything after
// it (video bookkeeping, analysis, thumbnails, credits) is best-effort.
func (s *approvalService) Approve(ctx context.Context, in ApproveInput) (ApproveOutput, error) {
	if in.JobID == "" || len(in.ApprovedURLs) == 0 {
		return ApproveOutput{}, newAppError(http.StatusBadRequest, "job_id and approved_urls required", nil)
	}

	// Job context degrades gracefully after a restart: frames are still
	// persisted, just without the video/user linkage.
	var videoID, userID *uint
	job, jobFound := s.store.Get(in.JobID)
	if jobFound {
		if job.State.Status() == models.VideoStatusCompleted {
			return ApproveOutput{}, newAppError(http.StatusConflict, "frames already approved for this job", nil)
		}
		videoID = job.VideoID
		userID = job.UserID
	}

	images := make([]*models.Image, 0, len(in.ApprovedURLs))
	for _, url := range in.ApprovedURLs {
		images = append(images, &models.Image{
			ImageURL:       url,
			SourceVideoURL: in.VideoURL,
			SourceType:     models.SourceTypeVideoImport,
			VideoID:        videoID,
			UserID:         userID,
			BoardID:        in.BoardID,
			IsPublic:       in.IsPublic,
			Mood:           defaultMood,
			Lighting:       defaultLighting,
			Tags:           "[]",
			Colors:         "[]",
		})
	}

	if err := s.images.CreateBatch(ctx, nil, images); err != nil {
		return ApproveOutput{}, newAppError(http.StatusInternalServerError, "failed to save approved frames", err)
	}
	count := len(images)
	framesApprovedTotal.Add(float64(count))

	if videoID != nil {
		if err := s.videos.UpdateByID(ctx, nil, *videoID, map[string]interface{}{
			"frame_count": count,
			"status":      models.VideoStatusCompleted,
		}); err != nil {
			logger.Taskf(in.JobID, "could not update video frame count: %v", err)
		}
	}

	if jobFound {
		if err := s.store.SetState(in.JobID, CompletedState{FrameCount: count}); err != nil {
			logger.Taskf(in.JobID, "state update rejected: %v", err)
		}
	}

	if in.VideoURL != "" {
		if err := s.processed.MarkProcessed(ctx, in.VideoURL); err != nil {
			logger.Debugf("processed cache store failed: %v", err)
		}
	}

	s.triggerEnrichment(images, videoID, userID, in.IsPublic)

	return ApproveOutput{
		Success:       true,
		ApprovedCount: count,
		VideoID:       videoID,
		Message:       fmt.Sprintf("Added %d frames to your library (analyzing...)", count),
	}, nil
}

// triggerEnrichment fires the post-persistence side effects. Each runs
// detached with its own error channel into the logs; none can roll back
// the frames that were just persisted.
func (s *approvalService) triggerEnrichment(images []*models.Image, videoID, userID *uint, isPublic bool) {
	detach("analysis", func() error {
		return s.analyzeImages(context.Background(), images)
	})

	if videoID != nil && len(images) > 0 {
		id := *videoID
		frameURL := images[0].ImageURL
		detach("thumbnail", func() error {
			return s.thumbnails.GenerateVideoThumbnail(context.Background(), id, frameURL)
		})
	}

	if isPublic && userID != nil {
		uid := *userID
		count := len(images)
		detach("credits", func() error {
			return s.grantContributionCredits(context.Background(), uid, count)
		})
	}
}

func (s *approvalService) analyzeImages(ctx context.Context, images []*models.Image) error {
	var failed int
	for _, img := range images {
		result, err := s.analysis.Analyze(ctx, img.ID, img.ImageURL)
		if err != nil {
			logger.Debugf("analysis of image %d failed: %v", img.ID, err)
			failed++
			continue
		}

		updates := map[string]interface{}{}
		if result.Prompt != "" {
			updates["prompt"] = result.Prompt
		}
		if len(result.Colors) > 0 {
			updates["colors"] = encodeStringList(result.Colors)
		}
		if len(result.Tags) > 0 {
			updates["tags"] = encodeStringList(result.Tags)
		}
		if len(updates) == 0 {
			continue
		}
		if err := s.images.UpdateByID(ctx, nil, img.ID, updates); err != nil {
			logger.Debugf("analysis update of image %d failed: %v", img.ID, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("analysis incomplete for %d of %d images", failed, len(images))
	}
	return nil
}

// grantContributionCredits applies the contribution ledger rule: one
// credit per full block of public images, granted only for boundaries
// this batch crosses. floor(new/10) - floor(old/10) is never negative
// and never double-grants for the same batch.
func (s *approvalService) grantContributionCredits(ctx context.Context, userID uint, count int) error {
	perCredit := creditsImagesPerCredit()

	return s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		user, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load user %d: %w", userID, err)
		}

		oldTotal := user.ContributionCount
		newTotal := oldTotal + count
		granted := newTotal/perCredit - oldTotal/perCredit

		updates := map[string]interface{}{"contribution_count": newTotal}
		if granted > 0 {
			updates["credits"] = gorm.Expr("credits + ?", granted)
		}
		if err := s.users.UpdateByID(ctx, tx, userID, updates); err != nil {
			return fmt.Errorf("update contribution ledger: %w", err)
		}

		if granted > 0 {
			notification := models.Notification{
				UserID:  userID,
				Type:    models.NotificationTypeCreditGrant,
				Message: fmt.Sprintf("You earned %d free credit(s) for sharing %d images!", granted, newTotal),
			}
			if err := s.notifications.Create(ctx, tx, &notification); err != nil {
				return fmt.Errorf("create credit notification: %w", err)
			}
		}
		return nil
	})
}

// creditsImagesPerCredit is resolved lazily so tests can run without config.
func creditsImagesPerCredit() int {
	if config.AppConfig == nil || config.AppConfig.Credits.ImagesPerCredit <= 0 {
		return 10
	}
	return config.AppConfig.Credits.ImagesPerCredit
}

func encodeStringList(values []string) string {
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}
