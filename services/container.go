package services

import (
	"time"

	"github.com/FRMWRKD/mooderi-sub001/config"
	"github.com/FRMWRKD/mooderi-sub001/repositories"
)

type Container struct {
	Auth          AuthService
	Processing    ProcessingService
	Approval      ApprovalService
	Videos        VideoLibraryService
	Images        ImageService
	Boards        BoardService
	Credits       CreditService
	Notifications NotificationService
}

func NewContainer(repos repositories.Container) *Container {
	cfg := config.AppConfig

	jobStore := NewMemoryJobStore()
	extraction := NewHTTPExtractionClient(
		cfg.Extraction.Endpoint,
		time.Duration(cfg.Extraction.TimeoutSeconds)*time.Second,
	)
	analysis := NewHTTPAnalysisClient(
		cfg.Analysis.Endpoint,
		time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second,
	)
	thumbnails := NewThumbnailService(repos.Videos)

	return &Container{
		Auth:       NewAuthService(repos.Users),
		Processing: NewProcessingService(jobStore, extraction, repos.Videos, repos.Images, repos.ProcessedVideos),
		Approval: NewApprovalService(
			jobStore,
			repos.TxManager,
			repos.Images,
			repos.Videos,
			repos.Users,
			repos.Notifications,
			repos.ProcessedVideos,
			analysis,
			thumbnails,
		),
		Videos:        NewVideoLibraryService(repos.TxManager, repos.Videos, repos.Images),
		Images:        NewImageService(repos.Images),
		Boards:        NewBoardService(repos.Boards, repos.Images),
		Credits:       NewCreditService(repos.Users),
		Notifications: NewNotificationService(repos.Notifications),
	}
}
