package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/FRMWRKD/mooderi-sub001/config"
	"github.com/FRMWRKD/mooderi-sub001/logger"
	"github.com/FRMWRKD/mooderi-sub001/models"
	"github.com/FRMWRKD/mooderi-sub001/repositories"

	"gorm.io/gorm"
)

type StartJobInput struct {
	VideoURL    string
	QualityMode string
	UserID      *uint
}

type StartJobOutput struct {
	JobID            string `json:"job_id,omitempty"`
	Status           string `json:"status,omitempty"`
	QualityMode      string `json:"quality_mode,omitempty"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
	FrameCount       int64  `json:"frame_count,omitempty"`
	Message          string `json:"message,omitempty"`
}

// StatusView is what pollers see for a job, whether it was served from
// the in-memory store or rebuilt from the durable video row.
type StatusView struct {
	JobID          string   `json:"job_id"`
	Status         string   `json:"status"`
	Progress       int      `json:"progress"`
	Message        string   `json:"message"`
	VideoURL       string   `json:"video_url,omitempty"`
	QualityMode    string   `json:"quality_mode,omitempty"`
	VideoID        *uint    `json:"video_id,omitempty"`
	SelectedFrames []string `json:"selected_frames,omitempty"`
	RejectedFrames []string `json:"rejected_frames,omitempty"`
	Recovered      bool     `json:"recovered,omitempty"`
}

type ApprovalPayload struct {
	SelectedFrames []string `json:"selected_frames"`
	RejectedFrames []string `json:"rejected_frames"`
	QualityMode    string   `json:"quality_mode"`
	VideoURL       string   `json:"video_url"`
}

type ProcessingService interface {
	StartJob(ctx context.Context, in StartJobInput) (StartJobOutput, error)
	GetStatus(ctx context.Context, jobID string) (StatusView, error)
	GetApprovalPayload(ctx context.Context, jobID string) (ApprovalPayload, error)
	RejectFrames(ctx context.Context, jobID string) error
}

type processingService struct {
	store      JobStore
	extraction ExtractionClient
	videos     repositories.VideoRepository
	images     repositories.ImageRepository
	processed  repositories.ProcessedVideoCache
}

func NewProcessingService(
	store JobStore,
	extraction ExtractionClient,
	videos repositories.VideoRepository,
	images repositories.ImageRepository,
	processed repositories.ProcessedVideoCache,
) ProcessingService {
	return &processingService{
		store:      store,
		extraction: extraction,
		videos:     videos,
		images:     images,
		processed:  processed,
	}
}

var validQualityModes = map[string]bool{
	models.QualityStrict: true,
	models.QualityMedium: true,
	models.QualityHigh:   true,
}

func (s *processingService) StartJob(ctx context.Context, in StartJobInput) (StartJobOutput, error) {
	if in.VideoURL == "" {
		return StartJobOutput{}, newAppError(http.StatusBadRequest, "url is required", nil)
	}
	if !validQualityModes[in.QualityMode] {
		in.QualityMode = models.QualityMedium
	}

	if out, done := s.checkAlreadyProcessed(ctx, in.VideoURL); done {
		return out, nil
	}

	jobID := s.store.Create(in.VideoURL, in.QualityMode, in.UserID)
	jobsStartedTotal.Inc()

	// Detached worker: the intake call returns immediately, the job runs
	// to a terminal or approval state on its own.
	go s.runJob(jobID, in.VideoURL, in.QualityMode, in.UserID)

	return StartJobOutput{
		JobID:       jobID,
		Status:      models.VideoStatusQueued,
		QualityMode: in.QualityMode,
	}, nil
}

// checkAlreadyProcessed short-circuits intake when the URL was imported
// before. The cache and the count query are both best-effort: on error
// processing continues rather than blocking a fresh submission.
func (s *processingService) checkAlreadyProcessed(ctx context.Context, videoURL string) (StartJobOutput, bool) {
	cached, err := s.processed.IsProcessed(ctx, videoURL)
	if err != nil {
		logger.Debugf("processed cache lookup failed: %v", err)
	}

	count := int64(0)
	if !cached {
		count, err = s.images.CountBySourceURL(ctx, nil, videoURL)
		if err != nil {
			logger.Debugf("duplicate check failed: %v", err)
			return StartJobOutput{}, false
		}
		if count == 0 {
			return StartJobOutput{}, false
		}
		if cacheErr := s.processed.MarkProcessed(ctx, videoURL); cacheErr != nil {
			logger.Debugf("processed cache store failed: %v", cacheErr)
		}
	} else {
		count, err = s.images.CountBySourceURL(ctx, nil, videoURL)
		if err != nil {
			logger.Debugf("duplicate check failed after cache hit: %v", err)
			return StartJobOutput{}, false
		}
	}

	return StartJobOutput{
		AlreadyProcessed: true,
		FrameCount:       count,
		Message:          fmt.Sprintf("This video has already been processed with %d frames.", count),
	}, true
}

// runJob owns all state transitions for one job. It is the single writer
// for this job id, so transitions are strictly sequential.
func (s *processingService) runJob(jobID, videoURL, qualityMode string, userID *uint) {
	ctx := context.Background()

	s.createVideoRecord(ctx, jobID, videoURL, qualityMode, userID)

	s.setState(jobID, ProcessingState{
		Step: fmt.Sprintf("Starting cloud extraction (quality: %s)", qualityMode),
		Pct:  10,
	})
	s.persistVideo(ctx, jobID, map[string]interface{}{"status": models.VideoStatusProcessing})

	s.setState(jobID, ProcessingState{Step: "Sending to extraction service", Pct: 20})

	result, err := s.extraction.Submit(ctx, videoURL, qualityMode, extractionMaxFrames())
	if err != nil {
		s.failJob(ctx, jobID, err)
		return
	}

	switch result.Status {
	case models.VideoStatusPendingApproval:
		s.setState(jobID, PendingApprovalState{
			SelectedFrames: result.SelectedFrames,
			RejectedFrames: result.RejectedFrames,
		})
		meta := models.VideoMetadata{
			SelectedFrames: result.SelectedFrames,
			RejectedFrames: result.RejectedFrames,
		}
		s.persistVideo(ctx, jobID, map[string]interface{}{
			"status":   models.VideoStatusPendingApproval,
			"metadata": meta.Encode(),
		})
		logger.Taskf(jobID, "extraction done, %d frames awaiting approval", len(result.SelectedFrames))

	case models.VideoStatusCompleted:
		s.setState(jobID, CompletedState{FrameCount: len(result.Frames)})
		s.persistVideo(ctx, jobID, map[string]interface{}{
			"status":      models.VideoStatusCompleted,
			"frame_count": len(result.Frames),
		})
		logger.Taskf(jobID, "extraction completed without approval step, %d frames", len(result.Frames))

	default:
		s.failJob(ctx, jobID, fmt.Errorf("unexpected extraction status %q", result.Status))
	}
}

func (s *processingService) createVideoRecord(ctx context.Context, jobID, videoURL, qualityMode string, userID *uint) {
	video := models.Video{
		URL:         videoURL,
		QualityMode: qualityMode,
		Status:      models.VideoStatusProcessing,
		UserID:      userID,
		IsPublic:    true,
	}
	if err := s.videos.Create(ctx, nil, &video); err != nil {
		logger.Taskf(jobID, "could not create video record: %v", err)
		return
	}
	if err := s.store.SetVideoID(jobID, video.ID); err != nil {
		logger.Taskf(jobID, "could not link video record: %v", err)
	}
}

func (s *processingService) failJob(ctx context.Context, jobID string, cause error) {
	reason := cause.Error()
	if len(reason) > 200 {
		reason = reason[:200]
	}

	last := 0
	if job, ok := s.store.Get(jobID); ok {
		last = job.State.Progress()
	}
	s.setState(jobID, FailedState{Reason: reason, Pct: last})

	meta := models.VideoMetadata{Error: reason}
	s.persistVideo(ctx, jobID, map[string]interface{}{
		"status":   models.VideoStatusFailed,
		"metadata": meta.Encode(),
	})
	logger.Taskf(jobID, "extraction failed: %s", reason)
}

func (s *processingService) setState(jobID string, state JobState) {
	if err := s.store.SetState(jobID, state); err != nil {
		logger.Taskf(jobID, "state update rejected: %v", err)
	}
}

// persistVideo mirrors a transition onto the durable video row. A job
// whose video record does not exist yet simply skips the write; the
// window where VideoID is unset is a legitimate transient state.
func (s *processingService) persistVideo(ctx context.Context, jobID string, updates map[string]interface{}) {
	job, ok := s.store.Get(jobID)
	if !ok || job.VideoID == nil {
		return
	}
	if err := s.videos.UpdateByID(ctx, nil, *job.VideoID, updates); err != nil {
		logger.Taskf(jobID, "could not persist video status: %v", err)
	}
}

// GetStatus answers from the in-memory store first and falls back to the
// durable video row when the store has no entry (the post-restart case).
func (s *processingService) GetStatus(ctx context.Context, jobID string) (StatusView, error) {
	if job, ok := s.store.Get(jobID); ok {
		return statusFromJob(job), nil
	}

	view, err := s.statusFromVideo(ctx, jobID)
	if err != nil {
		return StatusView{}, err
	}
	return view, nil
}

func statusFromJob(job JobRecord) StatusView {
	view := StatusView{
		JobID:       job.ID,
		Status:      job.State.Status(),
		Progress:    job.State.Progress(),
		Message:     job.State.Message(),
		VideoURL:    job.VideoURL,
		QualityMode: job.QualityMode,
		VideoID:     job.VideoID,
	}
	if pending, ok := job.State.(PendingApprovalState); ok {
		view.SelectedFrames = pending.SelectedFrames
		view.RejectedFrames = pending.RejectedFrames
	}
	return view
}

// statusFromVideo synthesizes a coarse status view from the video row.
// Job ids and video ids come from different id spaces, so a non-numeric
// job id can never match a video and reports not-found directly.
func (s *processingService) statusFromVideo(ctx context.Context, jobID string) (StatusView, error) {
	videoID, parseErr := strconv.ParseUint(jobID, 10, 32)
	if parseErr != nil {
		return StatusView{}, newAppError(http.StatusNotFound, "job not found", nil)
	}

	video, err := s.videos.GetByID(ctx, nil, uint(videoID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatusView{}, newAppError(http.StatusNotFound, "job not found", nil)
		}
		return StatusView{}, newAppError(http.StatusInternalServerError, "failed to query video record", err)
	}

	meta := video.DecodeMetadata()
	id := video.ID
	view := StatusView{
		JobID:       jobID,
		Status:      video.Status,
		Progress:    coarseProgress(video.Status),
		Message:     recoveredMessage(video, meta),
		VideoURL:    video.URL,
		QualityMode: video.QualityMode,
		VideoID:     &id,
		Recovered:   true,
	}
	if video.Status == models.VideoStatusPendingApproval {
		view.SelectedFrames = meta.SelectedFrames
		view.RejectedFrames = meta.RejectedFrames
	}
	return view, nil
}

// coarseProgress maps a durable status onto the advisory progress scale.
// Fine-grained progress is lost with the in-memory record.
func coarseProgress(status string) int {
	switch status {
	case models.VideoStatusFailed:
		return 0
	case models.VideoStatusCompleted, models.VideoStatusPendingApproval:
		return 100
	default:
		return 50
	}
}

func recoveredMessage(video models.Video, meta models.VideoMetadata) string {
	switch video.Status {
	case models.VideoStatusFailed:
		if meta.Error != "" {
			return meta.Error
		}
		return "Processing failed"
	case models.VideoStatusCompleted:
		return "Processing complete"
	case models.VideoStatusPendingApproval:
		return fmt.Sprintf("Ready for approval (%d frames selected)", len(meta.SelectedFrames))
	default:
		return "Processing in progress"
	}
}

// GetApprovalPayload returns the candidate frames for a job awaiting
// approval, recovering from the video row when the job record is gone.
func (s *processingService) GetApprovalPayload(ctx context.Context, jobID string) (ApprovalPayload, error) {
	view, err := s.GetStatus(ctx, jobID)
	if err != nil {
		return ApprovalPayload{}, err
	}

	if view.Status != models.VideoStatusPendingApproval {
		return ApprovalPayload{}, newAppErrorWithData(
			http.StatusBadRequest,
			"job not ready for approval",
			map[string]string{"status": view.Status},
			nil,
		)
	}

	return ApprovalPayload{
		SelectedFrames: view.SelectedFrames,
		RejectedFrames: view.RejectedFrames,
		QualityMode:    view.QualityMode,
		VideoURL:       view.VideoURL,
	}, nil
}

// RejectFrames discards the candidate set: the job completes with zero
// persisted frames and the video row records the outcome.
func (s *processingService) RejectFrames(ctx context.Context, jobID string) error {
	job, ok := s.store.Get(jobID)
	if !ok {
		return newAppError(http.StatusNotFound, "job not found", nil)
	}
	if job.State.Status() != models.VideoStatusPendingApproval {
		return newAppError(http.StatusBadRequest, "job not ready for approval", nil)
	}

	s.setState(jobID, CompletedState{})
	s.persistVideo(ctx, jobID, map[string]interface{}{
		"status":      models.VideoStatusCompleted,
		"frame_count": 0,
	})
	return nil
}

// extractionMaxFrames is resolved lazily so tests can run without config.
func extractionMaxFrames() int {
	if config.AppConfig == nil {
		return 50
	}
	return config.AppConfig.Extraction.MaxFrames
}
