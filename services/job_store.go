package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/FRMWRKD/mooderi-sub001/models"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrInvalidTransition = errors.New("invalid job state transition")
)

// JobState is the tagged state of a processing job. Each concrete state
// carries only the fields that exist in that state, so a completed job
// cannot hold candidate frames and a queued job cannot hold a failure
// reason.
type JobState interface {
	Status() string
	Progress() int
	Message() string
}

type QueuedState struct{}

func (QueuedState) Status() string  { return models.VideoStatusQueued }
func (QueuedState) Progress() int   { return 0 }
func (QueuedState) Message() string { return "Queued for frame extraction" }

type ProcessingState struct {
	Step string
	Pct  int
}

func (s ProcessingState) Status() string  { return models.VideoStatusProcessing }
func (s ProcessingState) Progress() int   { return s.Pct }
func (s ProcessingState) Message() string { return s.Step }

type PendingApprovalState struct {
	SelectedFrames []string
	RejectedFrames []string
}

func (s PendingApprovalState) Status() string { return models.VideoStatusPendingApproval }
func (s PendingApprovalState) Progress() int  { return 100 }
func (s PendingApprovalState) Message() string {
	return fmt.Sprintf("Ready for approval (%d frames selected)", len(s.SelectedFrames))
}

type CompletedState struct {
	FrameCount int
}

func (s CompletedState) Status() string { return models.VideoStatusCompleted }
func (s CompletedState) Progress() int  { return 100 }
func (s CompletedState) Message() string {
	if s.FrameCount > 0 {
		return fmt.Sprintf("Approved %d frames", s.FrameCount)
	}
	return "Processing complete"
}

// FailedState keeps the progress the job had reached when it failed, so
// the reported progress never moves backwards.
type FailedState struct {
	Reason string
	Pct    int
}

func (s FailedState) Status() string  { return models.VideoStatusFailed }
func (s FailedState) Progress() int   { return s.Pct }
func (s FailedState) Message() string { return s.Reason }

// JobRecord is the in-memory view of one submission. VideoID is set once
// after the durable video row exists and never changes afterwards.
type JobRecord struct {
	ID          string
	VideoURL    string
	QualityMode string
	UserID      *uint
	VideoID     *uint
	CreatedAt   time.Time
	State       JobState
}

// JobStore keeps job records for the lifetime of the process. There is no
// eviction: short-term status polling is served from memory, long-term
// durability is the video row's responsibility. A restart loses this map
// by design; StatusFromVideo covers that case.
type JobStore interface {
	Create(videoURL, qualityMode string, userID *uint) string
	Get(jobID string) (JobRecord, bool)
	SetState(jobID string, state JobState) error
	SetVideoID(jobID string, videoID uint) error
}

func statusRank(status string) int {
	switch status {
	case models.VideoStatusQueued:
		return 0
	case models.VideoStatusProcessing:
		return 1
	case models.VideoStatusPendingApproval:
		return 2
	default: // completed, failed
		return 3
	}
}

type memoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*JobRecord
}

func NewMemoryJobStore() JobStore {
	return &memoryJobStore{jobs: make(map[string]*JobRecord)}
}

func (s *memoryJobStore) Create(videoURL, qualityMode string, userID *uint) string {
	jobID := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobID] = &JobRecord{
		ID:          jobID,
		VideoURL:    videoURL,
		QualityMode: qualityMode,
		UserID:      userID,
		CreatedAt:   time.Now(),
		State:       QueuedState{},
	}
	return jobID
}

func (s *memoryJobStore) Get(jobID string) (JobRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return JobRecord{}, false
	}
	return *job, true
}

func (s *memoryJobStore) SetState(jobID string, state JobState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if !transitionAllowed(job.State, state) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, job.State.Status(), state.Status())
	}

	job.State = state
	jobTransitionsTotal.WithLabelValues(state.Status()).Inc()
	return nil
}

func (s *memoryJobStore) SetVideoID(jobID string, videoID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if job.VideoID != nil {
		return fmt.Errorf("video id already set for job %s", jobID)
	}

	job.VideoID = &videoID
	return nil
}

// transitionAllowed enforces the forward-only state machine: terminal
// states accept nothing, pending_approval resolves only to completed,
// and everything else may only move forward (same-rank updates cover
// progress bumps within processing).
func transitionAllowed(from, to JobState) bool {
	fromStatus := from.Status()
	switch fromStatus {
	case models.VideoStatusCompleted, models.VideoStatusFailed:
		return false
	case models.VideoStatusPendingApproval:
		return to.Status() == models.VideoStatusCompleted
	default:
		return statusRank(to.Status()) >= statusRank(fromStatus)
	}
}
