package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/FRMWRKD/mooderi-sub001/models"
	"github.com/FRMWRKD/mooderi-sub001/repositories"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func listAllImages() repositories.ListImagesInput {
	return repositories.ListImagesInput{}
}

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (r *fakeUserRepo) CountByUsername(_ context.Context, username string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, _ *gorm.DB, username string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, userID uint) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateByID(_ context.Context, _ *gorm.DB, userID uint, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["contribution_count"]; ok {
		user.ContributionCount = v.(int)
	}
	if v, ok := updates["credits"]; ok {
		if expr, ok := v.(clause.Expr); ok && len(expr.Vars) == 1 {
			user.Credits += expr.Vars[0].(int)
		} else if n, ok := v.(int); ok {
			user.Credits = n
		}
	}
	r.users[userID] = user
	return nil
}

func (r *fakeUserRepo) get(userID uint) (models.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	return user, ok
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, _ *gorm.DB, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = uint(len(r.notifications) + 1)
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uint, _ int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _ *gorm.DB, userID uint, ids []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		for _, id := range ids {
			if n.ID == id {
				r.notifications[i].IsRead = true
			}
		}
	}
	return nil
}

func (r *fakeNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}

type fakeAnalysisClient struct {
	mu     sync.Mutex
	result AnalysisResult
	err    error
	calls  int
}

func (c *fakeAnalysisClient) Analyze(context.Context, uint, string) (AnalysisResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.result, c.err
}

func (c *fakeAnalysisClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeThumbnailService struct {
	mu    sync.Mutex
	calls []string
}

func (s *fakeThumbnailService) GenerateVideoThumbnail(_ context.Context, _ uint, frameURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, frameURL)
	return nil
}

func (s *fakeThumbnailService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type approvalFixture struct {
	svc           ApprovalService
	store         JobStore
	images        *fakeImageRepo
	videos        *fakeVideoRepo
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
	processed     *fakeProcessedCache
	analysis      *fakeAnalysisClient
	thumbnails    *fakeThumbnailService
}

func newApprovalFixture() *approvalFixture {
	f := &approvalFixture{
		store:         NewMemoryJobStore(),
		images:        newFakeImageRepo(),
		videos:        newFakeVideoRepo(),
		users:         newFakeUserRepo(),
		notifications: &fakeNotificationRepo{},
		processed:     newFakeProcessedCache(),
		analysis:      &fakeAnalysisClient{},
		thumbnails:    &fakeThumbnailService{},
	}
	f.svc = NewApprovalService(
		f.store,
		fakeTxManager{},
		f.images,
		f.videos,
		f.users,
		f.notifications,
		f.processed,
		f.analysis,
		f.thumbnails,
	)
	return f
}

// pendingJob seeds a job in pending_approval with a linked video row.
func (f *approvalFixture) pendingJob(t *testing.T, userID *uint, frames []string) (string, uint) {
	t.Helper()
	jobID := f.store.Create("https://example.com/v.mp4", models.QualityMedium, userID)

	video := models.Video{URL: "https://example.com/v.mp4", Status: models.VideoStatusPendingApproval, UserID: userID}
	if err := f.videos.Create(context.Background(), nil, &video); err != nil {
		t.Fatalf("seed video failed: %v", err)
	}
	if err := f.store.SetVideoID(jobID, video.ID); err != nil {
		t.Fatalf("link video failed: %v", err)
	}
	if err := f.store.SetState(jobID, PendingApprovalState{SelectedFrames: frames}); err != nil {
		t.Fatalf("seed state failed: %v", err)
	}
	return jobID, video.ID
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestApprovePersistsFramesAndCompletesJob(t *testing.T) {
	f := newApprovalFixture()
	userID := uint(3)
	f.users.users[userID] = models.User{ID: userID, Username: "carol"}
	jobID, videoID := f.pendingJob(t, &userID, []string{"f1.jpg", "f2.jpg", "f3.jpg"})

	out, err := f.svc.Approve(context.Background(), ApproveInput{
		JobID:        jobID,
		ApprovedURLs: []string{"f1.jpg", "f3.jpg"},
		VideoURL:     "https://example.com/v.mp4",
		IsPublic:     true,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !out.Success || out.ApprovedCount != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if f.images.count() != 2 {
		t.Fatalf("expected 2 images, got %d", f.images.count())
	}

	video, _ := f.videos.get(videoID)
	if video.FrameCount != 2 || video.Status != models.VideoStatusCompleted {
		t.Fatalf("expected completed video with 2 frames, got %+v", video)
	}

	job, _ := f.store.Get(jobID)
	if job.State.Status() != models.VideoStatusCompleted {
		t.Fatalf("expected completed job, got %s", job.State.Status())
	}

	if ok, _ := f.processed.IsProcessed(context.Background(), "https://example.com/v.mp4"); !ok {
		t.Fatalf("expected source url marked processed")
	}

	// Thumbnail generation is detached from the approve call.
	waitFor(t, "thumbnail", func() bool { return f.thumbnails.callCount() == 1 })
}

func TestApproveRequiresFrames(t *testing.T) {
	f := newApprovalFixture()

	_, err := f.svc.Approve(context.Background(), ApproveInput{JobID: "x"})
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestApproveTwiceConflicts(t *testing.T) {
	f := newApprovalFixture()
	jobID, _ := f.pendingJob(t, nil, []string{"f1.jpg"})

	in := ApproveInput{JobID: jobID, ApprovedURLs: []string{"f1.jpg"}, VideoURL: "https://example.com/v.mp4"}
	if _, err := f.svc.Approve(context.Background(), in); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}

	_, err := f.svc.Approve(context.Background(), in)
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusConflict {
		t.Fatalf("expected 409 on second approve, got %v", err)
	}
}

func TestApproveAbortsWhenInsertFails(t *testing.T) {
	f := newApprovalFixture()
	jobID, videoID := f.pendingJob(t, nil, []string{"f1.jpg"})
	f.images.createErr = errors.New("insert failed")

	_, err := f.svc.Approve(context.Background(), ApproveInput{
		JobID:        jobID,
		ApprovedURLs: []string{"f1.jpg"},
	})
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}

	// The job stays approvable so the client can retry.
	job, _ := f.store.Get(jobID)
	if job.State.Status() != models.VideoStatusPendingApproval {
		t.Fatalf("expected job still pending, got %s", job.State.Status())
	}
	video, _ := f.videos.get(videoID)
	if video.FrameCount != 0 {
		t.Fatalf("expected untouched video row")
	}
}

func TestApproveAfterRestartPersistsWithoutLinkage(t *testing.T) {
	f := newApprovalFixture()

	out, err := f.svc.Approve(context.Background(), ApproveInput{
		JobID:        "gone-after-restart",
		ApprovedURLs: []string{"f1.jpg", "f2.jpg"},
		VideoURL:     "https://example.com/v.mp4",
		IsPublic:     true,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if out.ApprovedCount != 2 || out.VideoID != nil {
		t.Fatalf("unexpected output: %+v", out)
	}

	images, _, _ := f.images.List(context.Background(), nil, listAllImages())
	for _, img := range images {
		if img.VideoID != nil || img.UserID != nil {
			t.Fatalf("expected unlinked image, got %+v", img)
		}
		if img.SourceVideoURL != "https://example.com/v.mp4" {
			t.Fatalf("expected source url on image")
		}
	}
}

func TestApprovePlacesFramesOnBoard(t *testing.T) {
	f := newApprovalFixture()
	jobID, _ := f.pendingJob(t, nil, []string{"f1.jpg"})

	boardID := uint(11)
	_, err := f.svc.Approve(context.Background(), ApproveInput{
		JobID:        jobID,
		ApprovedURLs: []string{"f1.jpg"},
		BoardID:      &boardID,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	images, _, _ := f.images.List(context.Background(), nil, listAllImages())
	if len(images) != 1 || images[0].BoardID == nil || *images[0].BoardID != 11 {
		t.Fatalf("expected image on board 11, got %+v", images)
	}
}

func TestApproveSurvivesAnalysisFailure(t *testing.T) {
	f := newApprovalFixture()
	f.analysis.err = errors.New("analysis service down")
	jobID, _ := f.pendingJob(t, nil, []string{"f1.jpg", "f2.jpg"})

	out, err := f.svc.Approve(context.Background(), ApproveInput{
		JobID:        jobID,
		ApprovedURLs: []string{"f1.jpg", "f2.jpg"},
		VideoURL:     "https://example.com/v.mp4",
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !out.Success || out.ApprovedCount != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}

	waitFor(t, "analysis attempts", func() bool { return f.analysis.callCount() == 2 })

	// Inserted frames survive the failed enrichment untouched.
	if f.images.count() != 2 {
		t.Fatalf("expected 2 images after analysis failure, got %d", f.images.count())
	}
	images, _, _ := f.images.List(context.Background(), nil, listAllImages())
	for _, img := range images {
		if img.Prompt != "" || img.Tags != "[]" || img.Colors != "[]" {
			t.Fatalf("expected untouched image defaults, got %+v", img)
		}
	}

	job, _ := f.store.Get(jobID)
	if job.State.Status() != models.VideoStatusCompleted {
		t.Fatalf("expected completed job despite analysis failure, got %s", job.State.Status())
	}
}

func TestAnalyzeImagesAppliesResults(t *testing.T) {
	f := newApprovalFixture()
	f.analysis.result = AnalysisResult{
		Prompt: "warm sunset over a harbor",
		Colors: []string{"#ff8800", "#224466"},
		Tags:   []string{"sunset", "harbor"},
	}

	seeded := []*models.Image{
		{ImageURL: "f1.jpg", Tags: "[]", Colors: "[]"},
		{ImageURL: "f2.jpg", Tags: "[]", Colors: "[]"},
	}
	if err := f.images.CreateBatch(context.Background(), nil, seeded); err != nil {
		t.Fatalf("seed images failed: %v", err)
	}

	svc := f.svc.(*approvalService)
	if err := svc.analyzeImages(context.Background(), seeded); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	images, _, _ := f.images.List(context.Background(), nil, listAllImages())
	for _, img := range images {
		if img.Prompt != "warm sunset over a harbor" {
			t.Fatalf("expected prompt update, got %+v", img)
		}
		if img.Tags != `["sunset","harbor"]` {
			t.Fatalf("expected tags update, got %q", img.Tags)
		}
		if img.Colors != `["#ff8800","#224466"]` {
			t.Fatalf("expected colors update, got %q", img.Colors)
		}
	}
}

func TestAnalyzeImagesReportsFailures(t *testing.T) {
	f := newApprovalFixture()
	f.analysis.err = errors.New("timeout")

	seeded := []*models.Image{{ImageURL: "f1.jpg"}}
	if err := f.images.CreateBatch(context.Background(), nil, seeded); err != nil {
		t.Fatalf("seed images failed: %v", err)
	}

	svc := f.svc.(*approvalService)
	err := svc.analyzeImages(context.Background(), seeded)
	if err == nil || !strings.Contains(err.Error(), "1 of 1") {
		t.Fatalf("expected incomplete analysis error, got %v", err)
	}
}

func TestGrantContributionCredits(t *testing.T) {
	cases := []struct {
		name          string
		oldCount      int
		batch         int
		wantGranted   int
		wantNotified  bool
	}{
		{"crosses one boundary", 7, 4, 1, true},
		{"crosses two boundaries", 0, 20, 2, true},
		{"below first boundary", 0, 3, 0, false},
		{"lands exactly on boundary", 5, 5, 1, true},
		{"between boundaries", 11, 8, 1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newApprovalFixture()
			f.users.users[1] = models.User{ID: 1, Username: "dave", ContributionCount: tc.oldCount}

			svc := f.svc.(*approvalService)
			if err := svc.grantContributionCredits(context.Background(), 1, tc.batch); err != nil {
				t.Fatalf("grant failed: %v", err)
			}

			user, _ := f.users.get(1)
			if user.Credits != tc.wantGranted {
				t.Fatalf("expected %d credits, got %d", tc.wantGranted, user.Credits)
			}
			if user.ContributionCount != tc.oldCount+tc.batch {
				t.Fatalf("expected contribution count %d, got %d", tc.oldCount+tc.batch, user.ContributionCount)
			}
			if notified := f.notifications.count() > 0; notified != tc.wantNotified {
				t.Fatalf("expected notified=%v, got %d notifications", tc.wantNotified, f.notifications.count())
			}
		})
	}
}

func TestApproveGrantsCreditsForPublicShares(t *testing.T) {
	f := newApprovalFixture()
	userID := uint(2)
	f.users.users[userID] = models.User{ID: userID, Username: "erin", ContributionCount: 9}
	jobID, _ := f.pendingJob(t, &userID, []string{"f1.jpg", "f2.jpg"})

	_, err := f.svc.Approve(context.Background(), ApproveInput{
		JobID:        jobID,
		ApprovedURLs: []string{"f1.jpg", "f2.jpg"},
		VideoURL:     "https://example.com/v.mp4",
		IsPublic:     true,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	waitFor(t, "credit grant", func() bool {
		user, _ := f.users.get(userID)
		return user.Credits == 1 && user.ContributionCount == 11
	})
	waitFor(t, "credit notification", func() bool { return f.notifications.count() == 1 })
}

func TestApprovePrivateSharesEarnNoCredits(t *testing.T) {
	f := newApprovalFixture()
	userID := uint(4)
	f.users.users[userID] = models.User{ID: userID, Username: "frank", ContributionCount: 9}
	jobID, _ := f.pendingJob(t, &userID, []string{"f1.jpg", "f2.jpg"})

	_, err := f.svc.Approve(context.Background(), ApproveInput{
		JobID:        jobID,
		ApprovedURLs: []string{"f1.jpg", "f2.jpg"},
		IsPublic:     false,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	// Thumbnail still fires; credits never do for private imports.
	waitFor(t, "thumbnail", func() bool { return f.thumbnails.callCount() == 1 })
	user, _ := f.users.get(userID)
	if user.Credits != 0 || user.ContributionCount != 9 {
		t.Fatalf("expected no credit change, got %+v", user)
	}
}
