package services

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/FRMWRKD/mooderi-sub001/models"

	"gorm.io/gorm"
)

type fakeBoardRepo struct {
	mu     sync.Mutex
	boards map[uint]models.Board
	nextID uint
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: map[uint]models.Board{}, nextID: 1}
}

func (r *fakeBoardRepo) Create(_ context.Context, _ *gorm.DB, board *models.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if board.ID == 0 {
		board.ID = r.nextID
		r.nextID++
	}
	r.boards[board.ID] = *board
	return nil
}

func (r *fakeBoardRepo) GetByIDAndUser(_ context.Context, _ *gorm.DB, boardID uint, userID uint) (models.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.boards[boardID]
	if !ok || board.UserID != userID {
		return models.Board{}, gorm.ErrRecordNotFound
	}
	return board, nil
}

func (r *fakeBoardRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uint) ([]models.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Board
	for _, board := range r.boards {
		if board.UserID == userID {
			out = append(out, board)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) UpdateByID(_ context.Context, _ *gorm.DB, boardID uint, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.boards[boardID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		board.Name = v.(string)
	}
	if v, ok := updates["description"]; ok {
		board.Description = v.(string)
	}
	if v, ok := updates["is_public"]; ok {
		board.IsPublic = v.(bool)
	}
	r.boards[boardID] = board
	return nil
}

func (r *fakeBoardRepo) DeleteByIDAndUser(_ context.Context, _ *gorm.DB, boardID uint, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.boards[boardID]
	if !ok || board.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.boards, boardID)
	return nil
}

func TestBoardServiceCreateAndRename(t *testing.T) {
	boards := newFakeBoardRepo()
	svc := NewBoardService(boards, newFakeImageRepo())

	board, err := svc.CreateBoard(context.Background(), 1, BoardInput{Name: "Neon nights"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if board.ID == 0 || board.UserID != 1 {
		t.Fatalf("unexpected board: %+v", board)
	}

	updated, err := svc.UpdateBoard(context.Background(), 1, board.ID, BoardInput{Name: "Neon streets"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Neon streets" {
		t.Fatalf("expected renamed board, got %q", updated.Name)
	}

	_, err = svc.CreateBoard(context.Background(), 1, BoardInput{})
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %v", err)
	}
}

func TestBoardServiceOwnership(t *testing.T) {
	boards := newFakeBoardRepo()
	svc := NewBoardService(boards, newFakeImageRepo())

	board, err := svc.CreateBoard(context.Background(), 1, BoardInput{Name: "Mine"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.GetBoard(context.Background(), 2, board.ID)
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign board, got %v", err)
	}

	err = svc.DeleteBoard(context.Background(), 2, board.ID)
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusNotFound {
		t.Fatalf("expected 404 deleting foreign board, got %v", err)
	}
	if err := svc.DeleteBoard(context.Background(), 1, board.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestBoardServiceAddAndRemoveImage(t *testing.T) {
	boards := newFakeBoardRepo()
	images := newFakeImageRepo()
	owner := uint(1)
	seedImage(images, 5, &owner, true, "")
	svc := NewBoardService(boards, images)

	board, err := svc.CreateBoard(context.Background(), 1, BoardInput{Name: "Picks"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.AddImage(context.Background(), 1, board.ID, 5); err != nil {
		t.Fatalf("add image failed: %v", err)
	}
	img, _ := images.GetByID(context.Background(), nil, 5)
	if img.BoardID == nil || *img.BoardID != board.ID {
		t.Fatalf("expected image on board, got %+v", img.BoardID)
	}

	if err := svc.RemoveImage(context.Background(), 1, board.ID, 5); err != nil {
		t.Fatalf("remove image failed: %v", err)
	}
	img, _ = images.GetByID(context.Background(), nil, 5)
	if img.BoardID != nil {
		t.Fatalf("expected image off board")
	}

	err = svc.AddImage(context.Background(), 2, board.ID, 5)
	if appErr, ok := err.(*AppError); !ok || appErr.HTTPCode != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign board, got %v", err)
	}
}
