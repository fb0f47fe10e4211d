package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/FRMWRKD/mooderi-sub001/models"
	"github.com/FRMWRKD/mooderi-sub001/repositories"

	"gorm.io/gorm"
)

type BoardInput struct {
	Name        string
	Description string
	IsPublic    bool
}

type BoardService interface {
	CreateBoard(ctx context.Context, userID uint, in BoardInput) (models.Board, error)
	ListBoards(ctx context.Context, userID uint) ([]models.Board, error)
	GetBoard(ctx context.Context, userID uint, boardID uint) (models.Board, error)
	UpdateBoard(ctx context.Context, userID uint, boardID uint, in BoardInput) (models.Board, error)
	DeleteBoard(ctx context.Context, userID uint, boardID uint) error
	AddImage(ctx context.Context, userID uint, boardID uint, imageID uint) error
	RemoveImage(ctx context.Context, userID uint, boardID uint, imageID uint) error
}

type boardService struct {
	boards repositories.BoardRepository
	images repositories.ImageRepository
}

func NewBoardService(boards repositories.BoardRepository, images repositories.ImageRepository) BoardService {
	return &boardService{boards: boards, images: images}
}

func (s *boardService) CreateBoard(ctx context.Context, userID uint, in BoardInput) (models.Board, error) {
	if in.Name == "" {
		return models.Board{}, newAppError(http.StatusBadRequest, "name is required", nil)
	}

	board := models.Board{
		Name:        in.Name,
		Description: in.Description,
		UserID:      userID,
		IsPublic:    in.IsPublic,
	}
	if err := s.boards.Create(ctx, nil, &board); err != nil {
		return models.Board{}, newAppError(http.StatusInternalServerError, "failed to create board", err)
	}
	return board, nil
}

func (s *boardService) ListBoards(ctx context.Context, userID uint) ([]models.Board, error) {
	boards, err := s.boards.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, "failed to list boards", err)
	}
	return boards, nil
}

func (s *boardService) GetBoard(ctx context.Context, userID uint, boardID uint) (models.Board, error) {
	board, err := s.boards.GetByIDAndUser(ctx, nil, boardID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Board{}, newAppError(http.StatusNotFound, "board not found", nil)
		}
		return models.Board{}, newAppError(http.StatusInternalServerError, "failed to query board", err)
	}
	return board, nil
}

func (s *boardService) UpdateBoard(ctx context.Context, userID uint, boardID uint, in BoardInput) (models.Board, error) {
	board, err := s.GetBoard(ctx, userID, boardID)
	if err != nil {
		return models.Board{}, err
	}

	updates := map[string]interface{}{"is_public": in.IsPublic}
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if in.Description != "" {
		updates["description"] = in.Description
	}
	if err := s.boards.UpdateByID(ctx, nil, boardID, updates); err != nil {
		return models.Board{}, newAppError(http.StatusInternalServerError, "failed to update board", err)
	}
	return s.GetBoard(ctx, userID, board.ID)
}

func (s *boardService) DeleteBoard(ctx context.Context, userID uint, boardID uint) error {
	if _, err := s.GetBoard(ctx, userID, boardID); err != nil {
		return err
	}
	if err := s.boards.DeleteByIDAndUser(ctx, nil, boardID, userID); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to delete board", err)
	}
	return nil
}

func (s *boardService) AddImage(ctx context.Context, userID uint, boardID uint, imageID uint) error {
	if _, err := s.GetBoard(ctx, userID, boardID); err != nil {
		return err
	}
	return s.setImageBoard(ctx, userID, imageID, &boardID)
}

func (s *boardService) RemoveImage(ctx context.Context, userID uint, boardID uint, imageID uint) error {
	if _, err := s.GetBoard(ctx, userID, boardID); err != nil {
		return err
	}
	return s.setImageBoard(ctx, userID, imageID, nil)
}

func (s *boardService) setImageBoard(ctx context.Context, userID uint, imageID uint, boardID *uint) error {
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

	var value interface{}
	if boardID != nil {
		value = *boardID
	}
	if err := s.images.UpdateByID(ctx, nil, imageID, map[string]interface{}{"board_id": value}); err != nil {
		return newAppError(http.StatusInternalServerError, "failed to update image", err)
	}
	return nil
}
