package repositories

import (
	"context"

	"github.com/FRMWRKD/mooderi-sub001/models"

	"gorm.io/gorm"
)

type GormBoardRepository struct {
	db *gorm.DB
}

func NewGormBoardRepository(db *gorm.DB) *GormBoardRepository {
	return &GormBoardRepository{db: db}
}

func (r *GormBoardRepository) Create(_ context.Context, tx *gorm.DB, board *models.Board) error {
	return useTx(r.db, tx).Create(board).Error
}

func (r *GormBoardRepository) GetByIDAndUser(_ context.Context, tx *gorm.DB, boardID uint, userID uint) (models.Board, error) {
	var board models.Board
	err := useTx(r.db, tx).Where("id = ? AND user_id = ?", boardID, userID).First(&board).Error
	return board, err
}

func (r *GormBoardRepository) ListByUser(_ context.Context, tx *gorm.DB, userID uint) ([]models.Board, error) {
	var boards []models.Board
	err := useTx(r.db, tx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *GormBoardRepository) UpdateByID(_ context.Context, tx *gorm.DB, boardID uint, updates map[string]interface{}) error {
	return useTx(r.db, tx).Model(&models.Board{}).
		Where("id = ?", boardID).
		Updates(updates).Error
}

func (r *GormBoardRepository) DeleteByIDAndUser(_ context.Context, tx *gorm.DB, boardID uint, userID uint) error {
	return useTx(r.db, tx).Where("id = ? AND user_id = ?", boardID, userID).
		Delete(&models.Board{}).Error
}
