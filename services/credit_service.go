package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/FRMWRKD/mooderi-sub001/repositories"

	"gorm.io/gorm"
)

type ShareProgressOutput struct {
	SharedCount       int `json:"shared_count"`
	FreeCreditsEarned int `json:"free_credits_earned"`
	NextRewardAt      int `json:"next_reward_at"`
	ImagesUntilNext   int `json:"images_until_next"`
	CreditBalance     int `json:"credit_balance"`
}

// CreditService reports a user's contribution-reward progress. Granting
// happens on the approval pipeline; this is the read side.
type CreditService interface {
	GetShareProgress(ctx context.Context, userID uint) (ShareProgressOutput, error)
}

type creditService struct {
	users repositories.UserRepository
}

func NewCreditService(users repositories.UserRepository) CreditService {
	return &creditService{users: users}
}

func (s *creditService) GetShareProgress(ctx context.Context, userID uint) (ShareProgressOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShareProgressOutput{}, newAppError(http.StatusNotFound, "user not found", nil)
		}
		return ShareProgressOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	perCredit := creditsImagesPerCredit()
	shared := user.ContributionCount
	nextRewardAt := (shared/perCredit + 1) * perCredit

	return ShareProgressOutput{
		SharedCount:       shared,
		FreeCreditsEarned: shared / perCredit,
		NextRewardAt:      nextRewardAt,
		ImagesUntilNext:   nextRewardAt - shared,
		CreditBalance:     user.Credits,
	}, nil
}
