package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-bot/internal/infra/postgres/repository"
)

type ResetService struct {
	tr          Transactor
	leaderboard Leaderboard
}

func NewResetService(
	tr Transactor,
	leaderboard Leaderboard,
) *ResetService {
	return &ResetService{
		tr:          tr,
		leaderboard: leaderboard,
	}
}

// ResetUser wipes the user's quiz history and leaderboard entry. It returns
// the number of deleted results.
func (s *ResetService) ResetUser(ctx context.Context, userID int64) (int64, error) {
	var removed int64

	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		resetRepo := repository.NewResetRepository(tx)

		n, err := resetRepo.ResetUser(ctx, userID)
		if err != nil {
			return err
		}
		removed = n

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reset user: %w", err)
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.Remove(ctx, userID); err != nil {
			return removed, fmt.Errorf("reset leaderboard: %w", err)
		}
	}

	return removed, nil
}
