package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/trivia-bot/internal/infra/postgres"
)

type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetUser deletes the quiz history of a user and returns how many results
// were removed.
func (s *ResetRepository) ResetUser(ctx context.Context, userID int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM quiz_results WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete quiz_results: %w", err)
	}

	return tag.RowsAffected(), nil
}
