package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres/repository"
)

// ErrLeaderboardDisabled is returned by Top when no leaderboard is configured.
var ErrLeaderboardDisabled = errors.New("leaderboard disabled")

// RecentResults is how many finished quizzes Stats attaches.
const RecentResults = 5

type ResultService struct {
	tr          Transactor
	users       UserRepository
	results     ResultRepository
	leaderboard Leaderboard // nil when redis is not configured
	logger      *zap.Logger
}

func NewResultService(
	tr Transactor,
	users UserRepository,
	results ResultRepository,
	leaderboard Leaderboard,
	logger *zap.Logger,
) *ResultService {
	return &ResultService{
		tr:          tr,
		users:       users,
		results:     results,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// Record stores a finished quiz for the user and adds the score to the
// leaderboard. A leaderboard failure is logged and does not fail the call.
func (s *ResultService) Record(ctx context.Context, user *entities.User, res *entities.QuizResult) error {
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userRepo := repository.NewUserRepository(tx)
		resultRepo := repository.NewResultRepository(tx)

		if _, err := userRepo.Save(ctx, user); err != nil {
			return err
		}

		id, err := resultRepo.Create(ctx, res)
		if err != nil {
			return err
		}
		res.ID = id

		return nil
	})
	if err != nil {
		return fmt.Errorf("record quiz result: %w", err)
	}

	if s.leaderboard == nil {
		return nil
	}

	if err := s.leaderboard.Add(ctx, user.ID, displayName(user), res.Score); err != nil {
		s.logger.Warn("failed to update leaderboard",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
	}

	return nil
}

// Stats returns the user's totals with the most recent results. The player
// profile is attached when it can be loaded.
func (s *ResultService) Stats(ctx context.Context, userID int64) (*entities.QuizStats, error) {
	stats, err := s.results.GetStats(ctx, userID, RecentResults)
	if err != nil {
		return nil, fmt.Errorf("quiz stats: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
	case err != nil:
		s.logger.Warn("failed to load player for stats",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	default:
		stats.Player = user
	}

	return stats, nil
}

// Top returns the n best players.
func (s *ResultService) Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return nil, ErrLeaderboardDisabled
	}

	entries, err := s.leaderboard.Top(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("top players: %w", err)
	}
	return entries, nil
}

func displayName(u *entities.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return fmt.Sprintf("player %d", u.ID)
}
