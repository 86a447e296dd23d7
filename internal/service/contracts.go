package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
}

type ResultRepository interface {
	GetStats(ctx context.Context, userID int64, recent int) (*entities.QuizStats, error)
}

// Leaderboard keeps cumulative scores across users.
type Leaderboard interface {
	Add(ctx context.Context, userID int64, name string, score int) error
	Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error)
	Remove(ctx context.Context, userID int64) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ChatSweeper evicts idle chat state.
type ChatSweeper interface {
	Sweep(idle time.Duration) int
}
