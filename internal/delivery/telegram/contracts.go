package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64, username string) (bool, error)
}

type ResultService interface {
	Record(ctx context.Context, user *entities.User, res *entities.QuizResult) error
	Stats(ctx context.Context, userID int64) (*entities.QuizStats, error)
	Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error)
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) (int64, error)
}
