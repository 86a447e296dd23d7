package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/service"
	"github.com/aliskhannn/trivia-bot/internal/trivia"
	"github.com/aliskhannn/trivia-bot/internal/view"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns an error returned by fn into an alert in the chat.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.alert(chatID, err, nil)
			return nil
		}
		return nil
	}
}

// alert logs err and tells the user what went wrong, optionally with a
// keyboard to recover.
func (h *Handler) alert(chatID int64, err error, kb *tgbotapi.InlineKeyboardMarkup) {
	if isRejection(err) {
		h.logger.Debug("action rejected",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	} else {
		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}

	msg := newPlainMessage(chatID, userMessage(err))
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	_ = h.send(msg)
}

// isRejection reports errors caused by user input rather than a failure.
func isRejection(err error) bool {
	return errors.Is(err, view.ErrInvalidState) ||
		errors.Is(err, view.ErrUnknownCategory) ||
		errors.Is(err, view.ErrInvalidDifficulty) ||
		errors.Is(err, service.ErrLeaderboardDisabled) ||
		errors.Is(err, trivia.ErrEmptyResult)
}

// userMessage maps an error to the alert shown in the chat.
func userMessage(err error) string {
	var reqErr *trivia.RequestError

	switch {
	case errors.Is(err, view.ErrInvalidState):
		return msgActionOutdated
	case errors.Is(err, view.ErrUnknownCategory):
		return msgUnknownCategory
	case errors.Is(err, view.ErrInvalidDifficulty):
		return msgInvalidDifficulty
	case errors.Is(err, service.ErrLeaderboardDisabled):
		return msgLeaderboardDisabled
	case errors.As(err, &reqErr) && reqErr.Message != "":
		return fmt.Sprintf(msgRequestFailedWith, reqErr.Message)
	case errors.Is(err, trivia.ErrRequestFailed):
		return msgRequestFailed
	case errors.Is(err, trivia.ErrEmptyResult):
		return msgEmptyResult
	default:
		return msgInternalError
	}
}
