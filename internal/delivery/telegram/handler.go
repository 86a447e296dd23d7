package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/storage"
)

// Handler turns Telegram updates into actions on the chat's views and renders
// the result back. Updates of different chats run concurrently; the chat
// store serializes updates of one chat.
type Handler struct {
	bot           Bot
	logger        *zap.Logger
	chats         *storage.ChatStore
	userService   UserService
	resultService ResultService
	resetService  ResetService

	wg conc.WaitGroup
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	chats *storage.ChatStore,
	userService UserService,
	resultService ResultService,
	resetService ResetService,
) *Handler {
	return &Handler{
		bot:           bot,
		logger:        logger,
		chats:         chats,
		userService:   userService,
		resultService: resultService,
		resetService:  resetService,
	}
}

// Run polls for updates until ctx is done and waits for in-flight updates
// before returning.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	defer func() {
		if r := h.wg.WaitAndRecover(); r != nil {
			h.logger.Error("update handler panicked", zap.String("panic", r.String()))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.wg.Go(func() {
				h.handleUpdate(ctx, update)
			})
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	h.handleMessage(ctx, update.Message)
}

func (h *Handler) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID

	newUser := true
	if from := m.From; from != nil {
		created, err := h.userService.EnsureUser(ctx, from.ID, chatID, from.UserName)
		if err != nil {
			h.logger.Error("failed to ensure user",
				zap.Int64("user_id", from.ID),
				zap.Error(err),
			)
		} else {
			newUser = created
		}
	}

	st := h.chats.Acquire(chatID)
	defer st.Release()

	if m.IsCommand() {
		h.handleCommand(ctx, st, m, newUser)
		return
	}

	h.handleText(ctx, st, m)
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newPlainMessage(chatID, err)
	_ = h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	_, err := h.sendMessage(c)
	return err
}

// sendMessage sends c and returns the id of the sent message.
func (h *Handler) sendMessage(c tgbotapi.Chattable) (int, error) {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return 0, err
	}
	return sent.MessageID, nil
}

// show edits messageID in place, or sends a new message when it is 0. It
// returns the id of the message now showing text.
func (h *Handler) show(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) (int, error) {
	if messageID == 0 {
		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = *kb
		}
		return h.sendMessage(msg)
	}

	edit := newEdit(chatID, messageID, text)
	edit.ReplyMarkup = kb

	if _, err := h.bot.Send(edit); err != nil {
		// Telegram rejects edits that change nothing.
		if strings.Contains(err.Error(), "message is not modified") {
			return messageID, nil
		}
		h.logger.Error("failed to edit telegram message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
		return messageID, err
	}

	return messageID, nil
}

// answerCallback removes the user's "clock" and shows notice when set.
func (h *Handler) answerCallback(id, notice string) {
	answer := tgbotapi.NewCallback(id, notice)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
