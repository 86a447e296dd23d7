package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/storage"
	"github.com/aliskhannn/trivia-bot/internal/view"
)

// topPlayers is how many leaderboard lines /top shows.
const topPlayers = 10

// Commands lists the bot commands for the Telegram menu.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "questions", Description: "Browse questions"},
		{Command: "search", Description: "Search questions"},
		{Command: "category", Description: "Browse one category"},
		{Command: "add", Description: "Add a question"},
		{Command: "play", Description: "Play a quiz"},
		{Command: "stats", Description: "Your quiz results"},
		{Command: "top", Description: "Leaderboard"},
		{Command: "reset", Description: "Clear your quiz history"},
		{Command: "cancel", Description: "Drop the pending input"},
		{Command: "help", Description: "Help"},
	}
}

// handleCommand dispatches a command. newUser is true on the first contact
// with the sender.
func (h *Handler) handleCommand(ctx context.Context, st *storage.ChatState, m *tgbotapi.Message, newUser bool) {
	chatID := st.ChatID
	args := strings.TrimSpace(m.CommandArguments())

	switch m.Command() {
	case "start":
		st.Input = storage.InputNone
		_ = h.withErrorHandling(h.startHandler(newUser))(ctx, chatID)

	case "help":
		_ = h.send(newPlainMessage(chatID, helpText))

	case "questions":
		_ = h.withErrorHandling(h.questionsHandler(st, args))(ctx, chatID)

	case "search":
		if args == "" {
			_ = h.withErrorHandling(h.searchPromptHandler(st))(ctx, chatID)
			return
		}
		st.Search.Input(args)
		_ = h.withErrorHandling(h.searchHandler(st))(ctx, chatID)

	case "category":
		_ = h.withErrorHandling(h.categoryPickerHandler(st, 0))(ctx, chatID)

	case "add":
		_ = h.withErrorHandling(h.openFormHandler(st))(ctx, chatID)

	case "play":
		_ = h.withErrorHandling(h.quizMenuHandler(st, 0))(ctx, chatID)

	case "stats":
		_ = h.withErrorHandling(h.statsHandler(st, senderID(m.From, chatID)))(ctx, chatID)

	case "top":
		_ = h.withErrorHandling(h.topHandler())(ctx, chatID)

	case "reset":
		_ = h.withErrorHandling(h.resetPromptHandler())(ctx, chatID)

	case "cancel":
		_ = h.withErrorHandling(h.cancelHandler(st, m.From))(ctx, chatID)

	default:
		h.sendError(chatID, msgUnknownCommand)
	}
}

// handleText routes free text by what the chat was asked for last.
func (h *Handler) handleText(ctx context.Context, st *storage.ChatState, m *tgbotapi.Message) {
	chatID := st.ChatID
	text := m.Text

	if text == "" {
		h.sendError(chatID, msgUseCommands)
		return
	}

	switch st.Input {
	case storage.InputSearch:
		st.Search.Input(text)
		_ = h.withErrorHandling(h.searchHandler(st))(ctx, chatID)

	case storage.InputFormQuestion:
		_ = h.withErrorHandling(h.formQuestionHandler(st, text))(ctx, chatID)

	case storage.InputFormAnswer:
		_ = h.withErrorHandling(h.formAnswerHandler(st, text))(ctx, chatID)

	case storage.InputQuizAnswer:
		_ = h.withErrorHandling(h.quizAnswerHandler(st, m.From, text))(ctx, chatID)

	default:
		h.sendError(chatID, msgUseCommands)
	}
}

func senderID(from *tgbotapi.User, chatID int64) int64 {
	if from == nil {
		return chatID
	}
	return from.ID
}

func (h *Handler) startHandler(newUser bool) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, welcomeMarkdownV2(newUser))
		msg.ReplyMarkup = buildMainMenuKeyboard()
		return h.send(msg)
	}
}

// showList renders the list into messageID, or a new message when 0.
func (h *Handler) showList(chatID int64, st *storage.ChatState, messageID int) error {
	kb := buildListKeyboard(st.List)
	id, err := h.show(chatID, messageID, renderList(st.List), &kb)
	if id != 0 {
		st.ListMessageID = id
	}
	return err
}

func (h *Handler) questionsHandler(st *storage.ChatState, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		page := 1
		if args != "" {
			n, err := strconv.Atoi(args)
			if err != nil || n < 1 {
				h.sendError(chatID, msgInvalidPage)
				return nil
			}
			page = n
		}

		if page == 1 || st.List.Mode() != view.ModeAll || st.List.Total() == 0 {
			if err := st.List.Mount(ctx); err != nil {
				return err
			}
		}

		if page != 1 {
			if page > st.List.TotalPages() {
				h.sendError(chatID, msgInvalidPage)
				return nil
			}
			if err := st.List.GoToPage(ctx, page); err != nil {
				return err
			}
		}

		return h.showList(chatID, st, 0)
	}
}

func (h *Handler) searchPromptHandler(st *storage.ChatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		st.Input = storage.InputSearch
		return h.send(newPlainMessage(chatID, msgSearchPrompt))
	}
}

// searchHandler submits the search box and shows the results.
func (h *Handler) searchHandler(st *storage.ChatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		ev := st.Search.Submit()
		st.Input = storage.InputNone

		if err := st.List.Search(ctx, ev); err != nil {
			return err
		}

		return h.showList(chatID, st, 0)
	}
}

func (h *Handler) categoryPickerHandler(st *storage.ChatState, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if len(st.List.Categories()) == 0 {
			if err := st.List.LoadCategories(ctx); err != nil {
				return err
			}
		}

		kb := buildListCategoryKeyboard(st.List.Categories())
		id, err := h.show(chatID, messageID, bold("🗂 Pick a category"), &kb)
		if id != 0 {
			st.ListMessageID = id
		}
		return err
	}
}

func (h *Handler) filterCategoryHandler(st *storage.ChatState, categoryID, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if cats := st.List.Categories(); len(cats) > 0 && !cats.Has(categoryID) {
			return fmt.Errorf("filter category %d: %w", categoryID, view.ErrUnknownCategory)
		}

		if err := st.List.FilterCategory(ctx, categoryID); err != nil {
			return err
		}

		return h.showList(chatID, st, messageID)
	}
}

// showForm renders the form into messageID, or a new message when 0.
func (h *Handler) showForm(chatID int64, st *storage.ChatState, messageID int) error {
	kb := buildFormKeyboard(st.Form)
	id, err := h.show(chatID, messageID, renderForm(st.Form), &kb)
	if id != 0 {
		st.FormMessageID = id
	}
	return err
}

// openFormHandler loads categories and asks for the question text. A form
// that is already on screen is shown again with its fields.
func (h *Handler) openFormHandler(st *storage.ChatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := st.Form.Open(ctx); err != nil {
			kb := buildFormRetryKeyboard()
			h.alert(chatID, err, &kb)
			return nil
		}

		if st.FormMessageID != 0 {
			st.Input = storage.InputNone
			return h.showForm(chatID, st, 0)
		}

		st.Input = storage.InputFormQuestion
		return h.send(newPlainMessage(chatID, msgFormQuestion))
	}
}

func (h *Handler) formQuestionHandler(st *storage.ChatState, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := st.Form.SetQuestion(text); err != nil {
			st.Input = storage.InputNone
			return err
		}

		// Editing an existing form goes straight back to it.
		if st.FormMessageID != 0 {
			st.Input = storage.InputNone
			return h.showForm(chatID, st, 0)
		}

		st.Input = storage.InputFormAnswer
		return h.send(newPlainMessage(chatID, msgFormAnswer))
	}
}

func (h *Handler) formAnswerHandler(st *storage.ChatState, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		st.Input = storage.InputNone

		if err := st.Form.SetAnswer(text); err != nil {
			return err
		}

		return h.showForm(chatID, st, 0)
	}
}

// submitFormHandler sends the form. On failure the form stays on screen in
// its error state so the user can retry.
func (h *Handler) submitFormHandler(st *storage.ChatState, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := st.Form.Submit(ctx); err != nil {
			if st.Form.State() == view.FormError {
				_ = h.showForm(chatID, st, messageID)
			}
			return err
		}

		st.FormMessageID = 0
		_, err := h.show(chatID, messageID, md(msgFormAdded), nil)
		return err
	}
}

func (h *Handler) quizMenuHandler(st *storage.ChatState, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if st.Quiz.State() == view.QuizPlaying {
			msg := newPlainMessage(chatID, msgQuizInProgress)
			msg.ReplyMarkup = buildQuizQuestionKeyboard()
			return h.send(msg)
		}

		st.Quiz.Reset()
		st.Input = storage.InputNone

		text := bold(msgQuizPickCategory)
		if err := st.Quiz.LoadCategories(ctx); err != nil {
			// The picker still offers all categories.
			h.logger.Warn("failed to load quiz categories",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			text += "\n" + italic(msgCategoriesUnavailable+" You can still play all categories.")
		}

		kb := buildQuizCategoryKeyboard(st.Quiz.Categories())
		id, err := h.show(chatID, messageID, text, &kb)
		if id != 0 {
			st.QuizMessageID = id
		}
		return err
	}
}

func (h *Handler) quizStartHandler(st *storage.ChatState, from *tgbotapi.User, categoryID, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := st.Quiz.Start(ctx, categoryID)
		if errors.Is(err, view.ErrInvalidState) || errors.Is(err, view.ErrUnknownCategory) {
			return err
		}

		return h.afterQuizFetch(ctx, chatID, st, from, err, messageID)
	}
}

func (h *Handler) quizAnswerHandler(st *storage.ChatState, from *tgbotapi.User, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		res, err := st.Quiz.Answer(ctx, text)
		if errors.Is(err, view.ErrInvalidState) {
			st.Input = storage.InputNone
			return err
		}

		if sendErr := h.send(newMessage(chatID, renderAnswerResult(res))); sendErr != nil {
			return sendErr
		}

		return h.afterQuizFetch(ctx, chatID, st, from, err, 0)
	}
}

// afterQuizFetch shows what follows a question fetch: the next question, a
// retry prompt after a failed fetch, or the summary once the quiz is over.
func (h *Handler) afterQuizFetch(
	ctx context.Context,
	chatID int64,
	st *storage.ChatState,
	from *tgbotapi.User,
	fetchErr error,
	messageID int,
) error {
	switch {
	case st.Quiz.State() == view.QuizFinished:
		return h.finishQuiz(ctx, chatID, st, from)

	case fetchErr != nil:
		st.Input = storage.InputNone
		kb := buildQuizRetryKeyboard()
		h.alert(chatID, fetchErr, &kb)
		return nil
	}

	st.Input = storage.InputQuizAnswer
	kb := buildQuizQuestionKeyboard()
	id, err := h.show(chatID, messageID, renderQuizQuestion(st.Quiz), &kb)
	if id != 0 {
		st.QuizMessageID = id
	}
	return err
}

// finishQuiz records the result and shows the summary. Recording failures
// are logged only.
func (h *Handler) finishQuiz(ctx context.Context, chatID int64, st *storage.ChatState, from *tgbotapi.User) error {
	st.Input = storage.InputNone
	q := st.Quiz

	if q.Rounds() > 0 && from != nil {
		user := entities.NewUser(from.ID, chatID, from.UserName)
		res := entities.NewQuizResult(from.ID, q.Category().ID, q.Score(), q.Rounds())

		if err := h.resultService.Record(ctx, user, res); err != nil {
			h.logger.Error("failed to record quiz result",
				zap.Int64("user_id", from.ID),
				zap.Int("score", q.Score()),
				zap.Error(err),
			)
		}
	}

	msg := newMessage(chatID, renderQuizSummary(q))
	msg.ReplyMarkup = buildQuizResultKeyboard()
	return h.send(msg)
}

func (h *Handler) statsHandler(st *storage.ChatState, userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.resultService.Stats(ctx, userID)
		if err != nil {
			h.logger.Error("failed to get stats",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgStatsUnavailable)
			return nil
		}

		return h.send(newMessage(chatID, renderStats(stats, st.Quiz.Categories())))
	}
}

func (h *Handler) topHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		entries, err := h.resultService.Top(ctx, topPlayers)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, renderTop(entries)))
	}
}

func (h *Handler) resetPromptHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, msgResetConfirm)
		msg.ReplyMarkup = buildResetConfirmKeyboard()
		return h.send(msg)
	}
}

// cancelHandler drops pending input, discards the form and stops a running
// quiz.
func (h *Handler) cancelHandler(st *storage.ChatState, from *tgbotapi.User) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		cancelled := false

		if st.Input != storage.InputNone && st.Input != storage.InputQuizAnswer {
			st.Input = storage.InputNone
			cancelled = true
		}

		if st.Form.State() != view.FormIdle {
			st.Form.Reset()
			st.FormMessageID = 0
			cancelled = true
		}

		if st.Quiz.State() == view.QuizPlaying {
			st.Quiz.Stop()
			return h.finishQuiz(ctx, chatID, st, from)
		}

		if !cancelled {
			h.sendError(chatID, msgNothingToCancel)
			return nil
		}
		return h.send(newPlainMessage(chatID, msgCancelled))
	}
}
