package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/storage"
	"github.com/aliskhannn/trivia-bot/internal/view"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	var notice string
	defer func() { h.answerCallback(cb.ID, notice) }()

	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	st := h.chats.Acquire(chatID)
	defer st.Release()

	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionNoop:
		return
	case actionList:
		fn = h.listCallback(st, data, msgID)
	case actionCard:
		fn = h.cardCallback(st, data, msgID, &notice)
	case actionSearch:
		fn = h.searchPromptHandler(st)
	case actionCategory:
		id, ok := data.intParam(0)
		if !ok {
			h.logger.Debug("invalid category callback", zap.String("data", cb.Data))
			return
		}
		fn = h.filterCategoryHandler(st, id, listTarget(st, msgID))
	case actionForm:
		fn = h.formCallback(st, data, msgID)
	case actionQuiz:
		fn = h.quizCallback(st, cb.From, data, msgID)
	case actionStats:
		fn = h.statsHandler(st, senderID(cb.From, chatID))
	case actionTop:
		fn = h.topHandler()
	case actionReset:
		fn = h.resetCallback(senderID(cb.From, chatID), data, msgID)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// listTarget returns msgID when it is the chat's list message, so list
// actions edit it in place, and 0 otherwise.
func listTarget(st *storage.ChatState, msgID int) int {
	if msgID == st.ListMessageID {
		return msgID
	}
	return 0
}

func (h *Handler) listCallback(st *storage.ChatState, data callbackData, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		target := listTarget(st, msgID)

		switch data.param(0) {
		case listPage:
			page, ok := data.intParam(1)
			if !ok {
				return fmt.Errorf("list page %q: %w", data.param(1), view.ErrInvalidState)
			}
			if err := st.List.GoToPage(ctx, page); err != nil {
				return err
			}
			return h.showList(chatID, st, target)

		case listAll:
			if err := st.List.Mount(ctx); err != nil {
				return err
			}
			return h.showList(chatID, st, target)

		case listCategories:
			return h.categoryPickerHandler(st, target)(ctx, chatID)
		}

		return fmt.Errorf("list action %q: %w", data.param(0), view.ErrInvalidState)
	}
}

// cardCallback toggles or deletes one card of the list. A card that is no
// longer displayed only gets a notice.
func (h *Handler) cardCallback(st *storage.ChatState, data callbackData, msgID int, notice *string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, ok := data.intParam(1)
		if !ok {
			return fmt.Errorf("card %q: %w", data.param(1), view.ErrInvalidState)
		}

		card := st.List.Card(id)
		if card == nil {
			*notice = msgQuestionGone
			return nil
		}

		switch data.param(0) {
		case cardToggle:
			st.List.ToggleAnswer(id)

		case cardDelete:
			if err := st.List.HandleAction(ctx, card.Delete()); err != nil {
				return err
			}
			*notice = msgDeleted

		default:
			return fmt.Errorf("card action %q: %w", data.param(0), view.ErrInvalidState)
		}

		return h.showList(chatID, st, msgID)
	}
}

func (h *Handler) formCallback(st *storage.ChatState, data callbackData, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch data.param(0) {
		case formOpen, formRetry:
			return h.openFormHandler(st)(ctx, chatID)

		case formDifficulty:
			d, ok := data.intParam(1)
			if !ok {
				return fmt.Errorf("difficulty %q: %w", data.param(1), view.ErrInvalidDifficulty)
			}
			if err := st.Form.SetDifficulty(d); err != nil {
				return err
			}
			return h.showForm(chatID, st, msgID)

		case formCategory:
			id, ok := data.intParam(1)
			if !ok {
				return fmt.Errorf("category %q: %w", data.param(1), view.ErrUnknownCategory)
			}
			if err := st.Form.SetCategory(id); err != nil {
				return err
			}
			return h.showForm(chatID, st, msgID)

		case formEdit:
			if st.Form.State() != view.FormReady && st.Form.State() != view.FormError {
				return fmt.Errorf("edit form: %w", view.ErrInvalidState)
			}
			st.FormMessageID = msgID
			if data.param(1) == formFieldAnswer {
				st.Input = storage.InputFormAnswer
				return h.send(newPlainMessage(chatID, msgFormAnswer))
			}
			st.Input = storage.InputFormQuestion
			return h.send(newPlainMessage(chatID, msgFormQuestion))

		case formSubmit:
			return h.submitFormHandler(st, msgID)(ctx, chatID)

		case formCancel:
			st.Form.Reset()
			st.FormMessageID = 0
			if st.Input == storage.InputFormQuestion || st.Input == storage.InputFormAnswer {
				st.Input = storage.InputNone
			}
			_, err := h.show(chatID, msgID, md(msgFormCancelled), nil)
			return err
		}

		return fmt.Errorf("form action %q: %w", data.param(0), view.ErrInvalidState)
	}
}

func (h *Handler) quizCallback(st *storage.ChatState, from *tgbotapi.User, data callbackData, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch data.param(0) {
		case quizMenu:
			return h.quizMenuHandler(st, 0)(ctx, chatID)

		case quizCategory:
			id, ok := data.intParam(1)
			if !ok {
				return fmt.Errorf("quiz category %q: %w", data.param(1), view.ErrUnknownCategory)
			}
			return h.quizStartHandler(st, from, id, msgID)(ctx, chatID)

		case quizNext:
			err := st.Quiz.Next(ctx)
			if errors.Is(err, view.ErrInvalidState) {
				return err
			}
			return h.afterQuizFetch(ctx, chatID, st, from, err, msgID)

		case quizStop:
			if st.Quiz.State() != view.QuizPlaying {
				return fmt.Errorf("stop quiz: %w", view.ErrInvalidState)
			}
			st.Quiz.Stop()
			return h.finishQuiz(ctx, chatID, st, from)
		}

		return fmt.Errorf("quiz action %q: %w", data.param(0), view.ErrInvalidState)
	}
}

func (h *Handler) resetCallback(userID int64, data callbackData, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch data.param(0) {
		case resetConfirm:
			n, err := h.resetService.ResetUser(ctx, userID)
			if err != nil {
				return err
			}
			text := md(fmt.Sprintf("%s %d results removed.", msgResetDone, n))
			_, err = h.show(chatID, msgID, text, nil)
			return err

		case resetCancel:
			_, err := h.show(chatID, msgID, md(msgCancelled), nil)
			return err
		}

		return fmt.Errorf("reset action %q: %w", data.param(0), view.ErrInvalidState)
	}
}
