package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/view"
)

const categoriesPerRow = 2

// buildMainMenuKeyboard builds keyboard for the welcome message.
func buildMainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Questions", buildListAllCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🔍 Search", buildSearchCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add question", buildFormCallback(formOpen)),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Play", buildQuizCallback(quizMenu)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My results", buildStatsCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Top", buildTopCallback()),
		),
	)
}

// buildListKeyboard builds card buttons and pagination for the question list.
func buildListKeyboard(l *view.QuestionList) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, c := range l.Cards() {
		q := c.Question()
		toggle := "👁 Show #" + strconv.Itoa(q.ID)
		if c.AnswerVisible() {
			toggle = "🙈 Hide #" + strconv.Itoa(q.ID)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggle, buildCardToggleCallback(q.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete #"+strconv.Itoa(q.ID), buildCardDeleteCallback(q.ID)),
		))
	}

	if nav := buildPageRow(l.Page(), l.TotalPages()); len(nav) > 0 {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔍 Search", buildSearchCallback()),
		tgbotapi.NewInlineKeyboardButtonData("🗂 Category", buildListCategoriesCallback()),
		tgbotapi.NewInlineKeyboardButtonData("📚 All", buildListAllCallback()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildPageRow builds the pagination row, or nil for a single page.
func buildPageRow(page, totalPages int) []tgbotapi.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var row []tgbotapi.InlineKeyboardButton
	if page > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️", buildListPageCallback(page-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d / %d", page, totalPages),
		buildNoopCallback(),
	))
	if page < totalPages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("▶️", buildListPageCallback(page+1)))
	}

	return row
}

// buildCategoryKeyboard lays categories out in rows. selected is marked, use
// -1 for none. withAll adds an "All categories" button first.
func buildCategoryKeyboard(
	cats entities.Categories,
	selected int,
	withAll bool,
	callback func(id int) string,
) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton

	if withAll {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				markSelected(categoryLabel(cats, entities.AllCategories), selected == entities.AllCategories),
				callback(entities.AllCategories),
			),
		))
	}

	var row []tgbotapi.InlineKeyboardButton
	for _, c := range cats.Sorted() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			markSelected(c.Type, c.ID == selected),
			callback(c.ID),
		))
		if len(row) == categoriesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return rows
}

func markSelected(label string, selected bool) string {
	if selected {
		return "✅ " + label
	}
	return label
}

// buildListCategoryKeyboard builds the picker that filters the list.
func buildListCategoryKeyboard(cats entities.Categories) tgbotapi.InlineKeyboardMarkup {
	rows := buildCategoryKeyboard(cats, -1, false, buildCategoryCallback)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📚 All questions", buildListAllCallback()),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildFormKeyboard builds keyboard for the add-question form.
func buildFormKeyboard(f *view.QuestionForm) tgbotapi.InlineKeyboardMarkup {
	fields := f.Fields()

	var difficulty []tgbotapi.InlineKeyboardButton
	for d := entities.MinDifficulty; d <= entities.MaxDifficulty; d++ {
		difficulty = append(difficulty, tgbotapi.NewInlineKeyboardButtonData(
			markSelected(strconv.Itoa(d), d == fields.Difficulty),
			buildFormDifficultyCallback(d),
		))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{difficulty}
	rows = append(rows, buildCategoryKeyboard(f.Categories(), fields.Category, false, buildFormCategoryCallback)...)

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✏️ Question", buildFormCallback(formEdit, formFieldQuestion)),
		tgbotapi.NewInlineKeyboardButtonData("✏️ Answer", buildFormCallback(formEdit, formFieldAnswer)),
	))

	submit := "✅ Submit"
	if f.State() == view.FormError {
		submit = "🔁 Retry"
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(submit, buildFormCallback(formSubmit)),
		tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", buildFormCallback(formCancel)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildFormRetryKeyboard offers to reload categories after a failure.
func buildFormRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Try again", buildFormCallback(formRetry)),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", buildFormCallback(formCancel)),
		),
	)
}

// buildQuizCategoryKeyboard builds the quiz category picker.
func buildQuizCategoryKeyboard(cats entities.Categories) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(buildCategoryKeyboard(cats, -1, true, buildQuizCategoryCallback)...)
}

// buildQuizQuestionKeyboard builds keyboard under a quiz question.
func buildQuizQuestionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏹ Stop", buildQuizCallback(quizStop)),
		),
	)
}

// buildQuizRetryKeyboard offers to fetch the question again after a failure.
func buildQuizRetryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Try again", buildQuizCallback(quizNext)),
			tgbotapi.NewInlineKeyboardButtonData("⏹ Stop", buildQuizCallback(quizStop)),
		),
	)
}

// buildQuizResultKeyboard builds keyboard for quiz results screen.
func buildQuizResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 New quiz", buildQuizCallback(quizMenu)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My results", buildStatsCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Top", buildTopCallback()),
		),
	)
}

// buildResetConfirmKeyboard asks to confirm a history reset.
func buildResetConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, delete", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Keep it", buildResetCancelCallback()),
		),
	)
}
