// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Error messages.
const (
	msgRequestFailed         = "The question service is not answering right now. Try again in a moment."
	msgRequestFailedWith     = "The question service refused the request: %s"
	msgCategoriesUnavailable = "Could not load categories."
	msgEmptyResult           = "The question service has nothing to show for that."
	msgActionOutdated        = "This button is outdated. Use the latest message."
	msgUnknownCategory       = "Unknown category. Pick one from the buttons."
	msgInvalidDifficulty     = "Difficulty must be between 1 and 5."
	msgInvalidPage           = "No such page. Use: /questions 2"
	msgStatsUnavailable      = "Could not load your stats. Try again later."
	msgLeaderboardDisabled   = "The leaderboard is not enabled on this bot."
	msgInternalError         = "Something went wrong. Try again later."
	msgUnknownCommand        = "Unknown command. See /help for the list of commands."
)

// Prompts and notices.
const (
	msgSearchPrompt     = "Send the text to search for."
	msgFormQuestion     = "Send the question text."
	msgFormAnswer       = "Now send the answer."
	msgFormAdded        = "✅ Question added."
	msgFormCancelled    = "Form discarded."
	msgCancelled        = "Cancelled."
	msgNothingToCancel  = "Nothing to cancel."
	msgUseCommands      = "Use the buttons or /help to see what I can do."
	msgQuestionGone     = "This question is no longer on the page."
	msgDeleted          = "Deleted"
	msgQuizInProgress   = "A quiz is already running. Answer the question or stop it."
	msgQuizFetchFailed  = "Could not fetch the next question."
	msgQuizPickCategory = "🎯 Pick a category to play."
	msgNoQuizQuestions  = "No questions left to ask."
	msgResetConfirm     = "Delete your whole quiz history and leaderboard score?"
	msgResetDone        = "History cleared."
	msgNoStats          = "You have not finished a quiz yet. Try /play."
	msgNoLeaders        = "Nobody is on the leaderboard yet."
	msgSearchCapped     = "Only the first %d matches are shown. Refine the search to narrow it down."
	msgListTruncated    = "%d more on this page did not fit. Hide answers or use /search."
)

// Telegram rejects messages over 4096 characters. The limits are counted on
// the escaped text, which is never shorter than what Telegram counts.
const (
	maxMessageLen   = 4000
	maxQuestionText = 300
	maxAnswerText   = 200
)

const (
	welcomeText = "Welcome to Trivia Bot!\n\n" +
		"Browse questions, search them, add your own and play quizzes against the question bank."

	welcomeBackText = "Welcome back! Your quiz history is still here, see /stats."

	helpText = "Commands:\n\n" +
		"/questions [page] - browse all questions\n" +
		"/search <term> - search questions\n" +
		"/category - browse one category\n" +
		"/add - add a new question\n" +
		"/play - play a quiz\n" +
		"/stats - your quiz results\n" +
		"/top - leaderboard\n" +
		"/reset - clear your quiz history\n" +
		"/cancel - drop the pending input"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// shorten cuts s to at most n runes, marking the cut with an ellipsis.
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// lines joins non-empty lines.
func lines(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	return msg
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// welcomeMarkdownV2 builds welcome message safely for MarkdownV2.
func welcomeMarkdownV2(newUser bool) string {
	var sb strings.Builder

	sb.WriteString(bold("Trivia Bot"))
	sb.WriteString("\n\n")
	if newUser {
		sb.WriteString(md(welcomeText))
	} else {
		sb.WriteString(md(welcomeBackText))
	}
	sb.WriteString("\n\n")
	sb.WriteString(md(helpText))

	return sb.String()
}
