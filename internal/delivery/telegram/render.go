package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/view"
)

func categoryLabel(cats entities.Categories, id int) string {
	if id == entities.AllCategories {
		return "All categories"
	}
	if name := cats.Name(id); name != "" {
		return name
	}
	return fmt.Sprintf("Category %d", id)
}

func difficultyLabel(d int) string {
	if !entities.ValidDifficulty(d) {
		return "?"
	}
	return strings.Repeat("★", d) + strings.Repeat("☆", entities.MaxDifficulty-d)
}

// renderList renders the current page of the question list.
func renderList(l *view.QuestionList) string {
	var header string
	switch l.Mode() {
	case view.ModeSearch:
		header = bold(fmt.Sprintf("🔍 Results for %q", l.SearchTerm())) + md(fmt.Sprintf(" · %d found", l.Total()))
	case view.ModeCategory:
		header = bold("🗂 "+categoryLabel(l.Categories(), l.CategoryID())) +
			md(fmt.Sprintf(" · page %d of %d · %d total", l.Page(), l.TotalPages(), l.Total()))
	default:
		header = bold("📚 Questions") +
			md(fmt.Sprintf(" · page %d of %d · %d total", l.Page(), l.TotalPages(), l.Total()))
	}

	var sb strings.Builder
	sb.WriteString(header)

	if l.CategoriesErr() != nil && len(l.Categories()) == 0 {
		sb.WriteString("\n")
		sb.WriteString(italic("Category names are unavailable right now."))
	}
	if l.Capped() {
		sb.WriteString("\n")
		sb.WriteString(italic(fmt.Sprintf(msgSearchCapped, len(l.Cards()))))
	}

	cards := l.Cards()
	if len(cards) == 0 {
		sb.WriteString("\n\n")
		sb.WriteString(italic("No questions found."))
		return sb.String()
	}

	for i, c := range cards {
		card := renderCard(c, l.Categories())
		if sb.Len()+len(card)+2 > maxMessageLen-len(msgListTruncated)-16 {
			sb.WriteString("\n\n")
			sb.WriteString(italic(fmt.Sprintf(msgListTruncated, len(cards)-i)))
			break
		}
		sb.WriteString("\n\n")
		sb.WriteString(card)
	}

	return sb.String()
}

func renderCard(c *view.Card, cats entities.Categories) string {
	q := c.Question()

	answer := italic("hidden")
	if c.AnswerVisible() {
		answer = md(shorten(q.Answer, maxAnswerText))
	}

	return lines(
		bold(fmt.Sprintf("#%d", q.ID))+" "+md(shorten(q.Question, maxQuestionText)),
		md(fmt.Sprintf("%s · %s", categoryLabel(cats, int(q.Category)), difficultyLabel(q.Difficulty))),
		md("Answer: ")+answer,
	)
}

// renderForm renders the add-question form.
func renderForm(f *view.QuestionForm) string {
	fields := f.Fields()

	question := italic("empty")
	if fields.Question != "" {
		question = md(fields.Question)
	}
	answer := italic("empty")
	if fields.Answer != "" {
		answer = md(fields.Answer)
	}
	category := italic("none")
	if f.Categories().Has(fields.Category) {
		category = md(categoryLabel(f.Categories(), fields.Category))
	}

	var status string
	switch f.State() {
	case view.FormError:
		status = italic("⚠️ Not saved: " + errText(f.SubmitErr()) + ". Press Retry to send it again.")
	case view.FormSubmitting:
		status = italic("Saving...")
	}

	return lines(
		bold("➕ New question")+"\n",
		bold("Question: ")+question,
		bold("Answer: ")+answer,
		bold("Difficulty: ")+md(difficultyLabel(fields.Difficulty)),
		bold("Category: ")+category,
		status,
	)
}

// renderQuizQuestion renders the question currently asked.
func renderQuizQuestion(q *view.Quiz) string {
	cur := q.Current()
	if cur == nil {
		return italic(msgQuizFetchFailed)
	}

	progress := fmt.Sprintf("Question %d", q.Rounds()+1)
	if q.MaxRounds() > 0 {
		progress = fmt.Sprintf("Question %d of %d", q.Rounds()+1, q.MaxRounds())
	}

	return lines(
		bold("🎯 "+progress)+md(" · "+categoryLabel(q.Categories(), q.Category().ID))+"\n",
		md(cur.Question)+"\n",
		italic("Reply with your answer."),
	)
}

func renderAnswerResult(res view.AnswerResult) string {
	if res.Correct {
		return bold("✅ Correct!")
	}
	return bold("❌ Wrong.") + md(" The answer is: ") + bold(res.Expected)
}

// renderQuizSummary renders the final score of a quiz.
func renderQuizSummary(q *view.Quiz) string {
	if q.Rounds() == 0 {
		return lines(bold("🏁 Quiz over"), md(msgNoQuizQuestions))
	}

	return lines(
		bold("🏁 Quiz over"),
		md(fmt.Sprintf("Score: %d of %d", q.Score(), q.Rounds())),
		md("Category: "+categoryLabel(q.Categories(), q.Category().ID)),
	)
}

// renderStats renders a user's totals and recent quizzes.
func renderStats(stats *entities.QuizStats, cats entities.Categories) string {
	if stats == nil || stats.Played == 0 {
		return md(msgNoStats)
	}

	var sb strings.Builder
	sb.WriteString(bold("📊 Your results"))
	if p := stats.Player; p != nil {
		if p.Username != "" {
			sb.WriteString(md(" · @" + p.Username))
		}
		sb.WriteString("\n")
		sb.WriteString(italic("Playing since " + p.CreatedAt.UTC().Format("2006-01-02")))
	}
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Quizzes played: %d", stats.Played)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Correct answers: %d of %d (%.0f%%)", stats.TotalScore, stats.TotalAsked, stats.Accuracy())))

	if len(stats.Recent) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(bold("Recent"))
		for _, r := range stats.Recent {
			sb.WriteString("\n")
			sb.WriteString(md(fmt.Sprintf("%s · %s · %d/%d",
				r.FinishedAt.UTC().Format("2006-01-02"),
				categoryLabel(cats, r.CategoryID),
				r.Score,
				r.Rounds,
			)))
		}
	}

	return sb.String()
}

// renderTop renders the leaderboard.
func renderTop(entries []entities.LeaderboardEntry) string {
	if len(entries) == 0 {
		return md(msgNoLeaders)
	}

	var sb strings.Builder
	sb.WriteString(bold("🏆 Top players"))
	for i, e := range entries {
		name := e.DisplayName
		if name == "" {
			name = fmt.Sprintf("player %d", e.UserID)
		}
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("%d. %s · %d", i+1, name, e.TotalScore)))
	}

	return sb.String()
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
