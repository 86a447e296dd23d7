package view

import "github.com/aliskhannn/trivia-bot/internal/domain/entities"

// ActionDelete is the only action a card emits.
const ActionDelete = "DELETE"

// QuestionAction is emitted by a card for its parent to act on.
type QuestionAction struct {
	QuestionID int
	Action     string
}

// Card renders one question and remembers whether its answer is shown.
type Card struct {
	question      entities.Question
	visibleAnswer bool
}

func NewCard(q entities.Question) *Card {
	return &Card{question: q}
}

func (c *Card) Question() entities.Question { return c.question }

func (c *Card) AnswerVisible() bool { return c.visibleAnswer }

// ToggleAnswer flips answer visibility. It has no effect outside the card.
func (c *Card) ToggleAnswer() {
	c.visibleAnswer = !c.visibleAnswer
}

// Delete asks the parent to delete the question. The card itself keeps
// rendering until the parent drops it.
func (c *Card) Delete() QuestionAction {
	return QuestionAction{QuestionID: c.question.ID, Action: ActionDelete}
}
