package view

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// QuizState is the lifecycle of a quiz session.
type QuizState int

const (
	QuizCategorySelect QuizState = iota
	QuizPlaying
	QuizFinished
)

func (s QuizState) String() string {
	switch s {
	case QuizCategorySelect:
		return "category_select"
	case QuizPlaying:
		return "playing"
	case QuizFinished:
		return "finished"
	}
	return fmt.Sprintf("QuizState(%d)", int(s))
}

// DefaultQuizRounds is how many questions a session asks at most.
const DefaultQuizRounds = 5

// AnswerResult tells the user how an answer was judged.
type AnswerResult struct {
	Given    string
	Expected string
	Correct  bool
}

// Quiz asks questions one at a time until the service runs out or the round
// limit is reached. The service tracks nothing; exclusion relies on the asked
// ids sent with every request.
type Quiz struct {
	svc       QuizService
	maxRounds int

	state         QuizState
	categories    entities.Categories
	categoriesErr error

	category entities.Category
	asked    []int
	askedSet map[int]struct{}
	current  *entities.Question
	score    int
}

// NewQuiz creates a quiz in CategorySelect. maxRounds <= 0 means no limit.
func NewQuiz(svc QuizService, maxRounds int) *Quiz {
	return &Quiz{
		svc:       svc,
		maxRounds: maxRounds,
		askedSet:  make(map[int]struct{}),
	}
}

// LoadCategories fetches the categories offered in the picker.
func (q *Quiz) LoadCategories(ctx context.Context) error {
	cats, err := q.svc.ListCategories(ctx)
	if err != nil {
		q.categoriesErr = err
		return fmt.Errorf("load categories: %w", err)
	}
	q.categories = cats
	q.categoriesErr = nil
	return nil
}

// Start begins a new session for categoryID (entities.AllCategories for any)
// and fetches the first question.
func (q *Quiz) Start(ctx context.Context, categoryID int) error {
	if q.state == QuizPlaying {
		return fmt.Errorf("start quiz: %w", ErrInvalidState)
	}
	if categoryID != entities.AllCategories && q.categories != nil && !q.categories.Has(categoryID) {
		return fmt.Errorf("category %d: %w", categoryID, ErrUnknownCategory)
	}

	q.category = entities.Category{ID: categoryID, Type: q.categories.Name(categoryID)}
	q.asked = nil
	q.askedSet = make(map[int]struct{})
	q.current = nil
	q.score = 0
	q.state = QuizPlaying

	return q.next(ctx)
}

// Next fetches a question when none is being shown, e.g. after a failed fetch.
func (q *Quiz) Next(ctx context.Context) error {
	if q.state != QuizPlaying || q.current != nil {
		return fmt.Errorf("next question: %w", ErrInvalidState)
	}
	return q.next(ctx)
}

// Answer judges text against the current question, records the question as
// asked and moves on. The result is valid even when the following fetch fails.
func (q *Quiz) Answer(ctx context.Context, text string) (AnswerResult, error) {
	if q.state != QuizPlaying || q.current == nil {
		return AnswerResult{}, fmt.Errorf("answer: %w", ErrInvalidState)
	}

	res := AnswerResult{
		Given:    text,
		Expected: q.current.Answer,
		Correct:  answersMatch(text, q.current.Answer),
	}
	if res.Correct {
		q.score++
	}

	q.markAsked(q.current.ID)
	q.current = nil

	if q.maxRounds > 0 && len(q.asked) >= q.maxRounds {
		q.state = QuizFinished
		return res, nil
	}

	return res, q.next(ctx)
}

// Stop ends the session early.
func (q *Quiz) Stop() {
	if q.state == QuizPlaying {
		q.current = nil
		q.state = QuizFinished
	}
}

// Reset goes back to the category picker, keeping loaded categories.
func (q *Quiz) Reset() {
	q.state = QuizCategorySelect
	q.asked = nil
	q.askedSet = make(map[int]struct{})
	q.current = nil
	q.score = 0
}

func (q *Quiz) next(ctx context.Context) error {
	previous := make([]int, len(q.asked))
	copy(previous, q.asked)

	question, err := q.svc.NextQuizQuestion(ctx, q.category, previous)
	if err != nil {
		return fmt.Errorf("next quiz question: %w", err)
	}

	if question == nil {
		q.state = QuizFinished
		return nil
	}
	// A repeat means the service ignored the exclusion list; stop rather than loop.
	if _, seen := q.askedSet[question.ID]; seen {
		q.state = QuizFinished
		return nil
	}

	q.current = question
	return nil
}

func (q *Quiz) markAsked(id int) {
	if _, ok := q.askedSet[id]; ok {
		return
	}
	q.askedSet[id] = struct{}{}
	q.asked = append(q.asked, id)
}

func answersMatch(given, expected string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(given)) == fold.String(strings.TrimSpace(expected))
}

func (q *Quiz) State() QuizState { return q.state }

func (q *Quiz) Current() *entities.Question { return q.current }

func (q *Quiz) Score() int { return q.score }

// Asked returns the ids asked so far in order.
func (q *Quiz) Asked() []int {
	out := make([]int, len(q.asked))
	copy(out, q.asked)
	return out
}

func (q *Quiz) Rounds() int { return len(q.asked) }

func (q *Quiz) MaxRounds() int { return q.maxRounds }

func (q *Quiz) Category() entities.Category { return q.category }

func (q *Quiz) Categories() entities.Categories { return q.categories }

func (q *Quiz) CategoriesErr() error { return q.categoriesErr }
