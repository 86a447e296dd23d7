// Package view holds the per-chat state machines of the trivia front end:
// question cards, the search box, the question list, the add-question form
// and the quiz. Views own their state and change it only through their
// methods; rendering is left to the delivery layer.
package view

import (
	"context"
	"errors"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

var (
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 5")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrInvalidState      = errors.New("action not allowed in current state")
)

type ListService interface {
	ListCategories(ctx context.Context) (entities.Categories, error)
	ListQuestions(ctx context.Context, page int) (*entities.QuestionPage, error)
	ListQuestionsByCategory(ctx context.Context, categoryID, page int) (*entities.QuestionPage, error)
	SearchQuestions(ctx context.Context, term string) (*entities.QuestionPage, error)
	DeleteQuestion(ctx context.Context, id int) error
}

type FormService interface {
	ListCategories(ctx context.Context) (entities.Categories, error)
	CreateQuestion(ctx context.Context, q entities.NewQuestion) error
}

type QuizService interface {
	ListCategories(ctx context.Context) (entities.Categories, error)
	NextQuizQuestion(ctx context.Context, category entities.Category, previous []int) (*entities.Question, error)
}

// QuestionService is everything the views need from the question service.
type QuestionService interface {
	ListService
	FormService
	QuizService
}
