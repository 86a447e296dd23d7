package view

import (
	"context"
	"errors"
	"testing"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/trivia"
	"github.com/aliskhannn/trivia-bot/internal/trivia/triviatest"
)

var errBoom = errors.New("boom")

var testCategories = entities.Categories{
	1: "Science",
	2: "Art",
	3: "Geography",
}

func capitalQuestions() []entities.Question {
	return []entities.Question{
		{ID: 1, Question: "What is the capital of France?", Answer: "Paris", Category: 3, Difficulty: 1},
		{ID: 2, Question: "Who painted the Mona Lisa?", Answer: "Leonardo da Vinci", Category: 2, Difficulty: 2},
		{ID: 3, Question: "What is the capital of Japan?", Answer: "Tokyo", Category: 3, Difficulty: 1},
		{ID: 4, Question: "What is H2O?", Answer: "Water", Category: 1, Difficulty: 1},
		{ID: 5, Question: "Which planet is red?", Answer: "Mars", Category: 1, Difficulty: 2},
	}
}

func manyQuestions(n int) []entities.Question {
	out := make([]entities.Question, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, entities.Question{
			ID:         i,
			Question:   "question",
			Answer:     "answer",
			Category:   entities.CategoryID(i%3 + 1),
			Difficulty: 1,
		})
	}
	return out
}

func newBackend(t *testing.T, questions []entities.Question) (*triviatest.Backend, *trivia.Client) {
	t.Helper()
	b := triviatest.NewBackend(testCategories, questions)
	t.Cleanup(b.Close)

	c, err := trivia.NewClient(trivia.Options{BaseURL: b.URL()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return b, c
}

// scriptedQuiz answers NextQuizQuestion from a fixed queue and records the
// exclusion lists it was sent.
type scriptedQuiz struct {
	categories entities.Categories
	queue      []*entities.Question
	err        error
	requests   [][]int
}

func (s *scriptedQuiz) ListCategories(context.Context) (entities.Categories, error) {
	return s.categories, nil
}

func (s *scriptedQuiz) NextQuizQuestion(_ context.Context, _ entities.Category, previous []int) (*entities.Question, error) {
	s.requests = append(s.requests, previous)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.queue) == 0 {
		return nil, nil
	}
	q := s.queue[0]
	s.queue = s.queue[1:]
	return q, nil
}
