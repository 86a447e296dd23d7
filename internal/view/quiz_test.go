package view

import (
	"context"
	"errors"
	"testing"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

func TestQuizPlaysUntilExhausted(t *testing.T) {
	b, c := newBackend(t, capitalQuestions())
	q := NewQuiz(c, 0)
	ctx := context.Background()

	if err := q.LoadCategories(ctx); err != nil {
		t.Fatalf("categories: %v", err)
	}
	if err := q.Start(ctx, 3); err != nil {
		t.Fatalf("start: %v", err)
	}
	if q.State() != QuizPlaying || q.Category().Type != "Geography" {
		t.Fatalf("state=%v category=%+v", q.State(), q.Category())
	}

	for q.State() == QuizPlaying {
		cur := q.Current()
		if cur == nil {
			t.Fatal("playing without a question")
		}
		if cur.Category != 3 {
			t.Fatalf("question %d outside category", cur.ID)
		}
		if _, err := q.Answer(ctx, "  "+cur.Answer+" "); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}

	if q.State() != QuizFinished || q.Score() != 2 || q.Rounds() != 2 {
		t.Fatalf("state=%v score=%d rounds=%d", q.State(), q.Score(), q.Rounds())
	}

	calls := b.Calls("quizzes")
	if _, err := q.Answer(ctx, "x"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after finish, got %v", err)
	}
	if err := q.Next(ctx); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState after finish, got %v", err)
	}
	if b.Calls("quizzes") != calls {
		t.Fatal("finished quiz must not issue requests")
	}
}

func TestQuizRoundLimit(t *testing.T) {
	_, c := newBackend(t, manyQuestions(20))
	q := NewQuiz(c, DefaultQuizRounds)
	ctx := context.Background()

	if err := q.Start(ctx, entities.AllCategories); err != nil {
		t.Fatalf("start: %v", err)
	}
	for q.State() == QuizPlaying {
		if _, err := q.Answer(ctx, "wrong"); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if q.Rounds() != DefaultQuizRounds || q.Score() != 0 {
		t.Fatalf("rounds=%d score=%d", q.Rounds(), q.Score())
	}

	seen := make(map[int]bool)
	for _, id := range q.Asked() {
		if seen[id] {
			t.Fatalf("question %d asked twice", id)
		}
		seen[id] = true
	}
}

func TestQuizAnswerComparison(t *testing.T) {
	cases := []struct {
		given, expected string
		want            bool
	}{
		{"paris", "Paris", true},
		{"  PARIS\t", "Paris", true},
		{"Leonardo Da Vinci", "leonardo da vinci", true},
		{"ÉCOLE", "école", true},
		{"Pari", "Paris", false},
		{"", "Paris", false},
	}
	for _, tc := range cases {
		if got := answersMatch(tc.given, tc.expected); got != tc.want {
			t.Errorf("answersMatch(%q, %q) = %v, want %v", tc.given, tc.expected, got, tc.want)
		}
	}
}

func TestQuizAskedBeforeNextFetch(t *testing.T) {
	svc := &scriptedQuiz{queue: []*entities.Question{
		{ID: 1, Answer: "a"},
		{ID: 2, Answer: "b"},
		{ID: 3, Answer: "c"},
	}}
	q := NewQuiz(svc, 0)
	ctx := context.Background()

	if err := q.Start(ctx, entities.AllCategories); err != nil {
		t.Fatalf("start: %v", err)
	}
	res, err := q.Answer(ctx, "A")
	if err != nil || !res.Correct || res.Expected != "a" {
		t.Fatalf("answer 1: %+v %v", res, err)
	}
	if _, err := q.Answer(ctx, "nope"); err != nil {
		t.Fatalf("answer 2: %v", err)
	}

	want := [][]int{{}, {1}, {1, 2}}
	if len(svc.requests) != len(want) {
		t.Fatalf("got %d requests", len(svc.requests))
	}
	for i := range want {
		if !equalInts(svc.requests[i], want[i]) {
			t.Errorf("request %d sent %v, want %v", i, svc.requests[i], want[i])
		}
	}
	if q.Score() != 1 {
		t.Fatalf("score=%d", q.Score())
	}
}

func TestQuizRepeatedQuestionFinishes(t *testing.T) {
	svc := &scriptedQuiz{queue: []*entities.Question{
		{ID: 1, Answer: "a"},
		{ID: 1, Answer: "a"},
	}}
	q := NewQuiz(svc, 0)
	ctx := context.Background()

	if err := q.Start(ctx, entities.AllCategories); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := q.Answer(ctx, "a"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if q.State() != QuizFinished || !equalInts(q.Asked(), []int{1}) {
		t.Fatalf("state=%v asked=%v", q.State(), q.Asked())
	}
}

func TestQuizFetchFailureAllowsRetry(t *testing.T) {
	svc := &scriptedQuiz{
		queue: []*entities.Question{{ID: 4, Answer: "x"}},
		err:   errBoom,
	}
	q := NewQuiz(svc, 0)
	ctx := context.Background()

	if err := q.Start(ctx, entities.AllCategories); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if q.State() != QuizPlaying || q.Current() != nil {
		t.Fatalf("state=%v current=%v", q.State(), q.Current())
	}

	svc.err = nil
	if err := q.Next(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if q.Current() == nil || q.Current().ID != 4 {
		t.Fatalf("unexpected current %+v", q.Current())
	}
}

func TestQuizStopAndRestart(t *testing.T) {
	_, c := newBackend(t, capitalQuestions())
	q := NewQuiz(c, 0)
	ctx := context.Background()

	if err := q.Start(ctx, entities.AllCategories); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := q.Start(ctx, entities.AllCategories); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState while playing, got %v", err)
	}

	q.Stop()
	if q.State() != QuizFinished {
		t.Fatalf("expected finished, got %v", q.State())
	}

	if err := q.Start(ctx, entities.AllCategories); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if q.Rounds() != 0 || q.Score() != 0 || q.Current() == nil {
		t.Fatalf("restart did not reset: rounds=%d score=%d", q.Rounds(), q.Score())
	}
}

func TestQuizUnknownCategory(t *testing.T) {
	_, c := newBackend(t, capitalQuestions())
	q := NewQuiz(c, 0)
	ctx := context.Background()

	if err := q.LoadCategories(ctx); err != nil {
		t.Fatalf("categories: %v", err)
	}
	if err := q.Start(ctx, 42); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if q.State() != QuizCategorySelect {
		t.Fatalf("expected category select, got %v", q.State())
	}
}
