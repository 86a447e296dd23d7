package trivia_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/trivia"
	"github.com/aliskhannn/trivia-bot/internal/trivia/triviatest"
)

var testCategories = entities.Categories{
	1: "Science",
	2: "Art",
	3: "Geography",
}

func seedQuestions(n int) []entities.Question {
	out := make([]entities.Question, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, entities.Question{
			ID:         i,
			Question:   "Question number " + string(rune('A'+i-1)),
			Answer:     "answer",
			Category:   entities.CategoryID(i%3 + 1),
			Difficulty: i%5 + 1,
		})
	}
	return out
}

func newClient(t *testing.T, b *triviatest.Backend) *trivia.Client {
	t.Helper()
	c, err := trivia.NewClient(trivia.Options{BaseURL: b.URL(), WithCredentials: true})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	if _, err := trivia.NewClient(trivia.Options{BaseURL: "/api"}); err == nil {
		t.Fatal("expected error for base url without host")
	}
}

func TestListCategoriesCoversQuestionCategories(t *testing.T) {
	b := triviatest.NewBackend(testCategories, seedQuestions(12))
	t.Cleanup(b.Close)
	c := newClient(t, b)
	ctx := context.Background()

	cats, err := c.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 3 || cats.Name(2) != "Art" {
		t.Fatalf("unexpected categories: %v", cats)
	}

	for page := 1; page <= 2; page++ {
		p, err := c.ListQuestions(ctx, page)
		if err != nil {
			t.Fatalf("list page %d: %v", page, err)
		}
		for _, q := range p.Questions {
			if !cats.Has(int(q.Category)) {
				t.Errorf("question %d references unknown category %d", q.ID, q.Category)
			}
		}
	}
}

func TestListQuestionsPagination(t *testing.T) {
	b := triviatest.NewBackend(testCategories, seedQuestions(12))
	t.Cleanup(b.Close)
	c := newClient(t, b)
	ctx := context.Background()

	first, err := c.ListQuestions(ctx, 1)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(first.Questions) != triviatest.PageSize || first.TotalCount != 12 {
		t.Fatalf("page 1: got %d questions, total %d", len(first.Questions), first.TotalCount)
	}
	if len(first.Categories) != 3 {
		t.Errorf("page 1: expected categories in response, got %v", first.Categories)
	}

	second, err := c.ListQuestions(ctx, 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(second.Questions) != 2 || second.Questions[0].ID != 11 {
		t.Fatalf("page 2: unexpected questions %+v", second.Questions)
	}

	_, err = c.ListQuestions(ctx, 3)
	if !errors.Is(err, trivia.ErrEmptyResult) {
		t.Fatalf("page 3: expected ErrEmptyResult, got %v", err)
	}
}

func TestListQuestionsByCategory(t *testing.T) {
	b := triviatest.NewBackend(testCategories, seedQuestions(9))
	t.Cleanup(b.Close)
	c := newClient(t, b)

	p, err := c.ListQuestionsByCategory(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if p.CurrentCategory == nil || *p.CurrentCategory != 2 {
		t.Fatalf("expected current category 2, got %v", p.CurrentCategory)
	}
	for _, q := range p.Questions {
		if q.Category != 2 {
			t.Errorf("question %d has category %d", q.ID, q.Category)
		}
	}
}

func TestSearchQuestions(t *testing.T) {
	b := triviatest.NewBackend(testCategories, []entities.Question{
		{ID: 1, Question: "What is the capital of France?", Answer: "Paris", Category: 3, Difficulty: 1},
		{ID: 2, Question: "Who painted the Mona Lisa?", Answer: "Da Vinci", Category: 2, Difficulty: 2},
		{ID: 3, Question: "Capital of Japan?", Answer: "Tokyo", Category: 3, Difficulty: 1},
	})
	t.Cleanup(b.Close)
	c := newClient(t, b)
	ctx := context.Background()

	p, err := c.SearchQuestions(ctx, "capital")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(p.Questions) != 2 || p.Questions[0].ID != 1 || p.Questions[1].ID != 3 {
		t.Fatalf("unexpected search result %+v", p.Questions)
	}
	// The backend reports the size of the whole collection, not the match count.
	if p.TotalCount != 3 {
		t.Fatalf("expected total of all questions, got %d", p.TotalCount)
	}

	_, err = c.SearchQuestions(ctx, "nothing matches this")
	if !errors.Is(err, trivia.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestCreateAndDeleteQuestion(t *testing.T) {
	b := triviatest.NewBackend(testCategories, nil)
	t.Cleanup(b.Close)
	c := newClient(t, b)
	ctx := context.Background()

	err := c.CreateQuestion(ctx, entities.NewQuestion{Question: "Q", Answer: "A", Difficulty: 3, Category: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	q, ok := b.Question(1)
	if !ok || q.Question != "Q" || q.Category != 2 || q.Difficulty != 3 {
		t.Fatalf("unexpected stored question %+v", q)
	}

	if err := c.DeleteQuestion(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("expected empty store, got %d", b.Len())
	}

	err = c.DeleteQuestion(ctx, 1)
	var reqErr *trivia.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 request error, got %v", err)
	}
	if !errors.Is(err, trivia.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}

func TestRequestFailedCarriesStatus(t *testing.T) {
	b := triviatest.NewBackend(testCategories, seedQuestions(3))
	t.Cleanup(b.Close)
	b.Fail("categories", http.StatusInternalServerError)
	c := newClient(t, b)

	_, err := c.ListCategories(context.Background())
	var reqErr *trivia.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError || reqErr.Message != "Internal Server Error" {
		t.Fatalf("unexpected error details %+v", reqErr)
	}
}

func TestListCategoriesEmptyBackend(t *testing.T) {
	b := triviatest.NewBackend(nil, nil)
	t.Cleanup(b.Close)
	c := newClient(t, b)

	cats, err := c.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("expected no error for a backend without categories, got %v", err)
	}
	if cats == nil || len(cats) != 0 {
		t.Fatalf("expected empty categories, got %v", cats)
	}
}

func TestNextQuizQuestionExcludesAsked(t *testing.T) {
	b := triviatest.NewBackend(testCategories, seedQuestions(5))
	t.Cleanup(b.Close)
	c := newClient(t, b)
	ctx := context.Background()

	asked := []int{1, 2, 3}
	for i := 0; i < 20; i++ {
		q, err := c.NextQuizQuestion(ctx, entities.Category{ID: entities.AllCategories, Type: "click"}, asked)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if q == nil {
			t.Fatal("expected a question")
		}
		if q.ID == 1 || q.ID == 2 || q.ID == 3 {
			t.Fatalf("got already asked question %d", q.ID)
		}
	}

	q, err := c.NextQuizQuestion(ctx, entities.Category{ID: entities.AllCategories}, []int{1, 2, 3, 4, 5})
	if err != nil || q != nil {
		t.Fatalf("expected exhaustion, got %+v, %v", q, err)
	}
}

func TestNullQuestionMeansExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "question": null}`))
	}))
	t.Cleanup(srv.Close)

	c, err := trivia.NewClient(trivia.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	q, err := c.NextQuizQuestion(context.Background(), entities.Category{}, nil)
	if err != nil || q != nil {
		t.Fatalf("expected nil question, got %+v, %v", q, err)
	}
}

func TestDecodeStringCategoryAndTotalAlias(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"questions":[{"id":7,"question":"q","answer":"a","category":"4","difficulty":2}],"totalQuestions":31}`))
	}))
	t.Cleanup(srv.Close)

	c, err := trivia.NewClient(trivia.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	p, err := c.ListQuestions(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if p.TotalCount != 31 || p.Questions[0].Category != 4 {
		t.Fatalf("unexpected page %+v", p)
	}
}

func TestSuccessFalseIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "nope"}`))
	}))
	t.Cleanup(srv.Close)

	c, err := trivia.NewClient(trivia.Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = c.CreateQuestion(context.Background(), entities.NewQuestion{})
	if !errors.Is(err, trivia.ErrRequestFailed) {
		t.Fatalf("expected ErrRequestFailed, got %v", err)
	}
}
