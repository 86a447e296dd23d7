package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/trivia"
)

// ListMode tells which request fills the question list.
type ListMode int

const (
	ModeAll ListMode = iota
	ModeSearch
	ModeCategory
)

// DefaultPageSize is the backend's fixed page size.
const DefaultPageSize = 10

// QuestionList displays one page of questions as cards.
type QuestionList struct {
	svc      ListService
	pageSize int

	mode       ListMode
	searchTerm string
	categoryID int

	cards  []*Card
	total  int
	page   int
	capped bool

	categories    entities.Categories
	categoriesErr error
}

func NewQuestionList(svc ListService, pageSize int) *QuestionList {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &QuestionList{svc: svc, pageSize: pageSize, page: 1}
}

// Mount fetches the first page of all questions.
func (l *QuestionList) Mount(ctx context.Context) error {
	return l.load(ctx, ModeAll, "", 0, 1)
}

// GoToPage re-fetches the given page in the current mode.
func (l *QuestionList) GoToPage(ctx context.Context, page int) error {
	if page < 1 || page > l.TotalPages() {
		return fmt.Errorf("page %d: %w", page, ErrInvalidState)
	}
	return l.load(ctx, l.mode, l.searchTerm, l.categoryID, page)
}

// Search replaces the list with the search results and resets pagination.
// A blank query shows the unfiltered first page.
func (l *QuestionList) Search(ctx context.Context, ev SearchSubmitted) error {
	term := strings.TrimSpace(ev.Query)
	if term == "" {
		return l.load(ctx, ModeAll, "", 0, 1)
	}
	return l.load(ctx, ModeSearch, term, 0, 1)
}

// FilterCategory shows the first page of one category.
func (l *QuestionList) FilterCategory(ctx context.Context, categoryID int) error {
	return l.load(ctx, ModeCategory, "", categoryID, 1)
}

// HandleAction applies an action emitted by one of the list's cards. An
// unknown question id leaves the list untouched.
func (l *QuestionList) HandleAction(ctx context.Context, a QuestionAction) error {
	if a.Action != ActionDelete {
		return fmt.Errorf("action %q: %w", a.Action, ErrInvalidState)
	}

	idx := l.indexOf(a.QuestionID)
	if idx < 0 {
		return nil
	}

	if err := l.svc.DeleteQuestion(ctx, a.QuestionID); err != nil {
		return fmt.Errorf("delete question %d: %w", a.QuestionID, err)
	}

	l.cards = append(l.cards[:idx], l.cards[idx+1:]...)
	if l.total > 0 {
		l.total--
	}

	return nil
}

// ToggleAnswer flips answer visibility of the card with id.
func (l *QuestionList) ToggleAnswer(id int) bool {
	c := l.Card(id)
	if c == nil {
		return false
	}
	c.ToggleAnswer()
	return true
}

// LoadCategories refreshes the category labels only.
func (l *QuestionList) LoadCategories(ctx context.Context) error {
	cats, err := l.svc.ListCategories(ctx)
	if err != nil {
		l.categoriesErr = err
		return fmt.Errorf("load categories: %w", err)
	}
	l.categories = cats
	l.categoriesErr = nil
	return nil
}

func (l *QuestionList) load(ctx context.Context, mode ListMode, term string, categoryID, page int) error {
	var (
		p   *entities.QuestionPage
		err error
	)

	switch mode {
	case ModeSearch:
		p, err = l.svc.SearchQuestions(ctx, term)
	case ModeCategory:
		p, err = l.svc.ListQuestionsByCategory(ctx, categoryID, page)
	default:
		p, err = l.svc.ListQuestions(ctx, page)
	}

	switch {
	case errors.Is(err, trivia.ErrEmptyResult):
		p = &entities.QuestionPage{}
	case err != nil:
		return fmt.Errorf("load questions: %w", err)
	}

	l.mode = mode
	l.searchTerm = term
	l.categoryID = categoryID
	l.page = page
	l.total = p.TotalCount

	l.cards = make([]*Card, 0, len(p.Questions))
	for _, q := range p.Questions {
		l.cards = append(l.cards, NewCard(q))
	}
	// Search reports the size of the whole collection and only returns the
	// first page of matches.
	l.capped = false
	if mode == ModeSearch {
		l.total = len(l.cards)
		l.capped = len(l.cards) >= l.pageSize
	}

	if len(p.Categories) > 0 {
		l.categories = p.Categories
		l.categoriesErr = nil
		return nil
	}
	if l.categories == nil {
		// Labels are optional; a failure here only degrades the category names.
		_ = l.LoadCategories(ctx)
	}

	return nil
}

func (l *QuestionList) indexOf(id int) int {
	for i, c := range l.cards {
		if c.question.ID == id {
			return i
		}
	}
	return -1
}

// Card returns the displayed card for id, or nil.
func (l *QuestionList) Card(id int) *Card {
	if i := l.indexOf(id); i >= 0 {
		return l.cards[i]
	}
	return nil
}

func (l *QuestionList) Cards() []*Card { return l.cards }

func (l *QuestionList) Total() int { return l.total }

// Capped reports a search that filled a whole page, so more matches may exist
// beyond what the backend returned.
func (l *QuestionList) Capped() bool { return l.capped }

func (l *QuestionList) Page() int { return l.page }

func (l *QuestionList) Mode() ListMode { return l.mode }

func (l *QuestionList) SearchTerm() string { return l.searchTerm }

func (l *QuestionList) CategoryID() int { return l.categoryID }

func (l *QuestionList) Categories() entities.Categories { return l.categories }

func (l *QuestionList) CategoriesErr() error { return l.categoriesErr }

// TotalPages is derived from the backend total. Search results are limited
// to one page.
func (l *QuestionList) TotalPages() int {
	if l.mode == ModeSearch {
		return 1
	}
	if l.total == 0 {
		return 1
	}
	return (l.total + l.pageSize - 1) / l.pageSize
}
