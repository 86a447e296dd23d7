// Package triviatest provides an in-memory question service that speaks the
// same REST contract as the real backend.
package triviatest

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// PageSize matches the backend's fixed page size.
const PageSize = 10

// Backend is an in-memory question store served over HTTP.
type Backend struct {
	mu         sync.Mutex
	categories entities.Categories
	questions  map[int]entities.Question
	nextID     int
	failures   map[string]int // route name -> status code to return
	calls      map[string]int

	server *httptest.Server
}

// NewBackend starts a fake service seeded with categories and questions.
// Question ids are assigned when zero. Close it with t.Cleanup(b.Close).
func NewBackend(categories entities.Categories, questions []entities.Question) *Backend {
	b := &Backend{
		categories: make(entities.Categories, len(categories)),
		questions:  make(map[int]entities.Question, len(questions)),
		nextID:     1,
		failures:   make(map[string]int),
		calls:      make(map[string]int),
	}
	for id, name := range categories {
		b.categories[id] = name
	}
	for _, q := range questions {
		b.add(q)
	}

	r := mux.NewRouter()
	r.HandleFunc("/categories", b.route("categories", b.handleCategories)).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id:[0-9]+}/questions", b.route("category_questions", b.handleCategoryQuestions)).Methods(http.MethodGet)
	r.HandleFunc("/questions", b.route("questions", b.handleQuestions)).Methods(http.MethodGet)
	r.HandleFunc("/questions", b.route("create", b.handleCreate)).Methods(http.MethodPost)
	r.HandleFunc("/questions/search", b.route("search", b.handleSearch)).Methods(http.MethodPost)
	r.HandleFunc("/questions/{id:[0-9]+}", b.route("delete", b.handleDelete)).Methods(http.MethodDelete)
	r.HandleFunc("/quizzes", b.route("quizzes", b.handleQuizzes)).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	b.server = httptest.NewServer(c.Handler(r))
	return b
}

// URL is the base URL of the fake service.
func (b *Backend) URL() string { return b.server.URL }

// Close shuts the server down.
func (b *Backend) Close() { b.server.Close() }

// Fail makes the named route answer with status until cleared with status 0.
// Route names: categories, category_questions, questions, create, search,
// delete, quizzes.
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = status
}

// Calls returns how many requests hit the named route.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Question returns a stored question by id.
func (b *Backend) Question(id int) (entities.Question, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.questions[id]
	return q, ok
}

// Len returns the number of stored questions.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.questions)
}

func (b *Backend) add(q entities.Question) entities.Question {
	if q.ID == 0 {
		q.ID = b.nextID
	}
	if q.ID >= b.nextID {
		b.nextID = q.ID + 1
	}
	b.questions[q.ID] = q
	return q
}

func (b *Backend) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[name]++
		status, failing := b.failures[name]
		b.mu.Unlock()

		if failing {
			writeError(w, status)
			return
		}
		h(w, r)
	}
}

func (b *Backend) sorted(filter func(entities.Question) bool) []entities.Question {
	out := make([]entities.Question, 0, len(b.questions))
	for _, q := range b.questions {
		if filter == nil || filter(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func paginate(r *http.Request, questions []entities.Question) []entities.Question {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(questions) {
		return nil
	}
	end := start + PageSize
	if end > len(questions) {
		end = len(questions)
	}
	return questions[start:end]
}

func (b *Backend) handleCategories(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.categories) == 0 {
		writeError(w, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": categoriesJSON(b.categories),
	})
}

func (b *Backend) handleQuestions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	all := b.sorted(nil)
	current := paginate(r, all)
	if len(current) == 0 {
		writeError(w, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"questions":       current,
		"total_questions": len(all),
		"categories":      categoriesJSON(b.categories),
	})
}

func (b *Backend) handleCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.categories.Has(id) {
		writeError(w, http.StatusNotFound)
		return
	}
	matched := b.sorted(func(q entities.Question) bool { return int(q.Category) == id })
	current := paginate(r, matched)
	if len(current) == 0 {
		writeError(w, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"questions":        current,
		"total_questions":  len(matched),
		"current_category": id,
	})
}

// handleSearch matches case-insensitive substrings of the question text.
// Like the real backend it pages the matches by PageSize and reports the
// total of all questions rather than the number of matches.
func (b *Backend) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SearchTerm *string `json:"searchTerm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SearchTerm == nil {
		writeError(w, http.StatusBadRequest)
		return
	}
	term := strings.ToLower(*body.SearchTerm)

	b.mu.Lock()
	defer b.mu.Unlock()

	matched := b.sorted(func(q entities.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	})
	if len(matched) == 0 {
		writeError(w, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"questions":       paginate(r, matched),
		"total_questions": len(b.questions),
	})
}

func (b *Backend) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Question   *string `json:"question"`
		Answer     *string `json:"answer"`
		Difficulty *int    `json:"difficulty"`
		Category   *int    `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}
	if body.Question == nil || body.Answer == nil || body.Difficulty == nil || body.Category == nil {
		writeError(w, http.StatusUnprocessableEntity)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	q := b.add(entities.Question{
		Question:   *body.Question,
		Answer:     *body.Answer,
		Difficulty: *body.Difficulty,
		Category:   entities.CategoryID(*body.Category),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"created":         q.ID,
		"total_questions": len(b.questions),
	})
}

func (b *Backend) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.questions[id]; !ok {
		writeError(w, http.StatusNotFound)
		return
	}
	delete(b.questions, id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted": id})
}

func (b *Backend) handleQuizzes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PreviousQuestions []int             `json:"previous_questions"`
		QuizCategory      entities.Category `json:"quiz_category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	asked := make(map[int]struct{}, len(body.PreviousQuestions))
	for _, id := range body.PreviousQuestions {
		asked[id] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	categoryID := body.QuizCategory.ID
	if categoryID != entities.AllCategories && !b.categories.Has(categoryID) {
		writeError(w, http.StatusNotFound)
		return
	}

	candidates := b.sorted(func(q entities.Question) bool {
		if _, seen := asked[q.ID]; seen {
			return false
		}
		return categoryID == entities.AllCategories || int(q.Category) == categoryID
	})
	if len(candidates) == 0 {
		writeError(w, http.StatusNotFound)
		return
	}

	q := candidates[rand.Intn(len(candidates))]
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"question":        q,
		"total_questions": len(candidates),
	})
}

func categoriesJSON(c entities.Categories) map[string]string {
	out := make(map[string]string, len(c))
	for id, name := range c {
		out[strconv.Itoa(id)] = name
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   status,
		"message": http.StatusText(status),
	})
}
