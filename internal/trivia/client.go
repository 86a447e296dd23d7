// Package trivia is an HTTP client for the trivia question service.
package trivia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// Options configures a Client.
type Options struct {
	BaseURL         string
	Timeout         time.Duration // transport timeout, zero means none
	WithCredentials bool          // keep cookies between requests
	HTTPClient      *http.Client  // overrides Timeout and WithCredentials when set
}

// Client calls the question service REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient creates a Client for the service at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q: scheme and host are required", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
		if opts.WithCredentials {
			jar, err := cookiejar.New(nil)
			if err != nil {
				return nil, fmt.Errorf("cookie jar: %w", err)
			}
			hc.Jar = jar
		}
	}

	return &Client{baseURL: base, http: hc}, nil
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

type questionsResponse struct {
	envelope
	Questions       []entities.Question  `json:"questions"`
	TotalQuestions  *int                 `json:"total_questions"`
	TotalAlias      *int                 `json:"totalQuestions"`
	Categories      entities.Categories  `json:"categories"`
	CurrentCategory *entities.CategoryID `json:"current_category"`
}

func (r *questionsResponse) page() *entities.QuestionPage {
	p := &entities.QuestionPage{
		Questions:  r.Questions,
		Categories: r.Categories,
	}

	switch {
	case r.TotalQuestions != nil:
		p.TotalCount = *r.TotalQuestions
	case r.TotalAlias != nil:
		p.TotalCount = *r.TotalAlias
	default:
		p.TotalCount = len(r.Questions)
	}

	if r.CurrentCategory != nil {
		id := int(*r.CurrentCategory)
		p.CurrentCategory = &id
	}

	return p
}

// ListCategories returns all categories keyed by id. The backend answers
// 404 when it has none; that is an empty set, not a failure.
func (c *Client) ListCategories(ctx context.Context) (entities.Categories, error) {
	const op = "list categories"

	var resp struct {
		envelope
		Categories entities.Categories `json:"categories"`
	}
	err := c.do(ctx, op, http.MethodGet, "/categories", nil, nil, &resp)
	if errors.Is(err, ErrEmptyResult) {
		return entities.Categories{}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := checkSuccess(op, resp.envelope); err != nil {
		return nil, err
	}

	if resp.Categories == nil {
		return entities.Categories{}, nil
	}
	return resp.Categories, nil
}

// ListQuestions returns one page of all questions. Pages start at 1.
func (c *Client) ListQuestions(ctx context.Context, page int) (*entities.QuestionPage, error) {
	return c.listQuestions(ctx, "list questions", "/questions", page)
}

// ListQuestionsByCategory returns one page of the questions in a category.
func (c *Client) ListQuestionsByCategory(ctx context.Context, categoryID, page int) (*entities.QuestionPage, error) {
	path := "/categories/" + strconv.Itoa(categoryID) + "/questions"
	p, err := c.listQuestions(ctx, "list category questions", path, page)
	if err != nil {
		return nil, err
	}
	if p.CurrentCategory == nil {
		p.CurrentCategory = &categoryID
	}
	return p, nil
}

func (c *Client) listQuestions(ctx context.Context, op, path string, page int) (*entities.QuestionPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{"page": {strconv.Itoa(page)}}

	var resp questionsResponse
	if err := c.do(ctx, op, http.MethodGet, path, q, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkSuccess(op, resp.envelope); err != nil {
		return nil, err
	}

	return resp.page(), nil
}

// SearchQuestions returns the questions matching term. Matching semantics
// belong to the service.
func (c *Client) SearchQuestions(ctx context.Context, term string) (*entities.QuestionPage, error) {
	const op = "search questions"

	body := struct {
		SearchTerm string `json:"searchTerm"`
	}{SearchTerm: term}

	var resp questionsResponse
	if err := c.do(ctx, op, http.MethodPost, "/questions/search", nil, body, &resp); err != nil {
		return nil, err
	}
	if err := checkSuccess(op, resp.envelope); err != nil {
		return nil, err
	}

	return resp.page(), nil
}

// CreateQuestion adds a new question.
func (c *Client) CreateQuestion(ctx context.Context, q entities.NewQuestion) error {
	const op = "create question"

	var resp envelope
	if err := c.do(ctx, op, http.MethodPost, "/questions", nil, q, &resp); err != nil {
		return err
	}
	return checkSuccess(op, resp)
}

// DeleteQuestion removes the question with the given id.
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	const op = "delete question"

	var resp envelope
	path := "/questions/" + strconv.Itoa(id)
	if err := c.do(ctx, op, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return err
	}
	return checkSuccess(op, resp)
}

// NextQuizQuestion returns a question from category that is not in previous.
// It returns nil, nil when the service has no questions left.
func (c *Client) NextQuizQuestion(ctx context.Context, category entities.Category, previous []int) (*entities.Question, error) {
	const op = "next quiz question"

	if previous == nil {
		previous = []int{}
	}
	body := struct {
		PreviousQuestions []int             `json:"previous_questions"`
		QuizCategory      entities.Category `json:"quiz_category"`
	}{
		PreviousQuestions: previous,
		QuizCategory:      category,
	}

	var resp struct {
		envelope
		Question *entities.Question `json:"question"`
	}
	err := c.do(ctx, op, http.MethodPost, "/quizzes", nil, body, &resp)
	if errors.Is(err, ErrEmptyResult) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := checkSuccess(op, resp.envelope); err != nil {
		return nil, err
	}

	return resp.Question, nil
}

// do performs one request. A 404 is reported as ErrEmptyResult, which is
// how the service signals an empty page, search or exhausted quiz.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode == http.StatusNotFound && method != http.MethodDelete {
		return fmt.Errorf("%s: %w", op, ErrEmptyResult)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(data, &env)
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func checkSuccess(op string, env envelope) error {
	if env.Success != nil && !*env.Success {
		return &RequestError{Op: op, Message: env.Message}
	}
	return nil
}
