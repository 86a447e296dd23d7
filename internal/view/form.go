package view

import (
	"context"
	"fmt"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// FormState is the lifecycle of the add-question form.
type FormState int

const (
	FormIdle FormState = iota
	FormLoading
	FormReady
	FormSubmitting
	FormError
)

func (s FormState) String() string {
	switch s {
	case FormIdle:
		return "idle"
	case FormLoading:
		return "loading"
	case FormReady:
		return "ready"
	case FormSubmitting:
		return "submitting"
	case FormError:
		return "error"
	}
	return fmt.Sprintf("FormState(%d)", int(s))
}

// FormFields are the values of a new question. Question and answer are
// free text; the service validates them.
type FormFields struct {
	Question   string
	Answer     string
	Difficulty int
	Category   int
}

// QuestionForm collects a new question and submits it.
type QuestionForm struct {
	svc FormService

	state      FormState
	fields     FormFields
	categories entities.Categories
	loadErr    error
	submitErr  error
}

func NewQuestionForm(svc FormService) *QuestionForm {
	f := &QuestionForm{svc: svc}
	f.fields = f.DefaultFields()
	return f
}

// DefaultFields are the values the form starts with and returns to after a
// successful submit.
func (f *QuestionForm) DefaultFields() FormFields {
	return FormFields{
		Difficulty: entities.MinDifficulty,
		Category:   f.categories.FirstID(),
	}
}

// Open loads categories and makes the form ready for input. Fields kept from
// a failed submit survive. When categories cannot be loaded the form is still
// ready but has nothing to pick from; calling Open again retries.
func (f *QuestionForm) Open(ctx context.Context) error {
	if f.state == FormSubmitting {
		return fmt.Errorf("open form: %w", ErrInvalidState)
	}

	f.state = FormLoading
	cats, err := f.svc.ListCategories(ctx)
	f.state = FormReady
	if err != nil {
		f.loadErr = err
		return fmt.Errorf("load categories: %w", err)
	}

	f.categories = cats
	f.loadErr = nil
	if !f.categories.Has(f.fields.Category) {
		f.fields.Category = f.categories.FirstID()
	}

	return nil
}

func (f *QuestionForm) editable() error {
	if f.state != FormReady && f.state != FormError {
		return ErrInvalidState
	}
	return nil
}

func (f *QuestionForm) SetQuestion(text string) error {
	if err := f.editable(); err != nil {
		return fmt.Errorf("set question: %w", err)
	}
	f.fields.Question = text
	return nil
}

func (f *QuestionForm) SetAnswer(text string) error {
	if err := f.editable(); err != nil {
		return fmt.Errorf("set answer: %w", err)
	}
	f.fields.Answer = text
	return nil
}

func (f *QuestionForm) SetDifficulty(d int) error {
	if err := f.editable(); err != nil {
		return fmt.Errorf("set difficulty: %w", err)
	}
	if !entities.ValidDifficulty(d) {
		return ErrInvalidDifficulty
	}
	f.fields.Difficulty = d
	return nil
}

func (f *QuestionForm) SetCategory(id int) error {
	if err := f.editable(); err != nil {
		return fmt.Errorf("set category: %w", err)
	}
	if !f.categories.Has(id) {
		return fmt.Errorf("category %d: %w", id, ErrUnknownCategory)
	}
	f.fields.Category = id
	return nil
}

// Submit sends the fields to the service. Success clears the form back to its
// defaults and Idle; failure keeps the fields and moves to Error for a retry.
func (f *QuestionForm) Submit(ctx context.Context) error {
	if err := f.editable(); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if !f.categories.Has(f.fields.Category) {
		return fmt.Errorf("category %d: %w", f.fields.Category, ErrUnknownCategory)
	}

	f.state = FormSubmitting
	err := f.svc.CreateQuestion(ctx, entities.NewQuestion{
		Question:   f.fields.Question,
		Answer:     f.fields.Answer,
		Difficulty: f.fields.Difficulty,
		Category:   f.fields.Category,
	})
	if err != nil {
		f.state = FormError
		f.submitErr = err
		return fmt.Errorf("create question: %w", err)
	}

	f.Reset()
	return nil
}

// Reset discards the input and returns to Idle.
func (f *QuestionForm) Reset() {
	f.state = FormIdle
	f.fields = f.DefaultFields()
	f.submitErr = nil
}

func (f *QuestionForm) State() FormState { return f.state }

func (f *QuestionForm) Fields() FormFields { return f.fields }

func (f *QuestionForm) Categories() entities.Categories { return f.categories }

func (f *QuestionForm) LoadErr() error { return f.loadErr }

func (f *QuestionForm) SubmitErr() error { return f.submitErr }
