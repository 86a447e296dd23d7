package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Difficulty bounds accepted by the question service.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Question is a single trivia question as returned by the question service.
type Question struct {
	ID         int        `json:"id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Category   CategoryID `json:"category"`
	Difficulty int        `json:"difficulty"`
}

// NewQuestion holds the fields sent when creating a question.
type NewQuestion struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	Category   int    `json:"category"`
}

// QuestionPage is one page of questions plus the backend's total count.
type QuestionPage struct {
	Questions       []Question
	TotalCount      int
	Categories      Categories // may be nil when the endpoint does not return them
	CurrentCategory *int
}

// CategoryID decodes a category reference that the backend may encode
// either as a JSON number or as a numeric string.
type CategoryID int

func (c *CategoryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*c = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("category id %q: %w", s, err)
		}
		*c = CategoryID(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("category id: %w", err)
	}
	*c = CategoryID(n)
	return nil
}

// ValidDifficulty reports whether d is in the accepted range.
func ValidDifficulty(d int) bool {
	return d >= MinDifficulty && d <= MaxDifficulty
}
