package entities

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// AllCategories is the quiz category id meaning "any category".
const AllCategories = 0

// Category is a labeled grouping of trivia questions.
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// Categories maps category id to its display name.
type Categories map[int]string

// UnmarshalJSON accepts the backend's object form {"1": "Science", ...}.
func (c *Categories) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Categories, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("category key %q: %w", k, err)
		}
		out[id] = v
	}

	*c = out
	return nil
}

// Has reports whether id is a known category.
func (c Categories) Has(id int) bool {
	_, ok := c[id]
	return ok
}

// Name returns the display name for id, or an empty string.
func (c Categories) Name(id int) string {
	return c[id]
}

// Sorted returns categories ordered by id.
func (c Categories) Sorted() []Category {
	out := make([]Category, 0, len(c))
	for id, name := range c {
		out = append(out, Category{ID: id, Type: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FirstID returns the lowest known category id, or 0 when empty.
func (c Categories) FirstID() int {
	sorted := c.Sorted()
	if len(sorted) == 0 {
		return 0
	}
	return sorted[0].ID
}
