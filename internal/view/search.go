package view

// SearchSubmitted is emitted when the user submits the search box.
type SearchSubmitted struct {
	Query string
}

// SearchBox holds the query being typed.
type SearchBox struct {
	query string
}

// Input replaces the current query.
func (s *SearchBox) Input(value string) {
	s.query = value
}

func (s *SearchBox) Query() string { return s.query }

// Submit emits the current query and clears the box for the next search.
func (s *SearchBox) Submit() SearchSubmitted {
	ev := SearchSubmitted{Query: s.query}
	s.query = ""
	return ev
}
