package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/trivia-bot/internal/view"
)

// InputMode tells what the next free-text message from a chat means.
type InputMode int

const (
	InputNone InputMode = iota
	InputSearch
	InputFormQuestion
	InputFormAnswer
	InputQuizAnswer
)

// ChatState holds the views of one chat. It must be used between Acquire and
// Release only.
type ChatState struct {
	mu       sync.Mutex
	lastSeen time.Time

	ChatID int64
	List   *view.QuestionList
	Search *view.SearchBox
	Form   *view.QuestionForm
	Quiz   *view.Quiz

	Input         InputMode
	ListMessageID int // message the list is rendered into, 0 if none
	FormMessageID int
	QuizMessageID int
}

// Release unlocks the state for the next update of the chat.
func (s *ChatState) Release() {
	s.mu.Unlock()
}

// ViewFactory builds fresh views for a chat.
type ViewFactory func(chatID int64) *ChatState

// ChatStore provides in-memory storage for per-chat view state.
type ChatStore struct {
	mu    sync.RWMutex
	chats map[int64]*ChatState
	build ViewFactory
	now   func() time.Time
}

// NewChatStore creates a new ChatStore.
func NewChatStore(build ViewFactory) *ChatStore {
	return &ChatStore{
		chats: make(map[int64]*ChatState),
		build: build,
		now:   time.Now,
	}
}

// Acquire returns the locked state of chatID, creating it on first use.
// Updates of one chat are therefore handled one at a time.
func (s *ChatStore) Acquire(chatID int64) *ChatState {
	for {
		st := s.lookup(chatID)
		st.mu.Lock()
		if s.live(chatID, st) {
			st.lastSeen = s.now()
			return st
		}
		// Swept between lookup and lock.
		st.mu.Unlock()
	}
}

func (s *ChatStore) lookup(chatID int64) *ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.chats[chatID]
	if !ok {
		st = s.build(chatID)
		st.ChatID = chatID
		st.lastSeen = s.now()
		s.chats[chatID] = st
	}
	return st
}

func (s *ChatStore) live(chatID int64, st *ChatState) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chats[chatID] == st
}

// Delete drops the state of chatID.
func (s *ChatStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats, chatID)
}

// Len returns the number of chats with live state.
func (s *ChatStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}

// Sweep drops states idle for longer than idle and returns how many were
// dropped. States in use are skipped.
func (s *ChatStore) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, st := range s.chats {
		if !st.mu.TryLock() {
			continue
		}
		if st.lastSeen.Before(cutoff) {
			delete(s.chats, id)
			dropped++
		}
		st.mu.Unlock()
	}

	return dropped
}
