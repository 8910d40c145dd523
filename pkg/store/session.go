package store

import (
	"sync"

	"finverse-be/internal/entity"
)

// Session is the in-memory state of one chat surface. A surface never shares
// its session with another tab and is never resumed after a clear; the
// conversation id only moves forward. Sends are serialized upstream, but
// history reads arrive on other request goroutines, so the log and the
// conversation id are guarded here.
type Session struct {
	// ID is the local chat surface identifier.
	ID string `json:"id"`

	mu sync.Mutex

	// conversationID is the server-issued continuity token. Empty until the
	// first reply carries one; once set it is never downgraded to empty.
	conversationID string

	// messages is the ordered, append-only conversation log.
	messages []entity.ChatMessage
}

// NewSession creates a session seeded with the given opening messages.
func NewSession(id string, seed ...entity.ChatMessage) *Session {
	return &Session{ID: id, messages: seed}
}

// Append adds a message to the log.
func (s *Session) Append(msg entity.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Snapshot returns a copy of the conversation log safe to read while sends
// are in flight.
func (s *Session) Snapshot() []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ChatMessage(nil), s.messages...)
}

// AdoptConversationID applies the monotonic conversation id rule: the id is
// updated only when the response carries a non-empty, different value.
func (s *Session) AdoptConversationID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && id != s.conversationID {
		s.conversationID = id
	}
}

// ConversationID returns the current continuity token.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}
