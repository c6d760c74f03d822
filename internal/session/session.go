package session

import (
	"strings"
	"sync"
	"time"
)

// Session holds the ordered turns and the bearer credential of one
// interactive user. It lives only in process memory.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu             sync.RWMutex
	turns          []Turn
	credential     string
	lastActivityAt time.Time
}

// New returns an empty session.
func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:             id,
		CreatedAt:      now,
		lastActivityAt: now,
	}
}

// Turns returns a copy of the conversation in order.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) Append(t Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, t)
	s.lastActivityAt = time.Now().UTC()
}

// Clear discards all turns. The credential is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.lastActivityAt = time.Now().UTC()
}

func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetCredential stores the credential. Blank input leaves the current value.
func (s *Session) SetCredential(credential string) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.lastActivityAt = time.Now().UTC()
}

func (s *Session) LastActivityAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivityAt
}

func (s *Session) View() View {
	turns := s.Turns()
	return View{
		SessionID:     s.ID,
		Turns:         turns,
		HasCredential: s.Credential() != "",
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActivityAt = time.Now().UTC()
	s.mu.Unlock()
}

func (s *Session) forget() {
	s.mu.Lock()
	s.turns = nil
	s.credential = ""
	s.mu.Unlock()
}
