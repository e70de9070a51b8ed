// Package memory holds per-session short-term state: the bounded
// conversation log plus pending document text and image references a
// user has supplied for their next questions. Everything lives in
// process memory; nothing survives a restart.
package memory

import (
	"strings"
	"sync"
)

// Role labels one side of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a session's conversation log. Immutable once
// appended.
type Turn struct {
	Role    Role
	Content string
}

const (
	// docMaxChars bounds stored document-derived text.
	docMaxChars = 8000
	// maxImages bounds pending image references per session; newest win.
	maxImages = 2
)

type session struct {
	turns   []Turn
	docText string
	images  []string
}

// Store is a concurrency-safe session store. Sessions are created
// lazily on first write and never expire on their own.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	maxPairs int
}

// NewStore builds a store holding at most maxPairs user/assistant pairs
// per session.
func NewStore(maxPairs int) *Store {
	if maxPairs <= 0 {
		maxPairs = 2
	}
	return &Store{sessions: make(map[string]*session), maxPairs: maxPairs}
}

func (s *Store) session(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	return sess
}

// Add appends a turn, silently evicting the oldest turns once the
// 2×maxPairs capacity is exceeded.
func (s *Store) Add(id string, role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(id)
	sess.turns = append(sess.turns, Turn{Role: role, Content: content})
	if limit := 2 * s.maxPairs; len(sess.turns) > limit {
		sess.turns = sess.turns[len(sess.turns)-limit:]
	}
}

// History returns the session's turns in chronological order. Unknown
// sessions yield an empty slice, never an error.
func (s *Store) History(id string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// FormatHistory renders the log as "<role label>: <content>" lines for
// prompt embedding; empty string when there is no history.
func (s *Store) FormatHistory(id string) string {
	turns := s.History(id)
	if len(turns) == 0 {
		return ""
	}
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		label := "Пользователь"
		if t.Role == RoleAssistant {
			label = "Ассистент"
		}
		lines = append(lines, label+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

// Clear drops the conversation log but keeps pending document context.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.turns = nil
	}
}

// Reset drops the session entirely: log, document text and images.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// SetDocument stores extracted document text for the session, trimmed
// to the document cap.
func (s *Store) SetDocument(id, text string) {
	text = trimRunes(strings.TrimSpace(text), docMaxChars)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(id).docText = text
}

// Document returns the pending document text, "" if none.
func (s *Store) Document(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.docText
	}
	return ""
}

// AddImage records a pending image reference (a data URL), keeping only
// the newest maxImages entries.
func (s *Store) AddImage(id, dataURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(id)
	sess.images = append(sess.images, dataURL)
	if len(sess.images) > maxImages {
		sess.images = sess.images[len(sess.images)-maxImages:]
	}
}

// Images returns the session's pending image references.
func (s *Store) Images(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	out := make([]string, len(sess.images))
	copy(out, sess.images)
	return out
}

func trimRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
