package chat

import (
	"slices"
	"sync"
	"time"

	"github.com/MattTPin/movie-reccomendation-agent/pkg/models"
	"github.com/google/uuid"
)

// Session is one conversation: its full history, hidden turns included,
// and the trailers mentioned so far.
type Session struct {
	ID      string
	Created time.Time

	// turn serializes Send calls on the session.
	turn sync.Mutex

	mu       sync.RWMutex
	history  []models.Turn
	trailers []string
}

func newSession(greeting string) *Session {
	s := &Session{ID: uuid.NewString(), Created: time.Now().UTC()}
	s.reset(greeting)
	return s
}

// History returns a copy of the full history.
func (s *Session) History() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

// Visible returns the user-facing transcript, without hidden turns.
func (s *Session) Visible() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.VisibleTurns(s.history)
}

// Trailers returns the YouTube ids collected from replies.
func (s *Session) Trailers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.trailers)
}

func (s *Session) append(turns ...models.Turn) {
	s.mu.Lock()
	s.history = append(s.history, turns...)
	s.mu.Unlock()
}

func (s *Session) addTrailers(ids []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var added []string
	s.trailers, added = mergeIDs(s.trailers, ids)
	return added
}

func (s *Session) reset(greeting string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.trailers = nil
	if greeting != "" {
		s.history = append(s.history, models.Turn{Role: models.RoleAssistant, Content: greeting})
	}
}

// SessionStore keeps sessions in memory, keyed by id.
type SessionStore struct {
	greeting string

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates a store whose sessions open with greeting.
func NewSessionStore(greeting string) *SessionStore {
	return &SessionStore{greeting: greeting, sessions: make(map[string]*Session)}
}

// Create starts a new session.
func (st *SessionStore) Create() *Session {
	s := newSession(st.greeting)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session with id.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session and reports whether it existed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Reset clears a session back to its greeting.
func (st *SessionStore) Reset(s *Session) {
	s.turn.Lock()
	defer s.turn.Unlock()
	s.reset(st.greeting)
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
