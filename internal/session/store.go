package session

import (
	"sync"

	"github.com/moodtune/moodtune/internal/models"
	"golang.org/x/oauth2"
)

// Persister reads and writes the session's durable copy. The store reads it
// once at startup and writes on every transition.
type Persister interface {
	LoadSession() (models.Session, error)
	SaveSession(models.Session) error
}

// Store holds the one in-memory Session. Every write is atomic with respect
// to readers; a reader never observes a half-updated session.
//
// Implements [oauth2.TokenSource] so the API client can consume the current
// token directly.
type Store struct {
	mu        sync.RWMutex
	session   models.Session
	persister Persister
}

var _ oauth2.TokenSource = (*Store)(nil)

// NewStore creates a Store seeded from the persister. A failed or empty load
// yields an anonymous session; a persisted token starts the session as
// authenticated-optimistic, confirmed lazily by the next profile fetch.
func NewStore(persister Persister) *Store {
	s := &Store{
		persister: persister,
		session:   models.Session{OAuthState: models.StateAnonymous},
	}

	if persister != nil {
		if loaded, err := persister.LoadSession(); err == nil {
			if loaded.Token != "" {
				loaded.OAuthState = models.StateAuthenticated
			} else {
				loaded.OAuthState = models.StateAnonymous
			}
			s.session = loaded
		}
	}

	return s
}

// Session returns a copy of the current session.
func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token implements [oauth2.TokenSource] over the stored access token.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &oauth2.Token{AccessToken: s.session.Token}, nil
}

// Set replaces the session in one transition and persists it.
func (s *Store) Set(token string, user *models.User, state models.OAuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = models.Session{Token: token, User: user, OAuthState: state}
	s.persist()
}

// SetUser updates only the cached profile.
func (s *Store) SetUser(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.User = user
	s.persist()
}

// SetState moves the state machine without touching token or profile.
func (s *Store) SetState(state models.OAuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.OAuthState = state
	s.persist()
}

// Clear resets the session to anonymous. Idempotent: repeated 401-triggered
// clears write through at most once.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Token == "" && s.session.User == nil && s.session.OAuthState == models.StateAnonymous {
		return
	}

	s.session = models.Session{OAuthState: models.StateAnonymous}
	s.persist()
}

// persist writes through to durable storage. Callers hold the write lock.
func (s *Store) persist() {
	if s.persister != nil {
		// A failed write leaves the in-memory session authoritative until
		// the next transition retries.
		_ = s.persister.SaveSession(s.session)
	}
}
