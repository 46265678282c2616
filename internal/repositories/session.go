package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moodtune/moodtune/internal/models"
)

// SessionRepository persists the single client session row. Implements
// session.Persister.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a SessionRepository with the given database connection.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// LoadSession reads the persisted session. An absent row yields an anonymous
// session rather than an error.
func (r *SessionRepository) LoadSession() (models.Session, error) {
	session := models.Session{OAuthState: models.StateAnonymous}

	var (
		token    string
		userJSON string
		state    string
	)

	err := r.db.QueryRow("SELECT token, user_json, oauth_state FROM sessions WHERE id = 1").Scan(&token, &userJSON, &state)
	if err == sql.ErrNoRows {
		return session, nil
	}
	if err != nil {
		return session, fmt.Errorf("failed to load session: %w", err)
	}

	session.Token = token
	if state != "" {
		session.OAuthState = models.OAuthState(state)
	}

	if userJSON != "" {
		var user models.User
		if err := json.Unmarshal([]byte(userJSON), &user); err == nil {
			session.User = &user
		}
		// A corrupt profile blob only loses the cached user; the token
		// still restores the session.
	}

	return session, nil
}

// SaveSession writes the session row, replacing any previous state.
func (r *SessionRepository) SaveSession(session models.Session) error {
	userJSON := ""
	if session.User != nil {
		data, err := json.Marshal(session.User)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		userJSON = string(data)
	}

	query := `
		INSERT INTO sessions (id, token, user_json, oauth_state, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_json = excluded.user_json,
			oauth_state = excluded.oauth_state,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query, session.Token, userJSON, string(session.OAuthState), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
