package models

import "time"

// Track is a catalog entry returned by the external music query. Read-only
// within the client.
type Track struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album"`
	AlbumImage  string   `json:"album_image,omitempty"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	ExternalURL string   `json:"external_url"`
	DurationMS  int      `json:"duration_ms"`
	Popularity  int      `json:"popularity"`
}

// EmotionResult is the outcome of one classifier call: the dominant emotion
// with its confidence plus the full per-emotion score map. Scores are
// percentages in [0,100] and need not sum to 100.
type EmotionResult struct {
	Dominant   Emotion            `json:"dominant"`
	Confidence float64            `json:"confidence"`
	PerEmotion map[string]float64 `json:"per_emotion"`
}

// RecommendationSet is the ranked outcome of one recommendation request.
// GenresUsed and PlaylistDescription are pass-through from the catalog.
type RecommendationSet struct {
	Emotion             Emotion         `json:"emotion"`
	Tracks              []Track         `json:"tracks"`
	MusicParameters     MusicParameters `json:"music_params"`
	GenresUsed          []string        `json:"genres_used"`
	PlaylistDescription string          `json:"playlist_description,omitempty"`
	Total               int             `json:"total"`
}

// PlaylistDraft is a locally assembled playlist awaiting persistence. Tracks
// and parameters are value snapshots so later recommendation state changes
// never alter a saved draft.
type PlaylistDraft struct {
	Name            string          `json:"name"`
	Emotion         Emotion         `json:"emotion"`
	Description     string          `json:"description,omitempty"`
	Tracks          []Track         `json:"tracks"`
	MusicParameters MusicParameters `json:"music_params"`
	IsFavorite      bool            `json:"is_favorite"`
	AnalysisID      string          `json:"analysis_id,omitempty"`
}

// Playlist is a persisted playlist record; the id and timestamp are assigned
// by the history backend.
type Playlist struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Emotion         Emotion         `json:"emotion"`
	Description     string          `json:"description,omitempty"`
	Tracks          []Track         `json:"tracks"`
	MusicParameters MusicParameters `json:"music_params"`
	IsFavorite      bool            `json:"is_favorite"`
	CreatedAt       time.Time       `json:"created_at"`
}

// User is the backend-owned profile for the authenticated account.
type User struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Username         string `json:"username"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	ProfilePicture   string `json:"profile_picture,omitempty"`
	SpotifyConnected bool   `json:"spotify_connected"`
}

// OAuthState enumerates the session's position in the login/linking state
// machine.
type OAuthState string

const (
	StateAnonymous       OAuthState = "anonymous"
	StatePendingCallback OAuthState = "pending_callback"
	StateLinking         OAuthState = "linking"
	StateAuthenticated   OAuthState = "authenticated"
	StateLinkError       OAuthState = "link_error"
)

// Session is the single per-client authentication state. A session is
// authenticated iff Token is non-empty; any 401 clears it atomically.
type Session struct {
	Token      string     `json:"token,omitempty"`
	User       *User      `json:"user,omitempty"`
	OAuthState OAuthState `json:"oauth_state"`
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// OAuthCallbackPayload holds the query parameters of one provider redirect.
// Ephemeral: parsed once, never persisted.
type OAuthCallbackPayload struct {
	Token string
	Code  string
	State string
	Error string
}

// AnalysisRecord is one past emotion analysis from the history backend.
type AnalysisRecord struct {
	ID         string    `json:"id"`
	Emotion    Emotion   `json:"emotion"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatsSummary aggregates the user's activity from the history backend.
type StatsSummary struct {
	TotalAnalyses   int            `json:"total_analyses"`
	TotalPlaylists  int            `json:"total_playlists"`
	FavoriteCount   int            `json:"favorite_count"`
	EmotionCounts   map[string]int `json:"emotion_counts"`
	DominantEmotion string         `json:"dominant_emotion,omitempty"`
}

// Page wraps a paginated backend listing.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
