package tasks

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/shared"
)

// MaxPlaylistNameLength is the longest playlist name the backend accepts.
const MaxPlaylistNameLength = 255

// PlaylistStore defines the history backend calls the assembler delegates to.
type PlaylistStore interface {
	SavePlaylist(ctx context.Context, draft *models.PlaylistDraft) (*models.Playlist, error)
	SetFavorite(ctx context.Context, playlistID string, favorite bool) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
}

// PlaylistAssembler builds playlist drafts from recommendation sets and
// persists them through the history backend.
type PlaylistAssembler struct {
	store PlaylistStore
}

// NewPlaylistAssembler creates a PlaylistAssembler backed by store.
func NewPlaylistAssembler(store PlaylistStore) *PlaylistAssembler {
	return &PlaylistAssembler{store: store}
}

// Assemble validates name and snapshots set into a draft.
//
// The name is trimmed and must be non-empty and at most
// MaxPlaylistNameLength runes. Tracks and parameters are copied by value so
// later changes to the recommendation state never alter the draft. The draft
// starts unfavorited. An empty description falls back to the set's catalog
// description; analysisID may be empty when the set was built from an
// explicit emotion rather than an image analysis.
func (a *PlaylistAssembler) Assemble(name string, set *models.RecommendationSet, description, analysisID string) (*models.PlaylistDraft, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: recommendation set is required", shared.ErrInvalidInput)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name must not be empty", shared.ErrValidation)
	}
	if utf8.RuneCountInString(name) > MaxPlaylistNameLength {
		return nil, fmt.Errorf("%w: playlist name exceeds %d characters", shared.ErrValidation, MaxPlaylistNameLength)
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = set.PlaylistDescription
	}

	tracks := make([]models.Track, len(set.Tracks))
	copy(tracks, set.Tracks)
	for i := range tracks {
		artists := make([]string, len(set.Tracks[i].Artists))
		copy(artists, set.Tracks[i].Artists)
		tracks[i].Artists = artists
	}

	return &models.PlaylistDraft{
		Name:            name,
		Emotion:         set.Emotion,
		Description:     description,
		Tracks:          tracks,
		MusicParameters: set.MusicParameters,
		IsFavorite:      false,
		AnalysisID:      analysisID,
	}, nil
}

// Save persists a draft; the backend assigns the id and creation timestamp.
func (a *PlaylistAssembler) Save(ctx context.Context, draft *models.PlaylistDraft) (*models.Playlist, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: draft is required", shared.ErrInvalidInput)
	}
	return a.store.SavePlaylist(ctx, draft)
}

// ToggleFavorite marks or unmarks a saved playlist as favorite.
func (a *PlaylistAssembler) ToggleFavorite(ctx context.Context, playlistID string, favorite bool) (*models.Playlist, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}
	return a.store.SetFavorite(ctx, playlistID, favorite)
}

// Delete removes a saved playlist.
func (a *PlaylistAssembler) Delete(ctx context.Context, playlistID string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}
	return a.store.DeletePlaylist(ctx, playlistID)
}
