package ui

import (
	"github.com/moodtune/moodtune/internal/models"
)

// recommendationsMsg delivers an async recommendation fetch. requestID ties
// the result to the fetch that produced it so superseded fetches are dropped.
type recommendationsMsg struct {
	requestID int
	set       *models.RecommendationSet
	err       error
}

// playlistSavedMsg delivers the outcome of a save.
type playlistSavedMsg struct {
	playlist *models.Playlist
	err      error
}

// previewMsg reports a preview start failure; successes are silent.
type previewMsg struct {
	err error
}
