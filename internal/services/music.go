package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/moodtune/moodtune/internal/models"
)

// MusicService wraps the backend's catalog query endpoint.
type MusicService struct {
	client *Client
}

// NewMusicService creates a MusicService backed by the given API client.
func NewMusicService(client *Client) *MusicService {
	return &MusicService{client: client}
}

// recommendationsResponse mirrors the catalog's wire format. The catalog
// also echoes averaged music parameters, but the client derives its own from
// the emotion table, so that field is not decoded.
type recommendationsResponse struct {
	Tracks              []models.Track `json:"tracks"`
	GenresUsed          []string       `json:"genres_used"`
	PlaylistDescription string         `json:"playlist_description"`
	Total               int            `json:"total"`
}

// CandidateTracks issues one catalog query for up to limit tracks matching
// the emotion, constrained by the tolerance bands. Results come back in the
// catalog's relevance order.
func (s *MusicService) CandidateTracks(ctx context.Context, emotion models.Emotion, limit int, bands models.ParameterBands) ([]models.Track, []string, string, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", limit))
	query.Set("min_valence", fmt.Sprintf("%.2f", bands.MinValence))
	query.Set("max_valence", fmt.Sprintf("%.2f", bands.MaxValence))
	query.Set("min_energy", fmt.Sprintf("%.2f", bands.MinEnergy))
	query.Set("max_energy", fmt.Sprintf("%.2f", bands.MaxEnergy))
	query.Set("min_tempo", fmt.Sprintf("%d", bands.MinTempo))
	query.Set("max_tempo", fmt.Sprintf("%d", bands.MaxTempo))

	path := fmt.Sprintf("/api/music/recommendations/%s?%s", url.PathEscape(string(emotion)), query.Encode())

	var resp recommendationsResponse
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, nil, "", err
	}

	return resp.Tracks, resp.GenresUsed, resp.PlaylistDescription, nil
}
