package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/moodtune/moodtune/internal/models"
)

// HistoryService wraps the backend's history store: saved playlists, past
// analyses, and aggregate stats. The storage schema is backend-owned.
type HistoryService struct {
	client *Client
}

// NewHistoryService creates a HistoryService backed by the given API client.
func NewHistoryService(client *Client) *HistoryService {
	return &HistoryService{client: client}
}

// PlaylistFilter narrows a playlist listing. Zero values are omitted from
// the query.
type PlaylistFilter struct {
	Page       int
	PageSize   int
	Emotion    models.Emotion
	IsFavorite *bool
}

func (f PlaylistFilter) encode() string {
	query := url.Values{}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(f.PageSize))
	}
	if f.Emotion != "" {
		query.Set("emotion", string(f.Emotion))
	}
	if f.IsFavorite != nil {
		query.Set("is_favorite", strconv.FormatBool(*f.IsFavorite))
	}
	return query.Encode()
}

// AnalysisFilter narrows an analysis history listing.
type AnalysisFilter struct {
	Page     int
	PageSize int
	Emotion  models.Emotion
}

func (f AnalysisFilter) encode() string {
	query := url.Values{}
	if f.Page > 0 {
		query.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(f.PageSize))
	}
	if f.Emotion != "" {
		query.Set("emotion", string(f.Emotion))
	}
	return query.Encode()
}

// SavePlaylist persists a draft; the backend assigns id and created_at.
func (s *HistoryService) SavePlaylist(ctx context.Context, draft *models.PlaylistDraft) (*models.Playlist, error) {
	var saved models.Playlist
	if err := s.client.Post(ctx, "/api/history/playlists", draft, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Playlists lists saved playlists matching the filter.
func (s *HistoryService) Playlists(ctx context.Context, filter PlaylistFilter) (*models.Page[models.Playlist], error) {
	path := "/api/history/playlists"
	if encoded := filter.encode(); encoded != "" {
		path += "?" + encoded
	}

	var page models.Page[models.Playlist]
	if err := s.client.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetFavorite toggles a playlist's favorite flag. Callers re-fetch the list
// afterwards instead of patching local copies.
func (s *HistoryService) SetFavorite(ctx context.Context, playlistID string, favorite bool) (*models.Playlist, error) {
	body := map[string]bool{"is_favorite": favorite}

	var updated models.Playlist
	if err := s.client.Patch(ctx, "/api/history/playlists/"+url.PathEscape(playlistID), body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePlaylist removes a saved playlist.
func (s *HistoryService) DeletePlaylist(ctx context.Context, playlistID string) error {
	if playlistID == "" {
		return fmt.Errorf("playlist id is required")
	}
	return s.client.Delete(ctx, "/api/history/playlists/"+url.PathEscape(playlistID))
}

// Analyses lists past emotion analyses matching the filter.
func (s *HistoryService) Analyses(ctx context.Context, filter AnalysisFilter) (*models.Page[models.AnalysisRecord], error) {
	path := "/api/history/analyses"
	if encoded := filter.encode(); encoded != "" {
		path += "?" + encoded
	}

	var page models.Page[models.AnalysisRecord]
	if err := s.client.Get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Stats fetches the user's aggregate activity summary.
func (s *HistoryService) Stats(ctx context.Context) (*models.StatsSummary, error) {
	var stats models.StatsSummary
	if err := s.client.Get(ctx, "/api/history/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
