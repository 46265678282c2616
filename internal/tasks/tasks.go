// package tasks implements recommendation and playlist assembly operations.
//
// The core abstraction is RecommendationEngine, which turns an emotion into a
// ranked set of tracks by deriving music parameters and querying the backend
// catalog. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/shared"
)

const (
	// DefaultTrackLimit is the track count used when callers pass limit <= 0.
	DefaultTrackLimit = 20

	// MaxTrackLimit caps a single recommendation request.
	MaxTrackLimit = 100
)

// AnalysisRunResult contains all data from a combined analyze-and-recommend run.
type AnalysisRunResult struct {
	Emotion         *models.EmotionResult     // Detection outcome
	AnalysisID      string                    // Backend analysis record id
	Recommendations *models.RecommendationSet // Tracks for the dominant emotion
}

// RecommendationEngine defines operations for building track recommendations.
type RecommendationEngine interface {
	// Recommend derives music parameters for an emotion and fetches a ranked,
	// deduplicated track set from the catalog.
	Recommend(ctx context.Context, progress chan<- ProgressUpdate, emotion models.Emotion, limit int) (*models.RecommendationSet, error)

	// AnalyzeAndRecommend detects the dominant emotion in an image file and
	// builds recommendations for it in one pass.
	AnalyzeAndRecommend(ctx context.Context, progress chan<- ProgressUpdate, path string, limit int) (*AnalysisRunResult, error)
}

// TrackCatalog defines the backend catalog query the engine depends on.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type TrackCatalog interface {
	CandidateTracks(ctx context.Context, emotion models.Emotion, limit int, bands models.ParameterBands) ([]models.Track, []string, string, error)
}

// EmotionAnalyzer defines the image analysis call the engine depends on.
type EmotionAnalyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*models.EmotionResult, string, error)
}

// RecommendationCache receives write-through copies of completed sets so the
// last result per emotion survives restarts. Writes are best-effort.
type RecommendationCache interface {
	Put(set *models.RecommendationSet) error
}

// MoodEngine implements RecommendationEngine against the backend services.
type MoodEngine struct {
	catalog  TrackCatalog
	analyzer EmotionAnalyzer
	cache    RecommendationCache
}

// NewMoodEngine creates a MoodEngine. cache may be nil to disable write-through.
func NewMoodEngine(catalog TrackCatalog, analyzer EmotionAnalyzer, cache RecommendationCache) *MoodEngine {
	return &MoodEngine{
		catalog:  catalog,
		analyzer: analyzer,
		cache:    cache,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MoodEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Recommend builds a ranked recommendation set for one emotion.
//
// The emotion's music parameters select a tolerance band on valence, energy
// and tempo; the catalog returns candidates inside that band, which are then
// deduplicated by track id (first occurrence wins) and truncated to limit.
// An empty track list is a valid result. A cancelled context surfaces as
// shared.ErrCancelled so callers can drop superseded requests silently.
func (e *MoodEngine) Recommend(ctx context.Context, progress chan<- ProgressUpdate, emotion models.Emotion, limit int) (*models.RecommendationSet, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: track catalog not initialized", shared.ErrInvalidInput)
	}

	if limit <= 0 {
		limit = DefaultTrackLimit
	}
	if limit > MaxTrackLimit {
		limit = MaxTrackLimit
	}

	emotion = models.ParseEmotion(string(emotion))
	params := models.ParametersFor(emotion)
	e.sendProgress(progress, deriveParametersUpdate(emotion, params))

	e.sendProgress(progress, fetchTracksUpdate(emotion))
	tracks, genres, description, err := e.catalog.CandidateTracks(ctx, emotion, limit, params.Bands())
	if err != nil {
		return nil, err
	}

	tracks = dedupeTracks(tracks)
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	set := &models.RecommendationSet{
		Emotion:             emotion,
		Tracks:              tracks,
		MusicParameters:     params,
		GenresUsed:          genres,
		PlaylistDescription: description,
		Total:               len(tracks),
	}
	e.sendProgress(progress, rankedTracksUpdate(set))

	if e.cache != nil {
		e.sendProgress(progress, cacheWriteUpdate(emotion, e.cache.Put(set)))
	}
	return set, nil
}

// AnalyzeAndRecommend runs emotion detection on an image file and then builds
// recommendations for the dominant emotion.
func (e *MoodEngine) AnalyzeAndRecommend(ctx context.Context, progress chan<- ProgressUpdate, path string, limit int) (*AnalysisRunResult, error) {
	if e.analyzer == nil {
		return nil, fmt.Errorf("%w: emotion analyzer not initialized", shared.ErrInvalidInput)
	}

	e.sendProgress(progress, analyzeImageUpdate(path))
	result, analysisID, err := e.analyzer.AnalyzeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, emotionDetectedUpdate(result))

	set, err := e.Recommend(ctx, progress, result.Dominant, limit)
	if err != nil {
		return nil, err
	}

	return &AnalysisRunResult{
		Emotion:         result,
		AnalysisID:      analysisID,
		Recommendations: set,
	}, nil
}

// dedupeTracks removes duplicate track ids, keeping the first occurrence so
// catalog ranking is preserved.
func dedupeTracks(tracks []models.Track) []models.Track {
	seen := make(map[string]struct{}, len(tracks))
	out := tracks[:0:0]
	for _, t := range tracks {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
