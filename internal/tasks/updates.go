package tasks

import (
	"fmt"

	"github.com/moodtune/moodtune/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	AnalyzeImage Phase = iota
	DeriveParameters
	FetchTracks
	RankTracks
	CacheWrite
	SavePlaylist
)

func (p Phase) String() string {
	switch p {
	case AnalyzeImage:
		return "analyze_image"
	case DeriveParameters:
		return "derive_parameters"
	case FetchTracks:
		return "fetch_tracks"
	case RankTracks:
		return "rank_tracks"
	case CacheWrite:
		return "cache_write"
	case SavePlaylist:
		return "save_playlist"
	default:
		return ""
	}
}

func analyzeImageUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeImage,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Analyzing %s...", path),
	}
}

func emotionDetectedUpdate(result *models.EmotionResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AnalyzeImage,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Detected %s (%.0f%% confidence)", result.Dominant, result.Confidence),
		Data:    result,
	}
}

func deriveParametersUpdate(emotion models.Emotion, params models.MusicParameters) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeriveParameters,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Mapping %s to valence %.2f, energy %.2f, tempo %d BPM", emotion, params.Valence, params.Energy, params.Tempo),
		Data:    params,
	}
}

func fetchTracksUpdate(emotion models.Emotion) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching tracks for %s...", emotion),
	}
}

func rankedTracksUpdate(set *models.RecommendationSet) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RankTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Ranked %d tracks for %s", set.Total, set.Emotion),
		Data:    set,
	}
}

func cacheWriteUpdate(emotion models.Emotion, err error) ProgressUpdate {
	msg := fmt.Sprintf("Cached recommendations for %s", emotion)
	if err != nil {
		msg = fmt.Sprintf("Cache write for %s failed: %v", emotion, err)
	}
	return ProgressUpdate{
		Phase:   CacheWrite,
		Step:    1,
		Total:   1,
		Message: msg,
	}
}
