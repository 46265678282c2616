// Package tasks orchestrates emotion-driven recommendation and playlist operations with real-time progress reporting.
//
// # Core Operations
//
// The [RecommendationEngine] interface defines two operations:
//
//  1. [RecommendationEngine.Recommend] : Emotion → ranked track set
//     - Derives music parameters (valence, energy, tempo, mode) for the emotion
//     - Queries the backend catalog within tolerance bands
//     - Deduplicates by track id preserving catalog order, truncates to limit
//     - Returns the set with genres used and a playlist description
//
//  2. [RecommendationEngine.AnalyzeAndRecommend] : Image → recommendations
//     - Uploads the image for emotion detection
//     - Builds recommendations for the dominant emotion in the same pass
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Result Caching
//
// The optional [RecommendationCache] interface persists the last completed set
// per emotion so results survive restarts. Writes are best-effort; failures are
// reported as progress messages and never fail the operation.
//
// # Playlist Assembly
//
// [PlaylistAssembler] turns a recommendation set into a named draft (validated,
// snapshotted by value) and delegates persistence to the history backend.
//
// # Implementation
//
// [MoodEngine] implements [RecommendationEngine] with dependencies on:
//   - [TrackCatalog] : backend music catalog (services.MusicService)
//   - [EmotionAnalyzer] : image analysis endpoint (services.EmotionService)
//   - [RecommendationCache] : optional persistence layer (repositories.RecommendationCacheRepository)
package tasks
