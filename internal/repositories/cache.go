package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moodtune/moodtune/internal/models"
)

// RecommendationCacheRepository stores the last successful recommendation
// set per emotion so it can be re-browsed offline. Each fetch replaces the
// previous entry for its emotion.
type RecommendationCacheRepository struct {
	db *sql.DB
}

// NewRecommendationCacheRepository creates a cache repository with the given database connection.
func NewRecommendationCacheRepository(db *sql.DB) *RecommendationCacheRepository {
	return &RecommendationCacheRepository{db: db}
}

// Put stores a recommendation set, replacing any cached set for the same emotion.
func (r *RecommendationCacheRepository) Put(set *models.RecommendationSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation set: %w", err)
	}

	query := `
		INSERT INTO recommendation_cache (emotion, payload_json, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(emotion) DO UPDATE SET
			payload_json = excluded.payload_json,
			fetched_at = excluded.fetched_at
	`

	if _, err := r.db.Exec(query, string(set.Emotion), string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to cache recommendations: %w", err)
	}

	return nil
}

// Get returns the cached set for an emotion along with its fetch time, or
// (nil, zero, nil) when nothing is cached.
func (r *RecommendationCacheRepository) Get(emotion models.Emotion) (*models.RecommendationSet, time.Time, error) {
	var (
		payload   string
		fetchedAt time.Time
	)

	err := r.db.QueryRow(
		"SELECT payload_json, fetched_at FROM recommendation_cache WHERE emotion = ?",
		string(emotion),
	).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query cache: %w", err)
	}

	var set models.RecommendationSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode cached set: %w", err)
	}

	return &set, fetchedAt, nil
}

// List returns the emotions with cached sets and their fetch times, most
// recent first.
func (r *RecommendationCacheRepository) List() (map[models.Emotion]time.Time, error) {
	rows, err := r.db.Query("SELECT emotion, fetched_at FROM recommendation_cache ORDER BY fetched_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[models.Emotion]time.Time)
	for rows.Next() {
		var (
			emotion   string
			fetchedAt time.Time
		)
		if err := rows.Scan(&emotion, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache row: %w", err)
		}
		entries[models.Emotion(emotion)] = fetchedAt
	}

	return entries, rows.Err()
}
