package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/moodtune/moodtune/internal/models"
)

// EmotionService wraps the backend's emotion classifier endpoint. The model
// itself is opaque; the client only uploads an image and reads scores.
type EmotionService struct {
	client *Client
}

// NewEmotionService creates an EmotionService backed by the given API client.
func NewEmotionService(client *Client) *EmotionService {
	return &EmotionService{client: client}
}

// analyzeResponse mirrors the classifier's wire format.
type analyzeResponse struct {
	ID              string `json:"id,omitempty"`
	DominantEmotion struct {
		Type       string  `json:"type"`
		Confidence float64 `json:"confidence"`
	} `json:"dominant_emotion"`
	AllEmotions map[string]float64 `json:"all_emotions"`
}

// Analyze uploads an image and returns the classification result. Unknown
// emotion labels degrade to the default emotion rather than failing.
func (s *EmotionService) Analyze(ctx context.Context, filename string, image io.Reader) (*models.EmotionResult, string, error) {
	var resp analyzeResponse
	if err := s.client.PostFile(ctx, "/api/emotions/analyze", "file", filename, image, &resp); err != nil {
		return nil, "", err
	}

	result := &models.EmotionResult{
		Dominant:   models.ParseEmotion(resp.DominantEmotion.Type),
		Confidence: resp.DominantEmotion.Confidence,
		PerEmotion: resp.AllEmotions,
	}
	if result.PerEmotion == nil {
		result.PerEmotion = map[string]float64{}
	}

	return result, resp.ID, nil
}

// AnalyzeFile opens and uploads an image from disk.
func (s *EmotionService) AnalyzeFile(ctx context.Context, path string) (*models.EmotionResult, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return s.Analyze(ctx, filepath.Base(path), f)
}
