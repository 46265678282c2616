// package formatter provides functions to export recommendation and playlist data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/shared"
)

// ExportToCSV converts a RecommendationSet to CSV format with columns: ID, Name, Artists, Album, Duration, Popularity
func ExportToCSV(set *models.RecommendationSet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artists", "Album", "Duration", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range set.Tracks {
		record := []string{
			track.ID,
			track.Name,
			strings.Join(track.Artists, "; "),
			track.Album,
			strconv.Itoa(track.DurationMS),
			strconv.Itoa(track.Popularity),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a RecommendationSet to Markdown format
func ExportToMarkdown(set *models.RecommendationSet) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s %s\n\n", set.Emotion.Emoji(), set.Emotion.Label()))

	if set.PlaylistDescription != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", set.PlaylistDescription))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(set.Tracks)))
	buf.WriteString(fmt.Sprintf("**Valence**: %.2f | **Energy**: %.2f | **Tempo**: %d BPM | **Mode**: %s\n", set.MusicParameters.Valence, set.MusicParameters.Energy, set.MusicParameters.Tempo, set.MusicParameters.Mode))
	if len(set.GenresUsed) > 0 {
		buf.WriteString(fmt.Sprintf("**Genres**: %s\n", strings.Join(set.GenresUsed, ", ")))
	}
	buf.WriteString("\n## Tracks\n\n")

	for i, track := range set.Tracks {
		duration := shared.FormatDuration(track.DurationMS)
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, strings.Join(track.Artists, ", "), track.Name, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a RecommendationSet to plain text format
func ExportToText(set *models.RecommendationSet) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Emotion: %s\n", set.Emotion.Label()))
	if set.PlaylistDescription != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", set.PlaylistDescription))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(set.Tracks)))

	for i, track := range set.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, strings.Join(track.Artists, ", "), track.Name))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON summary of a recommendation set without its track list
func ToMetadataJSON(set *models.RecommendationSet) ([]byte, error) {
	metadata := struct {
		Emotion     models.Emotion         `json:"emotion"`
		Description string                 `json:"description,omitempty"`
		Parameters  models.MusicParameters `json:"music_params"`
		Genres      []string               `json:"genres_used,omitempty"`
		Total       int                    `json:"total"`
	}{set.Emotion, set.PlaylistDescription, set.MusicParameters, set.GenresUsed, set.Total}

	return shared.MarshalJSON(metadata, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a recommendation set to CSV with an accompanying metadata JSON file.
//
// Defaults to the lowercased emotion as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(set *models.RecommendationSet, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = strings.ToLower(string(set.Emotion))
	}

	csvData, err := ExportToCSV(set)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(set)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a recommendation set to Markdown.
//
// Defaults to {emotion}.md as the filename.
func WriteMarkdownExport(set *models.RecommendationSet, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.md", strings.ToLower(string(set.Emotion)))
	}

	mdData, err := ExportToMarkdown(set)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports a recommendation set to plain text format.
//
// Defaults to {emotion}_tracks.txt as the filename.
func WriteTextExport(set *models.RecommendationSet, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_tracks.txt", strings.ToLower(string(set.Emotion)))
	}

	textData, err := ExportToText(set)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
