package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moodtune/moodtune/internal/models"
	tu "github.com/moodtune/moodtune/internal/testing"
)

func sampleSet() *models.RecommendationSet {
	return &models.RecommendationSet{
		Emotion:             models.EmotionHappy,
		MusicParameters:     models.ParametersFor(models.EmotionHappy),
		GenresUsed:          []string{"pop", "dance"},
		PlaylistDescription: "Feel-good anthems",
		Total:               2,
		Tracks: []models.Track{
			{
				ID:         "track1",
				Name:       "Song One",
				Artists:    []string{"Artist One"},
				Album:      "Album One",
				DurationMS: 180000,
				Popularity: 80,
			},
			{
				ID:         "track2",
				Name:       "Song Two",
				Artists:    []string{"Artist Two", "Artist Three"},
				Album:      "",
				DurationMS: 240000,
				Popularity: 55,
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleSet())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Name,Artists,Album,Duration,Popularity") {
			t.Errorf("CSV missing headers, got: %s", output)
		}

		if !strings.Contains(output, "track1") {
			t.Errorf("CSV missing track1 ID")
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing track1 name")
		}
		if !strings.Contains(output, "Artist Two; Artist Three") {
			t.Errorf("CSV missing joined artists, got: %s", output)
		}
		if !strings.Contains(output, "180000") {
			t.Errorf("CSV missing track1 duration")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleSet())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Happy") {
			t.Errorf("Markdown missing emotion label")
		}
		if !strings.Contains(output, "**Description**: Feel-good anthems") {
			t.Errorf("Markdown missing description")
		}
		if !strings.Contains(output, "**Tracks**: 2") {
			t.Errorf("Markdown missing track count")
		}
		if !strings.Contains(output, "**Genres**: pop, dance") {
			t.Errorf("Markdown missing genres")
		}
		if !strings.Contains(output, "**Tempo**: 120 BPM") {
			t.Errorf("Markdown tempo rendered badly, got: %s", output)
		}

		if !strings.Contains(output, "## Tracks") {
			t.Errorf("Markdown missing tracks section")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00]") {
			t.Errorf("Markdown missing track1, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist Two, Artist Three - Song Two [4:00]") {
			t.Errorf("Markdown missing track2 (no album)")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleSet())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Emotion: Happy") {
			t.Errorf("Text missing emotion")
		}
		if !strings.Contains(output, "Description: Feel-good anthems") {
			t.Errorf("Text missing description")
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("Text missing track count")
		}

		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("Text missing track1")
		}
		if !strings.Contains(output, "2. Artist Two, Artist Three - Song Two") {
			t.Errorf("Text missing track2")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(sampleSet())
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"emotion": "HAPPY"`) {
			t.Errorf("JSON missing emotion field, got: %s", output)
		}
		if !strings.Contains(output, `"description": "Feel-good anthems"`) {
			t.Errorf("JSON missing description field, got: %s", output)
		}
		if !strings.Contains(output, `"total": 2`) {
			t.Errorf("JSON missing total field, got: %s", output)
		}
		if strings.Contains(output, "Song One") {
			t.Errorf("metadata JSON must not embed tracks, got: %s", output)
		}
	})
}

func TestFileExports(t *testing.T) {
	dir := t.TempDir()

	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(dir, "happy")
		result, err := WriteCSVExport(sampleSet(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		if result.TracksFile != base+"_tracks.csv" {
			t.Errorf("TracksFile = %q", result.TracksFile)
		}
		if result.MetadataFile != base+"_metadata.json" {
			t.Errorf("MetadataFile = %q", result.MetadataFile)
		}
		tu.AssertFileExists(t, result.TracksFile)
		tu.AssertFileExists(t, result.MetadataFile)

		metadata := tu.MustReadFile(t, result.MetadataFile)
		if !strings.Contains(metadata, `"tempo": 120`) {
			t.Errorf("metadata missing parameters, got: %s", metadata)
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		path, err := WriteMarkdownExport(sampleSet(), filepath.Join(dir, "happy.md"))
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading export: %v", err)
		}
		if !strings.Contains(string(data), "## Tracks") {
			t.Errorf("exported Markdown missing tracks section")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path, err := WriteTextExport(sampleSet(), filepath.Join(dir, "happy.txt"))
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading export: %v", err)
		}
		if !strings.Contains(string(data), "Song Two") {
			t.Errorf("exported text missing tracks")
		}
	})
}
