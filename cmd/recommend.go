package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/moodtune/moodtune/internal/formatter"
	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/shared"
)

// Recommend fetches ranked track recommendations for an emotion.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	emotionArg := cmd.StringArg("emotion")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	cached := cmd.Bool("cached")
	outputFile := cmd.String("output")

	if emotionArg == "" {
		return fmt.Errorf("%w: emotion (one of %v)", shared.ErrMissingArgument, models.Emotions())
	}
	emotion := models.ParseEmotion(emotionArg)

	var set *models.RecommendationSet

	if cached {
		if r.cacheRepo == nil {
			return fmt.Errorf("%w: no local database; run 'moodtune setup database'", shared.ErrMissingConfig)
		}
		cachedSet, fetchedAt, err := r.cacheRepo.Get(emotion)
		if err != nil {
			return fmt.Errorf("failed to read cache: %w", err)
		}
		if cachedSet == nil {
			return fmt.Errorf("%w: no cached recommendations for %s", shared.ErrInvalidArgument, emotion)
		}
		r.logger.Info("serving cached recommendations", "emotion", emotion, "fetched_at", fetchedAt)
		set = cachedSet
	} else {
		if err := r.requireAuth(); err != nil {
			return err
		}

		r.logger.Info("fetching recommendations", "emotion", emotion, "limit", limit)

		fetched, err := r.engine.Recommend(ctx, nil, emotion, limit)
		if err != nil {
			if shared.IsCancelled(err) {
				return nil
			}
			return err
		}
		set = fetched
	}

	if outputFile != "" {
		return r.exportRecommendations(set, outputFile)
	}

	if useJSON {
		return r.writeJSON(set, pretty)
	}

	return r.printRecommendations(set)
}

// exportRecommendations writes a set to disk, choosing the format from the
// file extension.
func (r *Runner) exportRecommendations(set *models.RecommendationSet, outputFile string) error {
	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".csv":
		base := strings.TrimSuffix(outputFile, filepath.Ext(outputFile))
		result, err := formatter.WriteCSVExport(set, base)
		if err != nil {
			return err
		}
		r.writePlain("✓ Tracks exported to %s\n", result.TracksFile)
		r.writePlain("✓ Metadata exported to %s\n", result.MetadataFile)
		return nil
	case ".md":
		path, err := formatter.WriteMarkdownExport(set, outputFile)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", path)
	case ".txt":
		path, err := formatter.WriteTextExport(set, outputFile)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", path)
	default:
		return fmt.Errorf("%w: unsupported export extension %q (use .csv, .md or .txt)", shared.ErrInvalidArgument, filepath.Ext(outputFile))
	}
}

func (r *Runner) printRecommendations(set *models.RecommendationSet) error {
	r.writePlainHeader(fmt.Sprintf("%s %s", set.Emotion.Emoji(), set.Emotion.Label()))

	if set.PlaylistDescription != "" {
		r.writePlain("%s\n", set.PlaylistDescription)
	}
	r.writePlain("Valence %.2f | Energy %.2f | Tempo %d BPM | %s\n", set.MusicParameters.Valence, set.MusicParameters.Energy, set.MusicParameters.Tempo, set.MusicParameters.Mode)
	if len(set.GenresUsed) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(set.GenresUsed, ", "))
	}
	r.writePlain("\n")

	if len(set.Tracks) == 0 {
		r.writePlain("No tracks matched; try again later or pick another emotion.\n")
		return nil
	}

	for i, track := range set.Tracks {
		r.writePlain("%d. %s - %s", i+1, strings.Join(track.Artists, ", "), track.Name)
		if track.Album != "" {
			r.writePlain(" (%s)", track.Album)
		}
		r.writePlain(" [%s]\n", shared.FormatDuration(track.DurationMS))
	}

	r.writePlain("\nSave with: moodtune playlist save %s --name \"My playlist\"\n", strings.ToLower(string(set.Emotion)))
	return nil
}
