package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/shared"
	"github.com/moodtune/moodtune/internal/tasks"
)

// Analyze uploads an image for emotion detection, optionally chaining into
// recommendations for the detected emotion.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	imagePath := cmd.StringArg("image")
	recommend := cmd.Bool("recommend")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	if imagePath == "" {
		return fmt.Errorf("%w: image path", shared.ErrMissingArgument)
	}
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrInvalidArgument, imagePath)
	}
	if err := r.requireAuth(); err != nil {
		return err
	}

	r.logger.Info("analyzing image", "path", imagePath)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.AnalyzeImage:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.FetchTracks:
				r.writePlain("🎵 %s\n", update.Message)
			}
		}
	}()

	if recommend {
		run, err := r.engine.AnalyzeAndRecommend(ctx, progressCh, imagePath, limit)
		close(progressCh)
		<-done
		if err != nil {
			return err
		}

		if useJSON {
			return r.writeJSON(run, true)
		}

		r.printEmotionResult(run.Emotion)
		r.writePlain("\n")
		return r.printRecommendations(run.Recommendations)
	}

	result, _, err := r.emotion.AnalyzeFile(ctx, imagePath)
	close(progressCh)
	<-done
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, true)
	}

	r.printEmotionResult(result)
	return nil
}

func (r *Runner) printEmotionResult(result *models.EmotionResult) {
	r.writePlainHeader("Emotion Analysis")
	r.writePlain("%s %s (%.1f%% confidence)\n\n", result.Dominant.Emoji(), result.Dominant.Label(), result.Confidence)

	if len(result.PerEmotion) == 0 {
		return
	}

	names := make([]string, 0, len(result.PerEmotion))
	for name := range result.PerEmotion {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return result.PerEmotion[names[i]] > result.PerEmotion[names[j]]
	})

	for _, name := range names {
		r.writePlain("  %-10s %5.1f%%\n", name, result.PerEmotion[name])
	}
}
