package main

import (
	"context"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/services"
)

// HistoryAnalyses lists past emotion analyses.
func (r *Runner) HistoryAnalyses(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	if err := r.requireAuth(); err != nil {
		return err
	}

	filter := services.AnalysisFilter{
		Page:     cmd.Int("page"),
		PageSize: cmd.Int("page-size"),
	}
	if emotionArg := cmd.String("emotion"); emotionArg != "" {
		filter.Emotion = models.ParseEmotion(emotionArg)
	}

	page, err := r.history.Analyses(ctx, filter)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(page, true)
	}

	if len(page.Items) == 0 {
		return r.writePlain("No analyses yet.\n")
	}

	r.writePlain("Found %d analyses (page %d):\n\n", page.Total, filter.Page)
	r.printAnalyses(page.Items)
	return nil
}

// HistoryStats shows aggregate usage statistics.
func (r *Runner) HistoryStats(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	if err := r.requireAuth(); err != nil {
		return err
	}

	stats, err := r.history.Stats(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(stats, true)
	}

	r.printStats(stats)
	return nil
}

// HistoryDashboard fetches stats and recent analyses concurrently and
// renders them together.
func (r *Runner) HistoryDashboard(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	type statsResult struct {
		stats *models.StatsSummary
		err   error
	}
	type analysesResult struct {
		page *models.Page[models.AnalysisRecord]
		err  error
	}

	statsCh := make(chan statsResult, 1)
	analysesCh := make(chan analysesResult, 1)

	go func() {
		stats, err := r.history.Stats(ctx)
		statsCh <- statsResult{stats, err}
	}()
	go func() {
		page, err := r.history.Analyses(ctx, services.AnalysisFilter{Page: 1, PageSize: 10})
		analysesCh <- analysesResult{page, err}
	}()

	stats := <-statsCh
	analyses := <-analysesCh

	if stats.err != nil {
		return stats.err
	}
	if analyses.err != nil {
		return analyses.err
	}

	r.printStats(stats.stats)
	r.writePlain("\n")
	r.writePlainHeader("Recent Analyses")
	if len(analyses.page.Items) == 0 {
		return r.writePlain("No analyses yet.\n")
	}
	r.printAnalyses(analyses.page.Items)
	return nil
}

func (r *Runner) printAnalyses(records []models.AnalysisRecord) {
	for i, a := range records {
		r.writePlain("%d. %s %s (%.1f%%)\n", i+1, a.Emotion.Emoji(), a.Emotion.Label(), a.Confidence)
		r.writePlain("   ID: %s\n", a.ID)
		if !a.CreatedAt.IsZero() {
			r.writePlain("   When: %s\n", a.CreatedAt.Format("2006-01-02 15:04"))
		}
		r.writePlain("\n")
	}
}

func (r *Runner) printStats(stats *models.StatsSummary) {
	r.writePlainHeader("Usage Statistics")
	r.writePlain("Analyses: %d\n", stats.TotalAnalyses)
	r.writePlain("Playlists: %d\n", stats.TotalPlaylists)
	r.writePlain("Favorites: %d\n", stats.FavoriteCount)
	if stats.DominantEmotion != "" {
		dominant := models.ParseEmotion(stats.DominantEmotion)
		r.writePlain("Dominant emotion: %s %s\n", dominant.Emoji(), dominant.Label())
	}

	if len(stats.EmotionCounts) > 0 {
		r.writePlain("\nBy emotion:\n")
		names := make([]string, 0, len(stats.EmotionCounts))
		for name := range stats.EmotionCounts {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if stats.EmotionCounts[names[i]] != stats.EmotionCounts[names[j]] {
				return stats.EmotionCounts[names[i]] > stats.EmotionCounts[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			r.writePlain("  %-10s %d\n", name, stats.EmotionCounts[name])
		}
	}
}
