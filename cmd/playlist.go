package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/services"
	"github.com/moodtune/moodtune/internal/shared"
)

// PlaylistSave persists the cached recommendations for an emotion as a named
// playlist.
func (r *Runner) PlaylistSave(ctx context.Context, cmd *cli.Command) error {
	emotionArg := cmd.StringArg("emotion")
	name := cmd.String("name")
	description := cmd.String("description")

	if emotionArg == "" {
		return fmt.Errorf("%w: emotion", shared.ErrMissingArgument)
	}
	if err := r.requireAuth(); err != nil {
		return err
	}
	if r.cacheRepo == nil {
		return fmt.Errorf("%w: no local database; run 'moodtune setup database'", shared.ErrMissingConfig)
	}

	emotion := models.ParseEmotion(emotionArg)
	set, fetchedAt, err := r.cacheRepo.Get(emotion)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	if set == nil {
		return fmt.Errorf("%w: no recommendations for %s; run 'moodtune recommend %s' first", shared.ErrInvalidArgument, emotion, emotionArg)
	}

	r.logger.Info("saving playlist", "emotion", emotion, "tracks", len(set.Tracks), "fetched_at", fetchedAt)

	draft, err := r.assembler.Assemble(name, set, description, "")
	if err != nil {
		return err
	}

	saved, err := r.assembler.Save(ctx, draft)
	if err != nil {
		return err
	}

	r.writePlain("✓ Playlist saved\n")
	r.writePlain("  Name: %s\n", saved.Name)
	r.writePlain("  ID: %s\n", saved.ID)
	r.writePlain("  Tracks: %d\n", len(saved.Tracks))
	return nil
}

// PlaylistList lists saved playlists with optional filters.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	if err := r.requireAuth(); err != nil {
		return err
	}

	filter := services.PlaylistFilter{
		Page:     cmd.Int("page"),
		PageSize: cmd.Int("page-size"),
	}
	if emotionArg := cmd.String("emotion"); emotionArg != "" {
		filter.Emotion = models.ParseEmotion(emotionArg)
	}
	if cmd.Bool("favorites") {
		fav := true
		filter.IsFavorite = &fav
	}

	page, err := r.history.Playlists(ctx, filter)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(page, true)
	}

	if len(page.Items) == 0 {
		return r.writePlain("No playlists found.\n")
	}

	r.writePlain("Found %d playlists (page %d):\n\n", page.Total, filter.Page)
	for i, p := range page.Items {
		marker := " "
		if p.IsFavorite {
			marker = "★"
		}
		r.writePlain("%d. %s %s\n", i+1, marker, p.Name)
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Emotion: %s %s\n", p.Emotion.Emoji(), p.Emotion.Label())
		r.writePlain("   Tracks: %d\n", len(p.Tracks))
		if !p.CreatedAt.IsZero() {
			r.writePlain("   Created: %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
		}
		r.writePlain("\n")
	}

	return nil
}

// PlaylistFavorite marks or unmarks a playlist as favorite.
func (r *Runner) PlaylistFavorite(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	favorite := !cmd.Bool("unset")

	if err := r.requireAuth(); err != nil {
		return err
	}

	updated, err := r.assembler.ToggleFavorite(ctx, id, favorite)
	if err != nil {
		return err
	}

	if updated.IsFavorite {
		return r.writePlain("★ %s marked as favorite\n", updated.Name)
	}
	return r.writePlain("✓ %s is no longer a favorite\n", updated.Name)
}

// PlaylistDelete removes a saved playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")

	if err := r.requireAuth(); err != nil {
		return err
	}

	if err := r.assembler.Delete(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Playlist %s deleted\n", id)
}
