package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/moodtune/moodtune/internal/repositories"
	"github.com/moodtune/moodtune/internal/services"
	"github.com/moodtune/moodtune/internal/session"
	"github.com/moodtune/moodtune/internal/shared"
	"github.com/moodtune/moodtune/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      *session.Store
	controller *session.Controller
	client     *services.Client
	emotion    *services.EmotionService
	music      *services.MusicService
	history    *services.HistoryService
	cacheRepo  *repositories.RecommendationCacheRepository
	engine     tasks.RecommendationEngine
	assembler  *tasks.PlaylistAssembler
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	SessionRepo session.Persister
	CacheRepo   *repositories.RecommendationCacheRepository
	Logger      *log.Logger
	Output      io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	store := session.NewStore(opts.SessionRepo)
	client := services.NewClient(services.ClientOpts{
		BaseURL:        opts.Config.API.BaseURL,
		Timeout:        time.Duration(opts.Config.API.TimeoutSeconds) * time.Second,
		RequestsPerSec: opts.Config.API.RequestsPerSec,
		Tokens:         store,
		OnUnauthorized: store.Clear,
	})

	auth := services.NewAuthService(client)
	emotion := services.NewEmotionService(client)
	music := services.NewMusicService(client)
	history := services.NewHistoryService(client)

	var cache tasks.RecommendationCache
	if opts.CacheRepo != nil {
		cache = opts.CacheRepo
	}

	return &Runner{
		config:     opts.Config,
		store:      store,
		controller: session.NewController(store, auth, opts.Logger),
		client:     client,
		emotion:    emotion,
		music:      music,
		history:    history,
		cacheRepo:  opts.CacheRepo,
		engine:     tasks.NewMoodEngine(music, emotion, cache),
		assembler:  tasks.NewPlaylistAssembler(history),
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, analyzeCommand, recommendCommand, playlistCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger, e.g. to redirect output to a file
// while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// requireAuth fails fast for commands that need an authenticated session.
func (r *Runner) requireAuth() error {
	if !r.store.Session().Authenticated() {
		return fmt.Errorf("%w: run 'moodtune auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
