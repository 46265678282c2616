// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles account and Spotify-link operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication and linked accounts",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with username/email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "Username or email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "first-name"},
					&cli.StringFlag{Name: "last-name"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "whoami",
				Usage: "Show the current session and profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Re-fetch the profile from the backend",
					},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:   "spotify",
				Usage:  "Log in via Spotify using the browser OAuth flow",
				Action: r.AuthSpotify,
			},
			{
				Name:   "link",
				Usage:  "Link a Spotify account to the logged-in account",
				Action: r.AuthLink,
			},
			{
				Name:   "disconnect",
				Usage:  "Unlink the Spotify account",
				Action: r.AuthDisconnect,
			},
		},
	}
}

// analyzeCommand uploads an image for emotion detection.
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Detect the dominant emotion in an image",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "image",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "recommend",
				Usage: "Fetch recommendations for the detected emotion",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of recommended tracks",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Analyze,
	}
}

// recommendCommand fetches ranked tracks for an emotion.
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Get track recommendations for an emotion",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "emotion",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of tracks",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "cached",
				Usage: "Serve the last cached result instead of querying the backend",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export to a file (format by extension: .csv, .md, .txt)",
			},
		},
		Action: r.Recommend,
	}
}

// playlistCommand manages saved playlists.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage saved playlists",
		Commands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Save the cached recommendations for an emotion as a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "emotion",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Playlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description (defaults to the catalog description)",
					},
				},
				Action: r.PlaylistSave,
			},
			{
				Name:  "list",
				Usage: "List saved playlists",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "emotion",
						Usage: "Filter by emotion",
					},
					&cli.BoolFlag{
						Name:  "favorites",
						Usage: "Only favorites",
					},
					&cli.IntFlag{
						Name:  "page",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "page-size",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "favorite",
				Usage: "Mark or unmark a playlist as favorite",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "unset",
						Usage: "Remove the favorite mark",
					},
				},
				Action: r.PlaylistFavorite,
			},
			{
				Name:  "delete",
				Usage: "Delete a saved playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.PlaylistDelete,
			},
		},
	}
}

// historyCommand surfaces past analyses and aggregate stats.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Analysis history and statistics",
		Commands: []*cli.Command{
			{
				Name:  "analyses",
				Usage: "List past emotion analyses",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "emotion",
						Usage: "Filter by emotion",
					},
					&cli.IntFlag{
						Name:  "page",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "page-size",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryAnalyses,
			},
			{
				Name:  "stats",
				Usage: "Show aggregate usage statistics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryStats,
			},
			{
				Name:   "dashboard",
				Usage:  "Combined stats and recent analyses",
				Action: r.HistoryDashboard,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive recommendations.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for emotion-based recommendations",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of tracks per emotion",
				Value: 20,
			},
		},
		Action: r.TUI,
	}
}
