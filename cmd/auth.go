package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/server"
	"github.com/moodtune/moodtune/internal/services"
	"github.com/moodtune/moodtune/internal/session"
	"github.com/moodtune/moodtune/internal/shared"
)

// AuthLogin authenticates with username/email and password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	user := cmd.String("user")
	password := cmd.String("password")

	if password == "" {
		r.writePlain("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	sess, err := r.controller.Login(ctx, user, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in\n")
	if sess.User != nil {
		r.writePlain("  User: %s (%s)\n", sess.User.Username, sess.User.Email)
		if sess.User.SpotifyConnected {
			r.writePlain("  Spotify: connected\n")
		}
	}
	return nil
}

// AuthRegister creates a new account. Registration does not log in; the
// backend expects an explicit login afterwards.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	user, err := r.controller.Register(ctx, services.RegisterInput{
		Email:     cmd.String("email"),
		Username:  cmd.String("username"),
		Password:  cmd.String("password"),
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
	})
	if err != nil {
		if apiErr, ok := shared.AsAPIError(err); ok && apiErr.FieldSummary() != "" {
			return fmt.Errorf("%w (%s)", err, apiErr.FieldSummary())
		}
		return err
	}

	r.writePlain("✓ Account created for %s\n", user.Username)
	r.writePlain("Run 'moodtune auth login -u %s' to log in\n", user.Username)
	return nil
}

// AuthLogout clears the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.controller.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthWhoami shows the current session and profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	refresh := cmd.Bool("refresh")

	sess := r.store.Session()
	if !sess.Authenticated() {
		return r.writePlain("Not logged in (state: %s)\n", sess.OAuthState)
	}

	if refresh {
		if _, err := r.controller.RefreshProfile(ctx); err != nil {
			return err
		}
		sess = r.store.Session()
	}

	if useJSON {
		return r.writeJSON(sess, true)
	}

	r.writePlain("State: %s\n", sess.OAuthState)
	if sess.User != nil {
		r.writePlain("User: %s\n", sess.User.Username)
		r.writePlain("Email: %s\n", sess.User.Email)
		if sess.User.SpotifyConnected {
			r.writePlain("Spotify: connected\n")
		} else {
			r.writePlain("Spotify: not connected\n")
		}
	} else {
		r.writePlain("Profile not cached; try --refresh\n")
	}
	return nil
}

// AuthSpotify logs in via the provider's browser OAuth flow.
func (r *Runner) AuthSpotify(ctx context.Context, cmd *cli.Command) error {
	authURL, err := r.controller.AuthURL(ctx)
	if err != nil {
		return err
	}

	action, err := r.doCallbackFlow(ctx, authURL, "login")
	if err != nil {
		return err
	}

	switch action {
	case session.ActionGoHome:
		r.writePlainln("✓ Logged in via Spotify")
		if sess := r.store.Session(); sess.User != nil {
			r.writePlain("  User: %s\n", sess.User.Username)
		}
		return nil
	case session.ActionReturnToAuthenticatedHome:
		r.writePlainln("⚠ Provider returned an error; existing session kept")
		return nil
	default:
		return fmt.Errorf("%w: provider login was not completed", shared.ErrUnauthorized)
	}
}

// AuthLink links a Spotify account to the logged-in account.
func (r *Runner) AuthLink(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	linkURL, err := r.controller.LinkURL(ctx)
	if err != nil {
		return err
	}

	action, err := r.doCallbackFlow(ctx, linkURL, "account linking")
	if err != nil {
		return err
	}

	switch action {
	case session.ActionGoHome:
		r.writePlainln("✓ Spotify account linked")
		return nil
	case session.ActionLinkFailed:
		return fmt.Errorf("%w: link exchange failed; your session is unchanged", shared.ErrUpstream)
	case session.ActionReturnToAuthenticatedHome:
		r.writePlainln("⚠ Provider returned an error; your session is unchanged")
		return nil
	default:
		return fmt.Errorf("%w: linking was not completed", shared.ErrUpstream)
	}
}

// AuthDisconnect unlinks the Spotify account and refreshes the profile.
func (r *Runner) AuthDisconnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	if err := r.controller.Disconnect(ctx); err != nil {
		return err
	}

	return r.writePlain("✓ Spotify account disconnected\n")
}

// doCallbackFlow runs the loopback redirect capture: start a local HTTP
// server, open the browser at authURL, wait for the provider redirect, and
// dispatch it through the session controller.
func (r *Runner) doCallbackFlow(ctx context.Context, authURL, prefix string) (session.Action, error) {
	handler := server.NewCallbackHandler()
	router := server.NewBasicRouter()
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.OAuth.Host, r.config.OAuth.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var payload models.OAuthCallbackPayload

	select {
	case payload = <-handler.Result():
		// Got the provider redirect
	case err := <-serverErrors:
		return "", fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return "", fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	return r.controller.HandleCallback(ctx, payload), nil
}
