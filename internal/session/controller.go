package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/services"
	"github.com/moodtune/moodtune/internal/shared"
)

// LinkStatePrefix tags an OAuth state value as belonging to the account
// linking flow. It is the only signal the callback dispatcher has to tell
// "link provider to existing account" apart from "login via provider", so it
// must survive the full provider round trip.
const LinkStatePrefix = "link:"

// Action is the navigation outcome of one callback dispatch.
type Action string

const (
	ActionGoHome                    Action = "goHome"
	ActionReturnToLogin             Action = "returnToLogin"
	ActionReturnToAuthenticatedHome Action = "returnToAuthenticatedHome"
	ActionLinkFailed                Action = "linkFailed"
)

// Controller orchestrates the login/linking state machine over a [Store] and
// the backend auth endpoints.
type Controller struct {
	store  *Store
	auth   *services.AuthService
	logger *log.Logger
}

// NewController creates a session controller.
func NewController(store *Store, auth *services.AuthService, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{store: store, auth: auth, logger: logger}
}

// Store exposes the underlying session store.
func (c *Controller) Store() *Store {
	return c.store
}

// Login authenticates with credentials. The token is persisted only after a
// fully successful response; a failed call leaves the store untouched.
func (c *Controller) Login(ctx context.Context, usernameOrEmail, password string) (models.Session, error) {
	resp, err := c.auth.Login(ctx, usernameOrEmail, password)
	if err != nil {
		return c.store.Session(), err
	}

	c.store.Set(resp.AccessToken, resp.User, models.StateAuthenticated)
	c.logger.Info("logged in", "user", usernameOrEmail)
	return c.store.Session(), nil
}

// Register creates an account without logging in. Validation failures keep
// their structured field list for programmatic consumers.
func (c *Controller) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	return c.auth.Register(ctx, input)
}

// Logout clears the session unconditionally. Idempotent.
func (c *Controller) Logout() {
	c.store.Clear()
	c.logger.Info("logged out")
}

// RefreshProfile re-fetches the profile for the current token, confirming an
// optimistic session. A 401 clears the store through the client hook.
func (c *Controller) RefreshProfile(ctx context.Context) (*models.User, error) {
	user, err := c.auth.Me(ctx)
	if err != nil {
		return nil, err
	}
	c.store.SetUser(user)
	return user, nil
}

// AuthURL requests a provider authorization URL for logging in via Spotify
// and marks the session as awaiting a callback.
func (c *Controller) AuthURL(ctx context.Context) (string, error) {
	authURL, err := c.auth.SpotifyAuthURL(ctx)
	if err != nil {
		return "", err
	}

	if !c.store.Session().Authenticated() {
		c.store.SetState(models.StatePendingCallback)
	}
	return authURL, nil
}

// LinkURL requests a provider authorization URL for linking Spotify to the
// current account, guaranteeing the state parameter carries the
// [LinkStatePrefix] marker end to end.
func (c *Controller) LinkURL(ctx context.Context) (string, error) {
	if !c.store.Session().Authenticated() {
		return "", shared.ErrNotAuthenticated
	}

	authURL, state, err := c.auth.SpotifyLinkURL(ctx)
	if err != nil {
		return "", err
	}

	tagged, err := ensureLinkState(authURL, state)
	if err != nil {
		return "", err
	}

	c.store.SetState(models.StateLinking)
	return tagged, nil
}

// ensureLinkState rewrites the authorization URL's state parameter to carry
// the linking marker when the backend's state lacks it.
func ensureLinkState(authURL, state string) (string, error) {
	if strings.HasPrefix(state, LinkStatePrefix) {
		return authURL, nil
	}

	parsed, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("invalid authorization URL: %w", err)
	}

	query := parsed.Query()
	current := query.Get("state")
	if current == "" {
		current = state
	}
	if current == "" {
		nonce, err := shared.GenerateState()
		if err != nil {
			return "", err
		}
		current = nonce
	}
	if !strings.HasPrefix(current, LinkStatePrefix) {
		query.Set("state", LinkStatePrefix+current)
		parsed.RawQuery = query.Encode()
	}

	return parsed.String(), nil
}

// Disconnect unlinks the provider account, then forces a profile refresh so
// stale "connected" flags never survive the unlink.
func (c *Controller) Disconnect(ctx context.Context) error {
	if err := c.auth.DisconnectSpotify(ctx); err != nil {
		return err
	}

	if _, err := c.RefreshProfile(ctx); err != nil {
		return fmt.Errorf("disconnected, but profile refresh failed: %w", err)
	}
	return nil
}

// HandleCallback dispatches one provider redirect. Exactly four mutually
// exclusive branches, evaluated in priority order: a provider error
// short-circuits everything, an inline token beats a bare code, a
// link-tagged code goes through the link exchange, and a bare code falls
// back to the server-side exchange. Whatever happens, including a panic,
// the dispatcher terminates in a navigable action.
func (c *Controller) HandleCallback(ctx context.Context, payload models.OAuthCallbackPayload) (action Action) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("callback dispatch panicked", "panic", r)
			action = ActionReturnToLogin
		}
	}()

	switch {
	case payload.Error != "":
		c.logger.Warn("provider returned error", "error", payload.Error)
		if c.store.Session().Authenticated() {
			c.store.SetState(models.StateAuthenticated)
			return ActionReturnToAuthenticatedHome
		}
		c.store.SetState(models.StateAnonymous)
		return ActionReturnToLogin

	case payload.Token != "":
		c.store.Set(payload.Token, nil, models.StateAuthenticated)
		// Best effort: a failed profile fetch does not abort the login.
		if user, err := c.auth.Me(ctx); err == nil {
			c.store.SetUser(user)
		} else {
			c.logger.Warn("profile fetch after provider login failed", "error", err)
		}
		return ActionGoHome

	case payload.Code != "" && strings.HasPrefix(payload.State, LinkStatePrefix):
		resp, err := c.auth.LinkSpotify(ctx, payload.Code)
		if err != nil {
			c.logger.Error("link exchange failed", "error", err)
			// An already-authenticated session never regresses on failure.
			if c.store.Session().Authenticated() {
				c.store.SetState(models.StateLinkError)
			}
			return ActionLinkFailed
		}
		if resp.AccessToken != "" {
			c.store.Set(resp.AccessToken, resp.User, models.StateAuthenticated)
		} else {
			c.store.SetState(models.StateAuthenticated)
		}
		return ActionGoHome

	case payload.Code != "":
		// The backend may have already completed the exchange during the
		// redirect itself, so the outcome is deliberately ignored.
		if err := c.auth.SpotifyCallback(ctx, payload.Code); err != nil {
			c.logger.Warn("fallback code exchange failed", "error", err)
		}
		return ActionGoHome

	default:
		return ActionReturnToLogin
	}
}
