package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/moodtune/moodtune/internal/models"
)

// AuthService wraps the backend's authentication and provider-linking
// endpoints.
type AuthService struct {
	client *Client
}

// NewAuthService creates an AuthService backed by the given API client.
func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

// TokenResponse is the backend's reply to a successful login or link
// exchange.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type,omitempty"`
	User        *models.User `json:"user,omitempty"`
}

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// authURLResponse is the backend's reply when it mints a provider
// authorization URL. The exact backend paths are backend-owned; the client
// treats the URL and state as opaque.
type authURLResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state,omitempty"`
}

// Login authenticates with username/email and password. The token is only
// returned on a fully successful response; no partial state escapes.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*TokenResponse, error) {
	body := map[string]string{
		"username_or_email": usernameOrEmail,
		"password":          password,
	}

	var resp TokenResponse
	if err := s.client.Post(ctx, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response missing access token")
	}
	return &resp, nil
}

// Register creates a new account. Does not log the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	var user models.User
	if err := s.client.Post(ctx, "/api/auth/register", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me fetches the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.Get(ctx, "/api/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SpotifyAuthURL requests a provider authorization URL for logging in (or
// registering) via Spotify.
func (s *AuthService) SpotifyAuthURL(ctx context.Context) (string, error) {
	var resp authURLResponse
	if err := s.client.Get(ctx, "/api/auth/spotify/authorize-url", &resp); err != nil {
		return "", err
	}
	return resp.AuthURL, nil
}

// SpotifyLinkURL requests a provider authorization URL for linking Spotify
// to the currently authenticated account. The returned state value carries
// the linking marker so the callback dispatcher can tell linking apart from
// provider login.
func (s *AuthService) SpotifyLinkURL(ctx context.Context) (string, string, error) {
	var resp authURLResponse
	if err := s.client.Get(ctx, "/api/auth/spotify/link-url", &resp); err != nil {
		return "", "", err
	}
	return resp.AuthURL, resp.State, nil
}

// LinkSpotify exchanges an authorization code through the link endpoint,
// returning a refreshed token for the now-linked account.
func (s *AuthService) LinkSpotify(ctx context.Context, code string) (*TokenResponse, error) {
	var resp TokenResponse
	if err := s.client.Post(ctx, "/api/auth/spotify/link", map[string]string{"code": code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DisconnectSpotify unlinks the provider account. Callers must refresh the
// profile afterwards; cached "connected" flags are not trusted.
func (s *AuthService) DisconnectSpotify(ctx context.Context) error {
	return s.client.Post(ctx, "/api/auth/spotify/disconnect", struct{}{}, nil)
}

// SpotifyCallback forwards a bare authorization code to the backend's
// server-side exchange endpoint. Defensive fallback only: the backend
// normally completes this exchange during the redirect itself.
func (s *AuthService) SpotifyCallback(ctx context.Context, code string) error {
	return s.client.Get(ctx, "/api/auth/spotify/callback?code="+url.QueryEscape(code), nil)
}
