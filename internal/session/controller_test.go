package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/moodtune/moodtune/internal/models"
	"github.com/moodtune/moodtune/internal/services"
	"github.com/moodtune/moodtune/internal/shared"
)

func newTestController(t *testing.T, handler http.Handler) (*Controller, *Store) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := NewStore(nil)
	client := services.NewClient(services.ClientOpts{
		BaseURL:        srv.URL,
		RequestsPerSec: 100,
		Tokens:         store,
		OnUnauthorized: store.Clear,
	})

	return NewController(store, services.NewAuthService(client), shared.NewLogger(io.Discard)), store
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestControllerLogin(t *testing.T) {
	t.Run("success stores token and profile", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["username_or_email"] != "alice" {
				t.Errorf("username_or_email = %q", body["username_or_email"])
			}
			writeJSON(w, http.StatusOK, services.TokenResponse{
				AccessToken: "tok_1",
				User:        &models.User{ID: "u1", Username: "alice"},
			})
		})
		controller, store := newTestController(t, mux)

		sess, err := controller.Login(context.Background(), "alice", "secret")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if sess.Token != "tok_1" || sess.User == nil || sess.User.Username != "alice" {
			t.Errorf("session = %+v", sess)
		}
		if store.Session().OAuthState != models.StateAuthenticated {
			t.Errorf("OAuthState = %q", store.Session().OAuthState)
		}
	})

	t.Run("failure leaves the store untouched", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad credentials"})
		})
		controller, store := newTestController(t, mux)

		_, err := controller.Login(context.Background(), "alice", "wrong")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("error = %v, want validation", err)
		}
		if store.Session().Authenticated() {
			t.Error("failed login left a token behind")
		}
	})
}

func TestControllerAuthURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/spotify/authorize-url", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"auth_url": "https://provider/authorize?state=abc"})
	})

	t.Run("anonymous session moves to pending callback", func(t *testing.T) {
		controller, store := newTestController(t, mux)

		authURL, err := controller.AuthURL(context.Background())
		if err != nil {
			t.Fatalf("AuthURL() error = %v", err)
		}
		if authURL == "" {
			t.Error("empty authorization URL")
		}
		if store.Session().OAuthState != models.StatePendingCallback {
			t.Errorf("OAuthState = %q", store.Session().OAuthState)
		}
	})

	t.Run("authenticated session state is untouched", func(t *testing.T) {
		controller, store := newTestController(t, mux)
		store.Set("tok_1", nil, models.StateAuthenticated)

		if _, err := controller.AuthURL(context.Background()); err != nil {
			t.Fatalf("AuthURL() error = %v", err)
		}
		if store.Session().OAuthState != models.StateAuthenticated {
			t.Errorf("OAuthState = %q", store.Session().OAuthState)
		}
	})
}

func TestControllerLinkURL(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		controller, _ := newTestController(t, http.NewServeMux())

		_, err := controller.LinkURL(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("error = %v, want not authenticated", err)
		}
	})

	t.Run("tags the state parameter and moves to linking", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/spotify/link-url", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"auth_url": "https://provider/authorize?state=abc123",
				"state":    "abc123",
			})
		})
		controller, store := newTestController(t, mux)
		store.Set("tok_1", nil, models.StateAuthenticated)

		tagged, err := controller.LinkURL(context.Background())
		if err != nil {
			t.Fatalf("LinkURL() error = %v", err)
		}

		parsed, err := url.Parse(tagged)
		if err != nil {
			t.Fatal(err)
		}
		if state := parsed.Query().Get("state"); !strings.HasPrefix(state, LinkStatePrefix) {
			t.Errorf("state = %q, want linking marker", state)
		}
		if store.Session().OAuthState != models.StateLinking {
			t.Errorf("OAuthState = %q", store.Session().OAuthState)
		}
	})
}

func TestEnsureLinkState(t *testing.T) {
	tests := []struct {
		name    string
		authURL string
		state   string
	}{
		{name: "already tagged state passes through", authURL: "https://provider/a?state=link%3Aabc", state: "link:abc"},
		{name: "untagged query state gets the marker", authURL: "https://provider/a?state=abc", state: "abc"},
		{name: "state only in response body", authURL: "https://provider/a", state: "abc"},
		{name: "no state anywhere generates one", authURL: "https://provider/a", state: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagged, err := ensureLinkState(tt.authURL, tt.state)
			if err != nil {
				t.Fatalf("ensureLinkState() error = %v", err)
			}

			parsed, err := url.Parse(tagged)
			if err != nil {
				t.Fatal(err)
			}
			if state := parsed.Query().Get("state"); !strings.HasPrefix(state, LinkStatePrefix) {
				t.Errorf("state = %q, want linking marker", state)
			}
		})
	}
}

func TestHandleCallback(t *testing.T) {
	t.Run("provider error with anonymous session returns to login", func(t *testing.T) {
		controller, store := newTestController(t, http.NewServeMux())
		store.SetState(models.StatePendingCallback)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{Error: "access_denied"})

		if action != ActionReturnToLogin {
			t.Errorf("action = %q", action)
		}
		if store.Session().OAuthState != models.StateAnonymous {
			t.Errorf("OAuthState = %q", store.Session().OAuthState)
		}
	})

	t.Run("provider error keeps an authenticated session", func(t *testing.T) {
		controller, store := newTestController(t, http.NewServeMux())
		store.Set("tok_1", nil, models.StateLinking)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{Error: "access_denied"})

		if action != ActionReturnToAuthenticatedHome {
			t.Errorf("action = %q", action)
		}
		sess := store.Session()
		if sess.Token != "tok_1" || sess.OAuthState != models.StateAuthenticated {
			t.Errorf("session = %+v", sess)
		}
	})

	t.Run("error outranks token and code", func(t *testing.T) {
		controller, store := newTestController(t, http.NewServeMux())

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{
			Error: "access_denied",
			Token: "tok_1",
			Code:  "code_1",
		})

		if action != ActionReturnToLogin {
			t.Errorf("action = %q", action)
		}
		if store.Session().Authenticated() {
			t.Error("token stored despite provider error")
		}
	})

	t.Run("inline token logs in and fetches the profile", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer tok_1" {
				t.Errorf("Authorization = %q", got)
			}
			writeJSON(w, http.StatusOK, models.User{ID: "u1", Username: "alice"})
		})
		controller, store := newTestController(t, mux)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{Token: "tok_1"})

		if action != ActionGoHome {
			t.Errorf("action = %q", action)
		}
		sess := store.Session()
		if sess.Token != "tok_1" || sess.User == nil || sess.User.Username != "alice" {
			t.Errorf("session = %+v", sess)
		}
	})

	t.Run("inline token survives a failed profile fetch", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		})
		controller, store := newTestController(t, mux)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{Token: "tok_1"})

		if action != ActionGoHome {
			t.Errorf("action = %q", action)
		}
		if store.Session().Token != "tok_1" {
			t.Error("token lost on failed profile fetch")
		}
	})

	t.Run("token outranks code", func(t *testing.T) {
		exchanged := false
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, models.User{ID: "u1"})
		})
		mux.HandleFunc("/api/auth/spotify/callback", func(w http.ResponseWriter, r *http.Request) {
			exchanged = true
			w.WriteHeader(http.StatusOK)
		})
		controller, store := newTestController(t, mux)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{Token: "tok_1", Code: "code_1"})

		if action != ActionGoHome {
			t.Errorf("action = %q", action)
		}
		if store.Session().Token != "tok_1" {
			t.Error("token branch not taken")
		}
		if exchanged {
			t.Error("code exchange ran despite inline token")
		}
	})

	t.Run("link-tagged code exchanges through the link endpoint", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/spotify/link", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["code"] != "code_1" {
				t.Errorf("code = %q", body["code"])
			}
			writeJSON(w, http.StatusOK, services.TokenResponse{
				AccessToken: "tok_2",
				User:        &models.User{ID: "u1", SpotifyConnected: true},
			})
		})
		controller, store := newTestController(t, mux)
		store.Set("tok_1", nil, models.StateLinking)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{
			Code:  "code_1",
			State: "link:abc",
		})

		if action != ActionGoHome {
			t.Errorf("action = %q", action)
		}
		sess := store.Session()
		if sess.Token != "tok_2" {
			t.Errorf("Token = %q, want refreshed token", sess.Token)
		}
		if sess.User == nil || !sess.User.SpotifyConnected {
			t.Errorf("User = %+v", sess.User)
		}
	})

	t.Run("link exchange without a fresh token keeps the current one", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/spotify/link", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, services.TokenResponse{})
		})
		controller, store := newTestController(t, mux)
		store.Set("tok_1", nil, models.StateLinking)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{
			Code:  "code_1",
			State: "link:abc",
		})

		if action != ActionGoHome {
			t.Errorf("action = %q", action)
		}
		sess := store.Session()
		if sess.Token != "tok_1" || sess.OAuthState != models.StateAuthenticated {
			t.Errorf("session = %+v", sess)
		}
	})

	t.Run("failed link never regresses an authenticated session", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/spotify/link", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "provider down"})
		})
		controller, store := newTestController(t, mux)
		store.Set("tok_1", &models.User{ID: "u1"}, models.StateLinking)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{
			Code:  "code_1",
			State: "link:abc",
		})

		if action != ActionLinkFailed {
			t.Errorf("action = %q", action)
		}
		sess := store.Session()
		if sess.Token != "tok_1" || sess.User == nil {
			t.Errorf("authenticated session regressed: %+v", sess)
		}
		if sess.OAuthState != models.StateLinkError {
			t.Errorf("OAuthState = %q", sess.OAuthState)
		}
	})

	t.Run("bare code falls back to the server-side exchange", func(t *testing.T) {
		exchanged := false
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/spotify/callback", func(w http.ResponseWriter, r *http.Request) {
			exchanged = true
			if got := r.URL.Query().Get("code"); got != "code_1" {
				t.Errorf("code = %q", got)
			}
			w.WriteHeader(http.StatusOK)
		})
		controller, _ := newTestController(t, mux)

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{Code: "code_1"})

		if action != ActionGoHome {
			t.Errorf("action = %q", action)
		}
		if !exchanged {
			t.Error("fallback exchange never ran")
		}
	})

	t.Run("bare code exchange failure is still home", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/spotify/callback", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		})
		controller, _ := newTestController(t, mux)

		if action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{Code: "code_1"}); action != ActionGoHome {
			t.Errorf("action = %q", action)
		}
	})

	t.Run("empty payload returns to login", func(t *testing.T) {
		controller, _ := newTestController(t, http.NewServeMux())

		if action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{}); action != ActionReturnToLogin {
			t.Errorf("action = %q", action)
		}
	})

	t.Run("panic during dispatch resolves to login", func(t *testing.T) {
		controller := NewController(NewStore(nil), nil, shared.NewLogger(io.Discard))

		action := controller.HandleCallback(context.Background(), models.OAuthCallbackPayload{
			Code:  "code_1",
			State: "link:abc",
		})

		if action != ActionReturnToLogin {
			t.Errorf("action = %q, want recovery outcome", action)
		}
	})
}

func TestControllerDisconnect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/spotify/disconnect", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.User{ID: "u1", SpotifyConnected: false})
	})
	controller, store := newTestController(t, mux)
	store.Set("tok_1", &models.User{ID: "u1", SpotifyConnected: true}, models.StateAuthenticated)

	if err := controller.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}

	if store.Session().User.SpotifyConnected {
		t.Error("stale connected flag survived the unlink")
	}
}
