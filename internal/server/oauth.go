package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/moodtune/moodtune/internal/models"
)

// CallbackHandler captures one provider redirect on the local loopback
// server and hands its query parameters to the session controller.
//
// The handler never interprets the parameters itself: branch priority lives
// in the callback dispatcher, so even an error redirect is delivered as a
// payload rather than rejected here.
type CallbackHandler struct {
	resultChan  chan models.OAuthCallbackPayload
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a handler for a single OAuth redirect.
func NewCallbackHandler() *CallbackHandler {
	return &CallbackHandler{
		resultChan: make(chan models.OAuthCallbackPayload, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP parses the redirect query into an [models.OAuthCallbackPayload]
// and responds with a static page telling the user to return to the
// terminal.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()
	payload := models.OAuthCallbackPayload{
		Token: query.Get("token"),
		Code:  query.Get("code"),
		State: query.Get("state"),
		Error: query.Get("error"),
	}

	h.Send(payload)

	heading, detail := "✓ Authorization Complete", "You can close this window and return to the terminal."
	if payload.Error != "" {
		heading, detail = "Authorization Cancelled", "You can close this window. The terminal has the details."
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>moodtune</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #14b8a6; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`, heading, detail)
}

// Send delivers the payload through the channel (only once).
func (h *CallbackHandler) Send(payload models.OAuthCallbackPayload) {
	h.once.Do(func() {
		h.resultChan <- payload
		close(h.resultChan)
	})
}

// Result returns the channel that receives exactly one payload before
// closing.
func (h *CallbackHandler) Result() <-chan models.OAuthCallbackPayload {
	return h.resultChan
}
