package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/csv3d/internal/core"
)

// withSession returns the session ID from the URL and a context carrying it
// for logging.
func withSession(r *http.Request) (string, context.Context) {
	id := chi.URLParam(r, "sessionID")
	return id, core.ContextWithSessionID(r.Context(), id)
}
