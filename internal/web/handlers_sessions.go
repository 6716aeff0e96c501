package web

import (
	"math"
	"net/http"

	"github.com/JonMunkholm/csv3d/internal/core"
	"github.com/JonMunkholm/csv3d/internal/logging"
	"github.com/JonMunkholm/csv3d/internal/web/templates"
)

const (
	defaultRowLimit = 100
	maxRowLimit     = 1000

	// pagePreviewRows is how many rows the session page shows.
	pagePreviewRows = 20
)

// rowsResponse is one window of a session's rows.
type rowsResponse struct {
	Rows   []core.RowObject `json:"rows"`
	Total  int              `json:"total"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}

// handleCreateSession parses an uploaded file into a new session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer cleanup()

	sess, err := s.service.CreateSession(r.Context(), up)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/sessions/"+sess.ID)
	writeJSON(w, r, http.StatusCreated, sess.View())
}

// handleGetSession returns the session summary.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	sess, err := s.service.Session(id)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.View())
}

// handleDeleteSession discards a session and its dataset.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	if err := s.service.DeleteSession(id); err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReplaceDataset replaces the session's dataset with a new upload.
// The mapping is suggested afresh; viewer settings are kept.
func (s *Server) handleReplaceDataset(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)

	up, cleanup, err := s.readUpload(w, r)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	defer cleanup()

	sess, err := s.service.ReplaceDataset(ctx, id, up)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}

	logging.FromContext(ctx).Info("dataset replaced",
		"file", sess.FileName,
		"rows", sess.Dataset.RowCount,
		"version", sess.Version,
	)
	writeJSON(w, r, http.StatusOK, sess.View())
}

// handleRows returns a window of rows: ?offset=0&limit=100.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	offset := parseIntParam(r, "offset", 0, 0, math.MaxInt32)
	limit := parseIntParam(r, "limit", defaultRowLimit, 1, maxRowLimit)

	rows, total, err := s.service.Rows(id, offset, limit)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, r, http.StatusOK, rowsResponse{Rows: rows, Total: total, Offset: offset, Limit: limit})
}

// handleSessionPage renders the HTML summary of a session.
func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	sess, err := s.service.Session(id)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	rows, _, err := s.service.Rows(id, 0, pagePreviewRows)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.SessionPage(sess.View(), rows).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render session page", "error", err)
	}
}
