package web

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/csv3d/internal/core"
	"github.com/JonMunkholm/csv3d/internal/logging"
)

// axisRequest is the body of PUT /mapping/{axis}. An empty column clears the axis.
type axisRequest struct {
	Column string `json:"column"`
}

// handleSetAxis assigns a column to one axis role.
func (s *Server) handleSetAxis(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	axis := core.Axis(chi.URLParam(r, "axis"))

	var req axisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sess, err := s.service.SetAxis(id, axis, req.Column)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}

	logging.FromContext(ctx).Debug("axis mapped",
		"axis", axis,
		"column", req.Column,
		"version", sess.Version,
	)
	writeJSON(w, r, http.StatusOK, sess.View())
}

// handleResetMapping clears every axis role.
func (s *Server) handleResetMapping(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	sess, err := s.service.ResetMapping(id)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.View())
}

// handleUpdateViewer replaces viewer settings. Fields missing from the body
// keep their current values.
func (s *Server) handleUpdateViewer(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	sess, err := s.service.Session(id)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}

	settings := sess.Viewer
	if err := decodeJSON(w, r, &settings); err != nil {
		respondError(w, r, err)
		return
	}

	sess, err = s.service.UpdateViewer(id, settings)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess.View())
}

// handlePoints computes the plot for the current mapping and viewer settings.
func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	res, err := s.service.View(id)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleColumnStats summarizes one column's numeric values.
func (s *Server) handleColumnStats(w http.ResponseWriter, r *http.Request) {
	id, ctx := withSession(r)
	column := chi.URLParam(r, "column")
	if unescaped, err := url.PathUnescape(column); err == nil {
		column = unescaped
	}

	st, err := s.service.ColumnStats(id, column)
	if err != nil {
		respondError(w, r.WithContext(ctx), err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}
