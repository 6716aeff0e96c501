// Package web provides HTTP handlers for the CSV 3D viewer.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/csv3d/internal/core"
)

const (
	// multipartMemory is how much of a multipart form is kept in memory;
	// larger files spill to temporary files.
	multipartMemory = 32 << 20

	// multipartOverhead is allowed on top of the file size limit for
	// boundaries and the other form fields.
	multipartOverhead = 1 << 20

	// maxJSONBody bounds JSON request bodies.
	maxJSONBody = 1 << 20
)

// parseIntParam parses an integer query parameter with a default value.
// Values outside [lo, hi] are clamped.
func parseIntParam(r *http.Request, name string, defaultVal, lo, hi int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// splitList splits a comma-separated form value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return badRequest("body", "Invalid JSON request body")
	}
	return nil
}

// readUpload extracts the "file" part of a multipart upload. The returned
// cleanup function closes the file and removes temporary files.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.FileUpload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return core.FileUpload{}, nil, err
		}
		return core.FileUpload{}, nil, fmt.Errorf("no file provided: %w", err)
	}
	removeForm := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		removeForm()
		return core.FileUpload{}, nil, fmt.Errorf("no file provided: %w", err)
	}

	up := core.FileUpload{
		Meta: core.FileMeta{
			Name: header.Filename,
			Size: header.Size,
			Type: header.Header.Get("Content-Type"),
		},
		Body:        file,
		TextColumns: splitList(r.FormValue("textColumns")),
	}
	return up, func() {
		file.Close()
		removeForm()
	}, nil
}

// handleValidateFile checks file metadata before the client uploads the body.
func (s *Server) handleValidateFile(w http.ResponseWriter, r *http.Request) {
	var meta core.FileMeta
	if err := decodeJSON(w, r, &meta); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, core.ResultOf(s.service.ValidateFile(meta)))
}

// handleStatus reports session and parse slot usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.Status())
}
