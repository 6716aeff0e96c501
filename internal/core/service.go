package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ServiceConfig tunes a Service. Zero values fall back to the defaults noted.
type ServiceConfig struct {
	MaxFileSize         int64         // Upload size limit (default: 50 MiB)
	MaxConcurrentParses int           // Parses running at once (default: 4)
	MaxWaitTime         time.Duration // Wait for a parse slot (default: 30s)
	ParseTimeout        time.Duration // Upper bound for one parse (default: 2m)
	SessionTTL          time.Duration // Idle time before a session expires (default: 2h)
	MaxSessions         int           // Live sessions (default: 1000)
	Viewer              ViewerSettings
}

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = MaxFileSize
	}
	if c.ParseTimeout <= 0 {
		c.ParseTimeout = 2 * time.Minute
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 2 * time.Hour
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = 1000
	}
	if c.Viewer.NormalizeRange <= 0 {
		c.Viewer = DefaultViewerSettings()
	}
	return c
}

// FileUpload is one file handed to the service.
type FileUpload struct {
	Meta        FileMeta
	Body        io.Reader
	TextColumns []string // Columns to keep as text, see ParseOptions.TextColumns
}

// Service owns the workflow sessions. It is the only holder of mutable state;
// everything it computes goes through the package's pure functions.
type Service struct {
	cfg     ServiceConfig
	limiter *ParseLimiter
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a new Service instance.
func NewService(cfg ServiceConfig) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		cfg:      cfg,
		limiter:  NewParseLimiter(cfg.MaxConcurrentParses, cfg.MaxWaitTime),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Config returns the effective configuration.
func (s *Service) Config() ServiceConfig { return s.cfg }

// ValidateFile checks file metadata against the configured size limit.
func (s *Service) ValidateFile(meta FileMeta) error {
	return ValidateFileLimit(meta, s.cfg.MaxFileSize)
}

// CreateSession validates and parses an upload and stores it in a new session.
// The mapping starts as SuggestMapping of the dataset.
func (s *Service) CreateSession(ctx context.Context, up FileUpload) (Session, error) {
	s.mu.RLock()
	full := len(s.sessions) >= s.cfg.MaxSessions
	s.mu.RUnlock()
	if full {
		return Session{}, ErrTooManySessions
	}

	ds, err := s.parseUpload(ctx, up)
	if err != nil {
		return Session{}, err
	}

	now := s.now()
	sess := &Session{
		ID:         uuid.New().String(),
		FileName:   up.Meta.Name,
		FileSize:   up.Meta.Size,
		Dataset:    ds,
		Mapping:    SuggestMapping(ds),
		Viewer:     s.cfg.Viewer,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
		LastAccess: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		return Session{}, ErrTooManySessions
	}
	s.sessions[sess.ID] = sess

	slog.Info("session created",
		"session_id", sess.ID,
		"ip", ClientIPFromContext(ctx),
		"file", sess.FileName,
		"rows", ds.RowCount,
		"columns", len(ds.Columns),
	)
	return *sess, nil
}

// ReplaceDataset parses a new upload into an existing session. The old dataset
// is discarded entirely and the mapping is suggested afresh; viewer settings
// are kept.
func (s *Service) ReplaceDataset(ctx context.Context, id string, up FileUpload) (Session, error) {
	if _, err := s.Session(id); err != nil {
		return Session{}, err
	}

	ds, err := s.parseUpload(ctx, up)
	if err != nil {
		return Session{}, err
	}

	return s.update(id, func(sess *Session) error {
		sess.FileName = up.Meta.Name
		sess.FileSize = up.Meta.Size
		sess.Dataset = ds
		sess.Mapping = SuggestMapping(ds)
		return nil
	})
}

// parseUpload runs validation and parsing under a parse slot and timeout.
func (s *Service) parseUpload(ctx context.Context, up FileUpload) (*Dataset, error) {
	if up.Body == nil {
		return nil, fmt.Errorf("no file provided")
	}
	if err := s.ValidateFile(up.Meta); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ParseTimeout)
	defer cancel()

	opts := DefaultParseOptions()
	opts.TextColumns = up.TextColumns
	opts.TotalSize = up.Meta.Size

	start := time.Now()
	ds, err := Parse(ctx, NewSizeLimitReader(up.Body, s.cfg.MaxFileSize), opts)
	if err != nil {
		slog.Warn("parse failed",
			"session_id", SessionIDFromContext(ctx),
			"ip", ClientIPFromContext(ctx),
			"file", up.Meta.Name,
			"error", err,
		)
		return nil, err
	}
	slog.Debug("upload parsed",
		"file", up.Meta.Name,
		"rows", ds.RowCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// Session returns a copy of the session with the given ID.
func (s *Service) Session(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return *sess, nil
}

// touch records an access and returns a copy of the session.
func (s *Service) touch(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.LastAccess = s.now()
	return *sess, nil
}

// update applies fn to the session under the write lock, bumping its version
// on success. fn must replace fields rather than mutate shared values.
func (s *Service) update(id string, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	next := *sess
	if err := fn(&next); err != nil {
		return Session{}, err
	}
	next.Version++
	next.UpdatedAt = s.now()
	next.LastAccess = next.UpdatedAt
	*sess = next
	return next, nil
}

// SetAxis assigns column to one axis role. An empty column clears the role.
// Distinctness is checked when viewing, so users can swap axes one at a time.
func (s *Service) SetAxis(id string, axis Axis, column string) (Session, error) {
	if _, ok := ParseAxis(string(axis)); !ok {
		return Session{}, &ValidationError{Field: "axis", Value: string(axis), Message: fmt.Sprintf("Unknown axis %q", axis)}
	}
	return s.update(id, func(sess *Session) error {
		if column != "" && sess.Dataset.ColumnIndex(column) < 0 {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
		}
		sess.Mapping = sess.Mapping.With(axis, column)
		return nil
	})
}

// SetMapping replaces the whole mapping. Every set column must exist.
func (s *Service) SetMapping(id string, m AxisMapping) (Session, error) {
	return s.update(id, func(sess *Session) error {
		for _, col := range []string{m.X, m.Y, m.Z, m.Color} {
			if col != "" && sess.Dataset.ColumnIndex(col) < 0 {
				return fmt.Errorf("%w: %q", ErrColumnNotFound, col)
			}
		}
		sess.Mapping = m
		return nil
	})
}

// ResetMapping clears every axis role.
func (s *Service) ResetMapping(id string) (Session, error) {
	return s.update(id, func(sess *Session) error {
		sess.Mapping = AxisMapping{}
		return nil
	})
}

// UpdateViewer replaces the viewer settings after validating them.
func (s *Service) UpdateViewer(id string, v ViewerSettings) (Session, error) {
	if v.ColorScheme == "" {
		v.ColorScheme = SchemeDefault
	}
	if err := v.Validate(); err != nil {
		return Session{}, err
	}
	v.CustomColors = append([]string(nil), v.CustomColors...)
	return s.update(id, func(sess *Session) error {
		sess.Viewer = v
		return nil
	})
}

// View computes the plot for the session's current dataset, mapping and
// viewer settings. The result records the session version it was computed
// from, so callers can discard results older than one they already hold.
func (s *Service) View(id string) (*ViewResult, error) {
	sess, err := s.touch(id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := computeView(sess)
	if err != nil {
		return nil, err
	}
	slog.Debug("view computed",
		"session_id", id,
		"version", res.Version,
		"points", len(res.Points),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// ColumnStats summarizes the numeric values of one column.
func (s *Service) ColumnStats(id, column string) (DataStatistics, error) {
	sess, err := s.Session(id)
	if err != nil {
		return DataStatistics{}, err
	}
	values, ok := ColumnValues(sess.Dataset, column)
	if !ok {
		return DataStatistics{}, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return SummaryStatistics(values), nil
}

// Rows returns a window of the session's rows and the total row count.
func (s *Service) Rows(id string, offset, limit int) ([]RowObject, int, error) {
	sess, err := s.Session(id)
	if err != nil {
		return nil, 0, err
	}
	return sess.Dataset.RowObjects(offset, limit), sess.Dataset.RowCount, nil
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	slog.Info("session deleted", "session_id", id)
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ServiceStatus is a monitoring snapshot.
type ServiceStatus struct {
	Sessions    int                `json:"sessions"`
	MaxSessions int                `json:"maxSessions"`
	Parses      ParseLimiterStatus `json:"parses"`
}

// Status returns session and parse slot usage.
func (s *Service) Status() ServiceStatus {
	return ServiceStatus{
		Sessions:    s.SessionCount(),
		MaxSessions: s.cfg.MaxSessions,
		Parses:      s.limiter.Status(),
	}
}

// WaitForParses blocks until in-flight parses finish or ctx is done.
func (s *Service) WaitForParses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
