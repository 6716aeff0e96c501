package core

// sweeper.go expires idle sessions in the background.
//
// Sessions live only in memory. A session untouched for longer than the
// configured TTL is removed; the sweeper logs what it removed but never fails
// the application.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is used when StartSessionSweeper gets a non-positive interval.
const DefaultSweepInterval = 5 * time.Minute

// StartSessionSweeper removes expired sessions every interval until ctx is
// cancelled. It runs once immediately, then on each tick.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("session sweeper started",
		"interval", interval.String(),
		"ttl", s.cfg.SessionTTL.String(),
	)

	s.runSweep()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep()
		}
	}
}

func (s *Service) runSweep() {
	start := time.Now()
	removed := s.SweepExpired(s.now())
	if removed > 0 {
		slog.Info("expired sessions removed",
			"sessions_removed", removed,
			"sessions_remaining", s.SessionCount(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// SweepExpired removes sessions not accessed since now minus the TTL and
// returns how many were removed.
func (s *Service) SweepExpired(now time.Time) int {
	cutoff := now.Add(-s.cfg.SessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastAccess.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
