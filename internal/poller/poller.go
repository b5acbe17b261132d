// Package poller implements the notification settings and background
// polling service: it owns the polling timer and publishes every fetched
// automated analysis to the event bus.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PaddyGuard/paddyguard/internal/api"
	"github.com/PaddyGuard/paddyguard/internal/bus"
	"github.com/PaddyGuard/paddyguard/internal/plan"
)

// DefaultIntervalHours is used when the backend has no persisted
// settings or they cannot be loaded.
const DefaultIntervalHours = 4

// Backend is the remote surface the poller needs. *api.Client satisfies
// it.
type Backend interface {
	Settings(ctx context.Context) (api.NotificationSettings, error)
	SaveSettings(ctx context.Context, s api.NotificationSettings) error
	LatestNotification(ctx context.Context) (*plan.Notification, error)
}

// Service owns the notification settings and a single polling timer.
// Whenever polling is toggled, the interval changes or the service is
// stopped, the old timer is cancelled before any new one is created, so
// two timers never run at once.
type Service struct {
	mu       sync.Mutex
	backend  Backend
	events   *bus.EventBus
	settings api.NotificationSettings
	polling  bool

	latest *plan.Notification
	errMsg string

	cancel context.CancelFunc

	// seq numbers every fetch before its network call; completions that
	// finish out of order are dropped by comparing against done.
	seq  uint64
	done uint64

	// interval converts the configured hours into a timer period.
	// Overridden in tests to keep timers short.
	interval func(hours int) time.Duration
}

// New creates a Service publishing to events.
func New(backend Backend, events *bus.EventBus) *Service {
	return &Service{
		backend:  backend,
		events:   events,
		settings: api.NotificationSettings{Enabled: false, IntervalHours: DefaultIntervalHours},
		interval: func(hours int) time.Duration { return time.Duration(hours) * time.Hour },
	}
}

// LoadSettings fetches the persisted settings for the current identity.
// Failures are non-fatal: the service falls back to defaults and only
// logs the error.
func (s *Service) LoadSettings(ctx context.Context) api.NotificationSettings {
	loaded, err := s.backend.Settings(ctx)
	if err != nil {
		slog.Warn("Settings load failed, using defaults", "error", err)
		loaded = api.NotificationSettings{Enabled: false, IntervalHours: DefaultIntervalHours}
	}
	if loaded.IntervalHours <= 0 {
		loaded.IntervalHours = DefaultIntervalHours
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = loaded
	return loaded
}

// SaveSettings persists new settings. On success the in-memory copy is
// updated and a running timer picks up the new interval immediately; on
// failure the error propagates and the prior settings stay intact.
func (s *Service) SaveSettings(ctx context.Context, next api.NotificationSettings) error {
	if next.IntervalHours <= 0 {
		return fmt.Errorf("poller: interval must be positive, got %d", next.IntervalHours)
	}
	if err := s.backend.SaveSettings(ctx, next); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = next
	if s.polling {
		s.rescheduleLocked()
	}
	return nil
}

// Settings returns the current in-memory settings.
func (s *Service) Settings() api.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetPolling toggles the background timer. Enabling performs one
// immediate fetch and then schedules repeats; disabling cancels the
// timer.
func (s *Service) SetPolling(enabled bool) {
	s.mu.Lock()
	if s.polling == enabled {
		s.mu.Unlock()
		return
	}
	s.polling = enabled
	if !enabled {
		s.stopTimerLocked()
		s.mu.Unlock()
		slog.Info("Polling disabled")
		return
	}
	s.rescheduleLocked()
	s.mu.Unlock()

	slog.Info("Polling enabled", "intervalHours", s.Settings().IntervalHours)
	s.fetch(context.Background())
}

// Polling reports whether the timer is running.
func (s *Service) Polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polling
}

// Stop cancels the timer, e.g. on shutdown or identity change.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polling = false
	s.stopTimerLocked()
}

// rescheduleLocked cancels any running timer and, when polling is
// enabled, starts the single replacement with the current interval.
// Callers hold s.mu.
func (s *Service) rescheduleLocked() {
	s.stopTimerLocked()
	if !s.polling {
		return
	}

	period := s.interval(s.settings.IntervalHours)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.fetch(ctx)
			}
		}
	}()
}

// stopTimerLocked cancels the running timer, if any. Callers hold s.mu.
func (s *Service) stopTimerLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// fetch performs one poll. The sequence number is taken before the
// network call so a slow reply that arrives after a newer one is
// recognized as stale and dropped instead of clobbering fresher state.
func (s *Service) fetch(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	n, err := s.backend.LatestNotification(ctx)

	s.mu.Lock()
	if seq <= s.done {
		s.mu.Unlock()
		return
	}
	s.done = seq

	ev := bus.NotificationEvent{Seq: seq}
	switch {
	case err == nil:
		s.latest = n
		s.errMsg = ""
		ev.Notification = n
	case errors.Is(err, api.ErrNotFound):
		// No notification yet. Not an error.
		s.latest = nil
		s.errMsg = ""
	default:
		// Clear the stale notification so consumers never render plan
		// data from before a failed refresh next to its error message.
		s.latest = nil
		s.errMsg = err.Error()
		ev.Err = err
	}
	s.mu.Unlock()

	if err != nil && !errors.Is(err, api.ErrNotFound) {
		slog.Warn("Notification fetch failed", "seq", seq, "error", err)
	}
	if s.events != nil {
		s.events.PublishNotification(ev)
	}
}

// Latest returns the most recent successfully fetched notification, or
// nil when none exists or the last fetch failed.
func (s *Service) Latest() *plan.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Err returns the last fetch error message, or "" when the last fetch
// succeeded.
func (s *Service) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}
