// Package theme holds the light/dark display preference and notifies
// subscribers when it changes.
package theme

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/observability/metrics"
)

// Mode is a display mode.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Valid reports whether m is light or dark.
func (m Mode) Valid() bool {
	return m == Light || m == Dark
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// ParseMode normalizes s and checks it. Failures are *entity.ValidationError on "mode".
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", &entity.ValidationError{Field: "mode", Message: "mode must be light or dark"}
	}
	return m, nil
}

// Preference is a mode and when it was chosen.
type Preference struct {
	Mode      Mode
	UpdatedAt time.Time
}

// Persister stores the preference across restarts.
type Persister interface {
	// Load returns the stored preference. ok is false when nothing has been stored yet.
	Load() (pref Preference, ok bool, err error)
	Save(pref Preference) error
}

// subscriberBuffer is the channel capacity of each subscriber.
const subscriberBuffer = 8

// Store holds the current mode. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	mode      Mode
	updatedAt time.Time
	persister Persister
	logger    *slog.Logger

	subMu       sync.RWMutex
	subscribers map[chan Mode]struct{}
	closed      bool
}

// NewStore creates a Store. The initial mode is read from p when it holds one,
// otherwise def is used. p may be nil. A read failure is logged and def is used.
func NewStore(def Mode, p Persister, logger *slog.Logger) (*Store, error) {
	if !def.Valid() {
		return nil, fmt.Errorf("invalid default theme %q", def)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		mode:        def,
		updatedAt:   time.Now(),
		persister:   p,
		logger:      logger,
		subscribers: make(map[chan Mode]struct{}),
	}

	if p != nil {
		stored, ok, err := p.Load()
		switch {
		case err != nil:
			logger.Warn("failed to load theme preference, using default",
				slog.String("default", string(def)),
				slog.Any("error", err))
		case ok && stored.Mode.Valid():
			s.mode = stored.Mode
			if !stored.UpdatedAt.IsZero() {
				s.updatedAt = stored.UpdatedAt
			}
		}
	}
	return s, nil
}

// Get returns the current mode.
func (s *Store) Get() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// UpdatedAt returns when the mode last changed.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Set changes the mode. Setting the current mode is a no-op and notifies nobody.
func (s *Store) Set(m Mode) error {
	if !m.Valid() {
		return &entity.ValidationError{Field: "mode", Message: "mode must be light or dark"}
	}

	s.mu.Lock()
	if s.mode == m {
		s.mu.Unlock()
		return nil
	}
	s.apply(m)
	s.notify(m)
	s.mu.Unlock()
	return nil
}

// Toggle flips the mode and returns the new one.
func (s *Store) Toggle() Mode {
	s.mu.Lock()
	m := s.mode.Opposite()
	s.apply(m)
	s.notify(m)
	s.mu.Unlock()
	return m
}

// apply must be called with s.mu held.
func (s *Store) apply(m Mode) {
	s.mode = m
	s.updatedAt = time.Now()
	metrics.RecordThemeChange(string(m))

	if s.persister == nil {
		return
	}
	if err := s.persister.Save(Preference{Mode: m, UpdatedAt: s.updatedAt}); err != nil {
		s.logger.Warn("failed to persist theme preference",
			slog.String("mode", string(m)),
			slog.Any("error", err))
	}
}

// Subscribe returns a channel that receives every subsequent mode change.
// Updates are dropped for a subscriber whose buffer is full. Callers must
// call Unsubscribe when done. After Close the returned channel is closed.
func (s *Store) Subscribe() <-chan Mode {
	ch := make(chan Mode, subscriberBuffer)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers[ch] = struct{}{}
	metrics.ThemeSubscribers.Inc()
	return ch
}

// Unsubscribe removes a subscription and closes its channel. Unknown channels are ignored.
func (s *Store) Unsubscribe(ch <-chan Mode) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for sub := range s.subscribers {
		if sub == ch {
			delete(s.subscribers, sub)
			close(sub)
			metrics.ThemeSubscribers.Dec()
			return
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Store) Subscribers() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subscribers)
}

// Close closes every subscriber channel. Later subscriptions are closed immediately.
func (s *Store) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.closed = true
	for sub := range s.subscribers {
		delete(s.subscribers, sub)
		close(sub)
		metrics.ThemeSubscribers.Dec()
	}
}

// notify must be called with s.mu held so subscribers see changes in order.
func (s *Store) notify(m Mode) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- m:
		default:
		}
	}
}
