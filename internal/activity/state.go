// Package activity holds the process wide runtime flags of the bot, its
// uptime anchors, and random status selection.
package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"

	"github.com/edgard/botkit/internal/database"
)

// State is safe for concurrent use.
type State struct {
	clock    clockwork.Clock
	statuses StatusSource

	startedAt time.Time

	mu          sync.Mutex
	listening   bool
	rotation    bool
	connectedAt time.Time
}

// NewState creates the activity state. The process start instant is taken
// from clock at construction.
func NewState(clock clockwork.Clock, statuses StatusSource, listening, rotation bool) *State {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &State{
		clock:     clock,
		statuses:  statuses,
		startedAt: clock.Now(),
		listening: listening,
		rotation:  rotation,
	}
}

func (s *State) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

func (s *State) SetListening(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listening = v
}

// ToggleListening flips the listening flag and returns the new value.
func (s *State) ToggleListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listening = !s.listening
	return s.listening
}

func (s *State) IsRotationEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation
}

func (s *State) SetRotationEnabled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotation = v
}

// ToggleRotation flips the rotation flag and returns the new value.
func (s *State) ToggleRotation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotation = !s.rotation
	return s.rotation
}

// MarkConnected records when the platform connection opened. Only the first
// call has an effect.
func (s *State) MarkConnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connectedAt.IsZero() {
		s.connectedAt = s.clock.Now()
	}
}

// Uptime returns how long the process has been running.
func (s *State) Uptime() time.Duration {
	return s.clock.Since(s.startedAt)
}

// ConnectionUptime returns how long the platform connection has been open,
// or false before MarkConnected.
func (s *State) ConnectionUptime() (time.Duration, bool) {
	s.mu.Lock()
	connectedAt := s.connectedAt
	s.mu.Unlock()
	if connectedAt.IsZero() {
		return 0, false
	}
	return s.clock.Since(connectedAt), true
}

// RandomStatus picks one persisted status uniformly at random. It returns
// false when there are none.
func (s *State) RandomStatus(ctx context.Context) (database.BotStatus, bool, error) {
	if s.statuses == nil {
		return database.BotStatus{}, false, nil
	}
	all, err := s.statuses.Get(ctx)
	if err != nil {
		return database.BotStatus{}, false, fmt.Errorf("failed to load bot statuses: %w", err)
	}
	if len(all) == 0 {
		return database.BotStatus{}, false, nil
	}
	return lo.Shuffle(all)[0], true, nil
}
