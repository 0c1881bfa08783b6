// Package session tracks which (channel, user) pairs have an interactive
// prompt waiting for a reply.
package session

import (
	"errors"
	"sync"
)

// ErrConcurrentOperation reports that a pending pair was removed by someone
// else, which means two waiters raced for the same (channel, user).
var ErrConcurrentOperation = errors.New("concurrent operation on pending session")

type (
	ChannelID uint64
	UserID    uint64
)

type channelEntry struct {
	mu    sync.Mutex
	users map[UserID]struct{}
	// dead is set once the entry has been emptied and is being unlinked from
	// the guard. A dead entry never accepts users again.
	dead bool
}

// Guard is a registry of pending (channel, user) pairs. Operations on
// different channels only contend on the channel map lookup.
// The zero value is not usable; use NewGuard.
type Guard struct {
	mu       sync.RWMutex
	channels map[ChannelID]*channelEntry
}

func NewGuard() *Guard {
	return &Guard{channels: make(map[ChannelID]*channelEntry)}
}

func (g *Guard) lookup(ch ChannelID) *channelEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.channels[ch]
}

func (g *Guard) entry(ch ChannelID) *channelEntry {
	if e := g.lookup(ch); e != nil {
		return e
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.channels[ch]
	if !ok {
		e = &channelEntry{users: make(map[UserID]struct{})}
		g.channels[ch] = e
	}
	return e
}

// TryBegin marks (ch, u) as pending and reports whether it was not pending
// already.
func (g *Guard) TryBegin(ch ChannelID, u UserID) bool {
	for {
		e := g.entry(ch)
		e.mu.Lock()
		if e.dead {
			// Lost a race with End unlinking this entry; the next lookup
			// sees the map without it.
			e.mu.Unlock()
			continue
		}
		_, exists := e.users[u]
		e.users[u] = struct{}{}
		e.mu.Unlock()
		return !exists
	}
}

// Begin marks (ch, u) as pending. Beginning a pair that is already pending
// leaves it pending once.
func (g *Guard) Begin(ch ChannelID, u UserID) {
	g.TryBegin(ch, u)
}

// IsPending reports whether (ch, u) has a prompt waiting for a reply.
func (g *Guard) IsPending(ch ChannelID, u UserID) bool {
	e := g.lookup(ch)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.users[u]
	return ok
}

// End clears (ch, u) and reports whether it was pending. The channel entry
// is dropped once its last user ends.
func (g *Guard) End(ch ChannelID, u UserID) bool {
	e := g.lookup(ch)
	if e == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.users[u]; !ok {
		return false
	}
	delete(e.users, u)
	if len(e.users) == 0 {
		e.dead = true
		// Lock order is always entry then map.
		g.mu.Lock()
		if g.channels[ch] == e {
			delete(g.channels, ch)
		}
		g.mu.Unlock()
	}
	return true
}

// Complete ends (ch, u) and returns ErrConcurrentOperation when it was not pending.
func (g *Guard) Complete(ch ChannelID, u UserID) error {
	if !g.End(ch, u) {
		return ErrConcurrentOperation
	}
	return nil
}

// PendingChannels returns how many channels have at least one pending user.
func (g *Guard) PendingChannels() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.channels)
}
