// internal/beacon/selector.go
package beacon

import (
	"errors"
	"sync"
)

// ErrInvalidCount indicates a selector needs a positive message count.
var ErrInvalidCount = errors.New("message count must be positive")

// Normalize maps an unbounded requested-message counter onto a valid
// rotation index in [0, count). The modulo is Euclidean, so a negative
// counter, should a caller ever produce one, still lands in range.
func Normalize(requested, count int) int {
	r := requested % count
	if r < 0 {
		r += count
	}
	return r
}

// Selector accumulates message-navigation requests from asynchronous
// inputs and releases at most one switch per play-through.
//
// Request handlers may run on any goroutine (signal watchers, key
// loops, button pollers); the playback goroutine calls Pending and
// Apply at message boundaries. All state sits behind one mutex so the
// boundary check-and-apply cannot interleave with a handler.
type Selector struct {
	mu        sync.Mutex
	count     int
	active    int
	requested int
	latched   bool
}

// NewSelector creates a selector over a rotation of count messages.
func NewSelector(count int) (*Selector, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	return &Selector{count: count}, nil
}

// Next requests the following message in the rotation. The first
// accepted request of a play-through wins; later requests are ignored
// until the pending switch is applied. Next reports whether the
// request was accepted.
func (s *Selector) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latched {
		return false
	}
	s.requested++
	s.latched = true
	return true
}

// Previous requests the preceding message, expressed as count-1 forward
// steps so the request counter only ever grows.
func (s *Selector) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latched {
		return false
	}
	s.requested += s.count - 1
	s.latched = true
	return true
}

// Pending reports whether a switch request is waiting for the next
// play-through boundary.
func (s *Selector) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requested != s.active
}

// Apply installs a pending switch, if one exists: the request counter
// is normalized into the rotation, becomes the active index and the
// latch reopens. Call it only when the player has just reported a
// finished play-through. Apply returns the active index and whether a
// switch was applied.
func (s *Selector) Apply() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requested == s.active {
		return s.active, false
	}
	s.active = Normalize(s.requested, s.count)
	s.requested = s.active
	s.latched = false
	return s.active, true
}

// Active returns the index of the message the rotation is on.
func (s *Selector) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Requested returns the normalized index the rotation will switch to
// at the next boundary. With nothing pending it equals Active.
func (s *Selector) Requested() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Normalize(s.requested, s.count)
}
