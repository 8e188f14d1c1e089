// Package flight provides a keyed try-lock: at most one in-flight call per
// entity for a given transition. A second caller is rejected immediately
// rather than queued or deduplicated, matching the disabled-button contract.
package flight

import (
	"errors"
	"sync"
)

var ErrInFlight = errors.New("operation already in progress")

type Group struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGroup() *Group {
	return &Group{active: make(map[string]struct{})}
}

// Begin claims key. The returned release func must be called exactly once
// when the operation finishes; a second Begin for the same key before release
// fails with ErrInFlight. Different keys never block each other.
func (g *Group) Begin(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return nil, ErrInFlight
	}
	g.active[key] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, key)
			g.mu.Unlock()
		})
	}
	return release, nil
}

// InFlight reports whether key is currently claimed.
func (g *Group) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.active[key]
	return busy
}
