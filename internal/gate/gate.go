// Package gate decides who holds reviewer privileges: a static allow-list
// from configuration plus identities elevated at runtime by presenting the
// shared PIN. Elevation is process-lifetime by design; a restart clears it.
package gate

import (
	"crypto/subtle"
	"sync"
)

// Gate is an injected instance rather than module-level state so its
// lifetime is explicit and tests can build isolated gates.
type Gate struct {
	mu       sync.RWMutex
	allow    map[int64]struct{}
	elevated map[int64]struct{}
	secret   string
}

func New(allowlist []int64, secret string) *Gate {
	allow := make(map[int64]struct{}, len(allowlist))
	for _, id := range allowlist {
		allow[id] = struct{}{}
	}
	return &Gate{
		allow:    allow,
		elevated: make(map[int64]struct{}),
		secret:   secret,
	}
}

// IsPrivileged reports whether id is allow-listed or elevated.
func (g *Gate) IsPrivileged(id int64) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if _, ok := g.allow[id]; ok {
		return true
	}
	_, ok := g.elevated[id]
	return ok
}

// Elevate grants reviewer privileges when the presented secret matches.
// The result never distinguishes a wrong secret from a repeat grant.
func (g *Gate) Elevate(id int64, presented string) bool {
	if g.secret == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(g.secret)) != 1 {
		return false
	}
	g.mu.Lock()
	g.elevated[id] = struct{}{}
	g.mu.Unlock()
	return true
}

// Privileged returns a snapshot of every currently privileged identity,
// allow-listed and elevated combined.
func (g *Gate) Privileged() []int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]int64, 0, len(g.allow)+len(g.elevated))
	for id := range g.allow {
		ids = append(ids, id)
	}
	for id := range g.elevated {
		if _, ok := g.allow[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}
