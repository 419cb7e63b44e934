// Package sequence owns identifier allocation. The backing store cannot
// enforce uniqueness, so every queue and proof ID is handed out by a single
// in-process allocator seeded from the store's current maximum at startup.
package sequence

import "sync"

// Allocator hands out strictly increasing identifiers per collection. A
// value is never reused for the process lifetime, even if the row it was
// allocated for was never written.
type Allocator struct {
	mu   sync.Mutex
	next map[string]int64
}

func NewAllocator() *Allocator {
	return &Allocator{next: make(map[string]int64)}
}

// Seed raises the floor for a collection to max+1. Seeding below the
// current floor is a no-op, so repeated seeding cannot move allocation
// backwards.
func (a *Allocator) Seed(collection string, max int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.next[collection] < max+1 {
		a.next[collection] = max + 1
	}
}

// Next returns the next identifier for a collection.
func (a *Allocator) Next(collection string) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.next[collection] == 0 {
		a.next[collection] = 1
	}
	id := a.next[collection]
	a.next[collection]++
	return id
}
