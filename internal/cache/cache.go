// Package cache holds small in-process caches for rendered artifacts.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a keyed store of values that may be invalidated at any time
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	// Clear drops every entry
	Clear()
	Size() int
}

// Cleaner is implemented by caches whose entries expire
type Cleaner interface {
	CleanExpired() int
}

// Janitor periodically sweeps expired entries from registered caches
type Janitor struct {
	mu      sync.Mutex
	caches  []Cleaner
	onSweep func(removed int)
}

// NewJanitor creates a janitor. onSweep, if set, receives the number of
// entries removed by each sweep that removed anything.
func NewJanitor(onSweep func(removed int)) *Janitor {
	return &Janitor{onSweep: onSweep}
}

// Register adds a cache to the sweep list
func (j *Janitor) Register(c Cleaner) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.caches = append(j.caches, c)
}

// Sweep cleans every registered cache once and returns the removed count
func (j *Janitor) Sweep() int {
	j.mu.Lock()
	caches := append([]Cleaner(nil), j.caches...)
	j.mu.Unlock()

	removed := 0
	for _, c := range caches {
		removed += c.CleanExpired()
	}
	if removed > 0 && j.onSweep != nil {
		j.onSweep(removed)
	}
	return removed
}

// Run sweeps at every interval until ctx is cancelled
func (j *Janitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
