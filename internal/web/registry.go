// Package web is the HTTP edge of the portal: it maps browser clients to
// their controllers and exposes controller operations as JSON endpoints.
package web

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayursutra/clinic/internal/pkg/metrics"
	"github.com/ayursutra/clinic/internal/portal"
)

const minSweepInterval = time.Second

// Factory builds the controller of a new client.
type Factory func(clientID string) *portal.Controller

type entry struct {
	ctrl     *portal.Controller
	lastSeen time.Time
}

// Registry holds one controller per browser client. Controllers not
// accessed for longer than the idle window are closed by Sweep.
type Registry struct {
	factory Factory
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the controller of clientID, if it still exists, and marks it
// as used.
func (r *Registry) Get(clientID string) (*portal.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[clientID]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.ctrl, true
}

// GetOrCreate returns the controller of clientID, building it on first use.
func (r *Registry) GetOrCreate(clientID string) *portal.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[clientID]; ok {
		e.lastSeen = r.now()
		return e.ctrl
	}
	e := &entry{ctrl: r.factory(clientID), lastSeen: r.now()}
	r.entries[clientID] = e
	metrics.SessionsActive.Inc()
	return e.ctrl
}

// Remove closes and forgets the controller of clientID.
func (r *Registry) Remove(clientID string) {
	r.mu.Lock()
	e, ok := r.entries[clientID]
	delete(r.entries, clientID)
	r.mu.Unlock()

	if ok {
		closeEntries(e)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes every controller idle for longer than idle and reports how
// many were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*entry
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	closeEntries(stale...)
	return len(stale)
}

// Run sweeps idle controllers until ctx is done.
func (r *Registry) Run(ctx context.Context, idle time.Duration, log zerolog.Logger) {
	interval := idle / 4
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				log.Info().Int("evicted", n).Int("active", r.Len()).Msg("idle sessions closed")
			}
		}
	}
}

// Close stops every controller. Used on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	closeEntries(all...)
}

func closeEntries(entries ...*entry) {
	for _, e := range entries {
		e.ctrl.Close()
		metrics.SessionsActive.Dec()
	}
}
