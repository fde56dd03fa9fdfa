package portal

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/pkg/metrics"
)

const defaultToastTTL = 3 * time.Second

// Toast kinds.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a transient message. Several may be visible at once.
type Toast struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Toasts keeps visible toasts in insertion order and expires each one
// after the configured TTL.
type Toasts struct {
	clock ports.Clock
	ttl   time.Duration

	mu     sync.Mutex
	items  []Toast
	timers map[string]ports.Timer
}

func NewToasts(clock ports.Clock, ttl time.Duration) *Toasts {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}
	return &Toasts{clock: clock, ttl: ttl, timers: make(map[string]ports.Timer)}
}

// Push shows message and returns the toast id.
func (t *Toasts) Push(kind, message string) string {
	id := uuid.NewString()

	t.mu.Lock()
	t.items = append(t.items, Toast{ID: id, Kind: kind, Message: message})
	t.timers[id] = t.clock.AfterFunc(t.ttl, func() { t.dismiss(id) })
	t.mu.Unlock()

	metrics.ToastsTotal.Inc()
	return id
}

// List returns a copy of the visible toasts.
func (t *Toasts) List() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Toast, len(t.items))
	copy(out, t.items)
	return out
}

// Clear removes every toast and stops their expiry timers.
func (t *Toasts) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, timer := range t.timers {
		timer.Stop()
	}
	t.items = nil
	t.timers = make(map[string]ports.Timer)
}

func (t *Toasts) dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.timers, id)
	for i, item := range t.items {
		if item.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}
