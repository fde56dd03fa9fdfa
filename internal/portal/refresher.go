package portal

import (
	"sync"
	"time"

	"github.com/ayursutra/clinic/internal/core/ports"
)

const defaultRefreshInterval = 30 * time.Second

// Refresher owns the single recurring dashboard job of a session.
// Start and Stop are idempotent; at most one ticker is alive at a time.
type Refresher struct {
	clock    ports.Clock
	interval time.Duration

	mu     sync.Mutex
	ticker ports.Ticker
	stop   chan struct{}
}

func NewRefresher(clock ports.Clock, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Refresher{clock: clock, interval: interval}
}

// Start stops any running ticker and schedules fn on every tick.
func (r *Refresher) Start(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	ticker := r.clock.NewTicker(r.interval)
	stop := make(chan struct{})
	r.ticker, r.stop = ticker, stop

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Stop is safe to call when nothing is running. It does not wait for an
// in-flight tick; callers drop stale renders themselves.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Refresher) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticker != nil
}

func (r *Refresher) stopLocked() {
	if r.ticker == nil {
		return
	}
	r.ticker.Stop()
	close(r.stop)
	r.ticker, r.stop = nil, nil
}
