package portal

import (
	"time"

	"github.com/ayursutra/clinic/internal/core/ports"
)

type systemClock struct{}

// SystemClock is the wall clock used outside tests.
func SystemClock() ports.Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) NewTicker(d time.Duration) ports.Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
