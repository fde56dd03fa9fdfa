package ports

import (
	"context"
	"time"
)

// Renderer turns a named fragment template and its model into HTML.
type Renderer interface {
	Render(name string, data any) (string, error)
}

// SubmitGuard reports whether a form submission is the first one seen for
// key within the guard window.
type SubmitGuard interface {
	FirstSubmit(ctx context.Context, key string) (bool, error)
}

// Clock abstracts timers so refresh and toast expiry are testable.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	NewTicker(d time.Duration) Ticker
}

type Timer interface {
	Stop() bool
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}
