package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/infrastructure/render"
)

// ── clock ────────────────────────────────────────────────────────────────────

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) AfterFunc(d time.Duration, fn func()) ports.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{at: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeClock) NewTicker(time.Duration) ports.Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time, 1)}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves time forward and fires due timers.
func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	var due []*fakeTimer
	for _, t := range f.timers {
		if t.claim(f.now) {
			due = append(due, t)
		}
	}
	f.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func (f *fakeClock) liveTickers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

func (f *fakeClock) lastTicker() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tickers) == 0 {
		return nil
	}
	return f.tickers[len(f.tickers)-1]
}

type fakeTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *fakeTicker) tick() { t.c <- time.Now() }

type fakeTimer struct {
	mu      sync.Mutex
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (t *fakeTimer) claim(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired || now.Before(t.at) {
		return false
	}
	t.fired = true
	return true
}

// ── clinic API ───────────────────────────────────────────────────────────────

type fakeCollection[T any] struct {
	mu    sync.Mutex
	recs  []T
	idOf  func(T) string
	setID func(*T, string)
	seq   int

	listErr      error
	getErr       error
	createErr    error
	updateErr    error
	deleteErr    error
	deleteResult *domain.Result

	lists, creates, updates, deletes int

	// when set, List signals started and then waits for release
	started chan struct{}
	release chan struct{}
}

func (f *fakeCollection[T]) List(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	f.lists++
	started, release := f.started, f.release
	f.mu.Unlock()

	if release != nil {
		started <- struct{}{}
		<-release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]T, len(f.recs))
	copy(out, f.recs)
	return out, nil
}

func (f *fakeCollection[T]) Get(_ context.Context, id string) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, r := range f.recs {
		if f.idOf(r) == id {
			out := r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: API error: Not Found", domain.ErrTransport)
}

func (f *fakeCollection[T]) Create(_ context.Context, fields any) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	var rec T
	if err := remarshal(fields, &rec); err != nil {
		return nil, err
	}
	f.seq++
	f.setID(&rec, fmt.Sprintf("new-%d", f.seq))
	f.recs = append(f.recs, rec)
	return &rec, nil
}

func (f *fakeCollection[T]) Update(_ context.Context, id string, fields any) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i, r := range f.recs {
		if f.idOf(r) != id {
			continue
		}
		if err := remarshal(fields, &f.recs[i]); err != nil {
			return nil, err
		}
		out := f.recs[i]
		return &out, nil
	}
	return nil, fmt.Errorf("%w: API error: Not Found", domain.ErrTransport)
}

func (f *fakeCollection[T]) Delete(_ context.Context, id string) (domain.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return domain.Result{}, f.deleteErr
	}
	if f.deleteResult != nil {
		return *f.deleteResult, nil
	}
	for i, r := range f.recs {
		if f.idOf(r) == id {
			f.recs = append(f.recs[:i], f.recs[i+1:]...)
			return domain.Result{Success: true}, nil
		}
	}
	return domain.Result{Error: "not found"}, nil
}

func (f *fakeCollection[T]) counts() (lists, creates, updates, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists, f.creates, f.updates, f.deletes
}

func (f *fakeCollection[T]) set(recs ...T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = recs
}

func (f *fakeCollection[T]) last() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recs[len(f.recs)-1]
}

// gate makes the next List calls block until the returned func is called.
func (f *fakeCollection[T]) gate() (started <-chan struct{}, release func()) {
	s, r := make(chan struct{}, 4), make(chan struct{})
	f.mu.Lock()
	f.started, f.release = s, r
	f.mu.Unlock()
	return s, func() {
		f.mu.Lock()
		f.started, f.release = nil, nil
		f.mu.Unlock()
		close(r)
	}
}

func remarshal(in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

type fakeAPI struct {
	patients      *fakeCollection[domain.Patient]
	therapies     *fakeCollection[domain.Therapy]
	notifications *fakeCollection[domain.Notification]

	mu          sync.Mutex
	emails      []domain.Email
	emailResult domain.Result
	emailErr    error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		patients: &fakeCollection[domain.Patient]{
			idOf:  func(p domain.Patient) string { return p.ID },
			setID: func(p *domain.Patient, id string) { p.ID = id },
		},
		therapies: &fakeCollection[domain.Therapy]{
			idOf:  func(t domain.Therapy) string { return t.ID },
			setID: func(t *domain.Therapy, id string) { t.ID = id },
		},
		notifications: &fakeCollection[domain.Notification]{
			idOf:  func(n domain.Notification) string { return n.ID },
			setID: func(n *domain.Notification, id string) { n.ID = id },
		},
		emailResult: domain.Result{Success: true},
	}
}

func (a *fakeAPI) Patients() ports.Collection[domain.Patient]           { return a.patients }
func (a *fakeAPI) Therapies() ports.Collection[domain.Therapy]          { return a.therapies }
func (a *fakeAPI) Notifications() ports.Collection[domain.Notification] { return a.notifications }

func (a *fakeAPI) SendEmail(_ context.Context, email domain.Email) (domain.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.emailErr != nil {
		return domain.Result{}, a.emailErr
	}
	a.emails = append(a.emails, email)
	return a.emailResult, nil
}

func (a *fakeAPI) sent() []domain.Email {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Email(nil), a.emails...)
}

// ── submit guard ─────────────────────────────────────────────────────────────

type memoryGuard struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func (g *memoryGuard) FirstSubmit(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return false, g.err
	}
	if g.seen == nil {
		g.seen = make(map[string]bool)
	}
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type harness struct {
	c     *Controller
	api   *fakeAPI
	clock *fakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := newFakeAPI()
	clock := newFakeClock()
	c := NewController(api, render.MustNew(), clock, nil, Options{
		RefreshInterval: 30 * time.Second,
		ToastTTL:        3 * time.Second,
	}, zerolog.Nop())
	t.Cleanup(c.Close)
	return &harness{c: c, api: api, clock: clock}
}

func progress(v int) *int { return &v }

func seedPatients(h *harness) {
	next := h.clock.Now().Add(48 * time.Hour)
	h.api.patients.set(
		domain.Patient{ID: "a1", PatientID: "P001", Name: "Rajesh Kumar", Age: 45, Dosha: "Vata", Progress: progress(80), Email: "rajesh.kumar@email.com", NextAppointment: &next},
		domain.Patient{ID: "a2", PatientID: "P002", Name: "Priya Sharma", Age: 32, Dosha: "Pitta", Progress: progress(30), Email: "priya.sharma@email.com"},
	)
}

func (h *harness) selectRole(t *testing.T, role domain.Role) {
	t.Helper()
	if err := h.c.SelectRole(context.Background(), role); err != nil {
		t.Fatalf("SelectRole(%s): %v", role, err)
	}
}

func (h *harness) show(t *testing.T, v domain.View) {
	t.Helper()
	if err := h.c.ShowView(context.Background(), v); err != nil {
		t.Fatalf("ShowView(%s): %v", v, err)
	}
}

func (h *harness) panel(t *testing.T, id string) Panel {
	t.Helper()
	p, ok := h.c.Snapshot().Panel(id)
	if !ok {
		t.Fatalf("panel %q not rendered", id)
	}
	return p
}

func (h *harness) toastMessages() []string {
	var out []string
	for _, t := range h.c.Snapshot().Toasts {
		out = append(out, t.Message)
	}
	return out
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
