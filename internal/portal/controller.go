// Package portal is the per-session application controller: role and
// session state, the view router with its dashboard refresh, and the
// load-render-mutate cycle of the clinic collections.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/pkg/metrics"
)

// Options tunes the timers of a controller.
type Options struct {
	RefreshInterval time.Duration
	ToastTTL        time.Duration
}

type loader func(ctx context.Context, t ticket)

// ticket identifies the state a fetch was issued for. Results are applied
// only while both the session and the view epoch are unchanged.
type ticket struct {
	session *domain.Session
	epoch   uint64
}

// Controller drives one user's portal. All state lives behind mu; network
// calls are made without holding it.
type Controller struct {
	api      ports.ClinicAPI
	renderer ports.Renderer
	clock    ports.Clock
	guard    ports.SubmitGuard
	log      zerolog.Logger

	refresher *Refresher
	toasts    *Toasts
	prompter  *Prompter
	loaders   map[domain.View]loader

	patients      *resource[domain.Patient]
	therapies     *resource[domain.Therapy]
	notifications *resource[domain.Notification]

	// ctx outlives single requests; dashboard ticks run under it.
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  domain.State
	panels map[string]Panel
	filter patientFilter
}

// NewController wires a controller. guard may be nil.
func NewController(
	api ports.ClinicAPI,
	renderer ports.Renderer,
	clock ports.Clock,
	guard ports.SubmitGuard,
	opts Options,
	logger zerolog.Logger,
) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		api:       api,
		renderer:  renderer,
		clock:     clock,
		guard:     guard,
		log:       logger,
		refresher: NewRefresher(clock, opts.RefreshInterval),
		toasts:    NewToasts(clock, opts.ToastTTL),
		prompter:  NewPrompter(),
		ctx:       ctx,
		cancel:    cancel,
		panels:    make(map[string]Panel),
	}
	c.patients = newPatientResource()
	c.therapies = newTherapyResource()
	c.notifications = newNotificationResource()

	c.loaders = map[domain.View]loader{
		domain.ViewDashboard:     c.loadDashboard,
		domain.ViewPatients:      func(ctx context.Context, t ticket) { _ = c.patients.load(ctx, c, t) },
		domain.ViewSchedule:      c.loadSchedule,
		domain.ViewNotifications: c.loadNotifications,
		domain.ViewAnalytics:     c.loadAnalytics,
		domain.ViewTherapies:     func(ctx context.Context, t ticket) { _ = c.therapies.load(ctx, c, t) },
		domain.ViewSettings:      c.loadSettings,
	}
	return c
}

// ── Session and routing ──────────────────────────────────────────────────────

// SelectRole replaces the session wholesale and shows the dashboard.
func (c *Controller) SelectRole(ctx context.Context, role domain.Role) error {
	c.mu.Lock()
	next, tr, err := c.state.SelectRole(role, c.clock.Now())
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.refresher.Stop()
	c.state = next
	c.panels = make(map[string]Panel)
	c.filter = patientFilter{}
	c.patients.shown, c.therapies.shown, c.notifications.shown = nil, nil, nil
	t := ticket{session: next.Session, epoch: tr.Epoch}
	c.mu.Unlock()

	c.prompter.Cancel(ctx)
	c.toasts.Clear()

	c.log.Info().
		Str("session_id", next.Session.ID).
		Str("role", string(role)).
		Str("user", next.Session.Identity.Name).
		Msg("role selected")

	c.dispatch(ctx, tr.To, t)
	return nil
}

// ShowRoleSelection ends the session and returns to the role chooser.
func (c *Controller) ShowRoleSelection(ctx context.Context) {
	c.mu.Lock()
	c.state, _ = c.state.Clear()
	c.refresher.Stop()
	c.panels = make(map[string]Panel)
	c.filter = patientFilter{}
	c.mu.Unlock()

	c.prompter.Cancel(ctx)
	c.toasts.Clear()
}

// ShowView activates v. Leaving the dashboard stops its refresh before the
// next view loads. A view without a loader renders nothing.
func (c *Controller) ShowView(ctx context.Context, v domain.View) error {
	c.mu.Lock()
	if c.state.Session == nil {
		c.mu.Unlock()
		return domain.ErrNoSession
	}
	next, tr := c.state.ShowView(v)
	if tr.StopRefresh {
		c.refresher.Stop()
	}
	c.state = next
	t := ticket{session: next.Session, epoch: tr.Epoch}
	c.mu.Unlock()

	c.dispatch(ctx, v, t)
	return nil
}

func (c *Controller) dispatch(ctx context.Context, v domain.View, t ticket) {
	load, ok := c.loaders[v]
	if !ok {
		metrics.ViewTransitionsTotal.WithLabelValues("unknown").Inc()
		c.log.Debug().Str("view", string(v)).Msg("no loader for view")
		return
	}
	metrics.ViewTransitionsTotal.WithLabelValues(string(v)).Inc()
	load(ctx, t)
}

// Snapshot copies the current screen.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	s := Snapshot{
		Session:    c.state.Session,
		View:       c.state.View,
		Menu:       []domain.MenuItem{},
		Panels:     make(map[string]Panel, len(c.panels)),
		Refreshing: c.refresher.Running(),
	}
	if c.state.Session != nil {
		s.Menu = domain.Menu(c.state.Session.Role, c.state.View)
	}
	for id, p := range c.panels {
		s.Panels[id] = p
	}
	c.mu.Unlock()

	s.Toasts = c.toasts.List()
	s.Prompt = c.prompter.Pending()
	return s
}

// State returns the navigation state value.
func (c *Controller) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ResolvePrompt answers the pending confirmation.
func (c *Controller) ResolvePrompt(ctx context.Context, id string, confirmed bool) error {
	return c.prompter.Resolve(ctx, id, confirmed)
}

// Close stops every job owned by the controller.
func (c *Controller) Close() {
	c.refresher.Stop()
	c.prompter.Cancel(context.Background())
	c.toasts.Clear()
	c.cancel()
}

// ── Loaders ──────────────────────────────────────────────────────────────────

func (c *Controller) loadDashboard(ctx context.Context, t ticket) {
	c.refreshDashboard(ctx, t)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(t) {
		return
	}
	c.refresher.Start(func() { c.tick(t) })
}

func (c *Controller) tick(t ticket) {
	if !c.isCurrent(t) {
		return
	}
	metrics.DashboardRefreshTotal.Inc()
	c.refreshDashboard(c.ctx, t)
}

// refreshDashboard renders the counters, upcoming appointments and the
// progress chart from one patient fetch.
func (c *Controller) refreshDashboard(ctx context.Context, t ticket) {
	patients, err := c.api.Patients().List(ctx)
	c.commit(t, func() {
		c.chartPanelLocked(progressChart())
		if err != nil {
			c.log.Warn().Err(err).Msg("dashboard refresh failed")
			c.failPanelLocked(PanelAppointments, "Failed to load appointments.")
			return
		}
		c.renderStatsLocked(len(patients))
		list := upcoming(patients)
		c.renderPanelLocked(PanelAppointments, "appointments", list, len(list.Items))
	})
}

func (c *Controller) renderStatsLocked(total int) {
	c.renderPanelLocked(PanelStats, "stats", dashboardStats{
		TotalPatients:     total,
		TodayAppointments: demoTodayAppointments,
		ActiveTherapies:   demoActiveTherapies,
		SuccessRate:       demoSuccessRate,
	}, 0)
}

func (c *Controller) loadSchedule(ctx context.Context, t ticket) {
	c.commit(t, func() {
		grid := demoCalendar()
		c.renderPanelLocked(PanelCalendar, "calendar", grid, len(grid.Rows))
		c.renderPanelLocked(PanelSuggestions, "suggestions", suggestionList{}, 0)
	})
	c.loadScheduleOptions(ctx, t)
}

func (c *Controller) loadScheduleOptions(ctx context.Context, t ticket) {
	patients, err := c.api.Patients().List(ctx)
	var therapies []domain.Therapy
	if err == nil {
		therapies, err = c.api.Therapies().List(ctx)
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("schedule options failed")
		c.commit(t, func() {
			c.toasts.Push(ToastError, "Failed to load patient or therapy lists.")
		})
		return
	}

	patients = visiblePatients(t.session, patients)
	opts := scheduleOptions{}
	for _, p := range patients {
		opts.Patients = append(opts.Patients, option{Value: p.ID, Label: p.Name})
	}
	for _, th := range therapies {
		opts.Therapies = append(opts.Therapies, option{
			Value: th.Name,
			Label: fmt.Sprintf("%s (%s days)", th.Name, formatDays(th.Duration)),
		})
	}
	c.commit(t, func() {
		c.renderPanelLocked(PanelScheduleOptions, "schedule_options", opts, len(opts.Patients))
	})
}

func (c *Controller) loadNotifications(ctx context.Context, t ticket) {
	_ = c.notifications.load(ctx, c, t)
	if !t.session.Restricted() {
		c.loadRecipients(ctx, t)
	}
}

// loadRecipients fills the custom alert form with patient addresses.
func (c *Controller) loadRecipients(ctx context.Context, t ticket) {
	patients, err := c.api.Patients().List(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("alert recipients failed")
		c.commit(t, func() { c.failPanelLocked(PanelRecipients, "Failed to load recipients.") })
		return
	}
	list := recipientList{}
	for _, p := range patients {
		if p.Email == "" {
			continue
		}
		list.Recipients = append(list.Recipients, option{Value: p.Email, Label: p.Name})
	}
	c.commit(t, func() {
		c.renderPanelLocked(PanelRecipients, "recipients", list, len(list.Recipients))
	})
}

func (c *Controller) loadAnalytics(_ context.Context, t ticket) {
	c.commit(t, func() {
		c.chartPanelLocked(effectivenessChart())
		c.chartPanelLocked(doshaChart())
		c.chartPanelLocked(appointmentsChart())
	})
}

func (c *Controller) loadSettings(_ context.Context, t ticket) {
	c.log.Debug().Str("session_id", t.session.ID).Msg("settings view loaded")
}

// refreshPatientDerived re-renders everything computed from the patient
// collection outside the patient list itself.
func (c *Controller) refreshPatientDerived(ctx context.Context) {
	t, ok := c.current()
	if !ok {
		return
	}
	c.refreshDashboard(ctx, t)
	if !t.session.Restricted() {
		c.loadRecipients(ctx, t)
	}
}

// ── Ticket plumbing ──────────────────────────────────────────────────────────

func (c *Controller) current() (ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Session == nil {
		return ticket{}, false
	}
	return ticket{session: c.state.Session, epoch: c.state.Epoch}, true
}

// staff returns the current ticket and whether the session may mutate.
// Restricted sessions get allowed=false with a nil error.
func (c *Controller) staff() (ticket, bool, error) {
	t, ok := c.current()
	if !ok {
		return ticket{}, false, domain.ErrNoSession
	}
	if t.session.Restricted() {
		c.log.Debug().Str("session_id", t.session.ID).Msg("mutation ignored for restricted session")
		return t, false, nil
	}
	return t, true, nil
}

func (c *Controller) isCurrent(t ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked(t)
}

func (c *Controller) currentLocked(t ticket) bool {
	return c.state.Session == t.session && c.state.Epoch == t.epoch
}

func (c *Controller) sameSession(t ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Session == t.session
}

// commit applies a render if t is still current and reports whether it did.
func (c *Controller) commit(t ticket, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.currentLocked(t) {
		metrics.StaleRendersTotal.Inc()
		return false
	}
	apply()
	return true
}

// ── Panel helpers (mu held) ─────────────────────────────────────────────────

func (c *Controller) renderPanelLocked(id, name string, data any, items int) {
	html, err := c.renderer.Render(name, data)
	if err != nil {
		c.log.Error().Err(err).Str("panel", id).Msg("render failed")
		c.failPanelLocked(id, "Failed to render.")
		return
	}
	c.panels[id] = Panel{ID: id, State: PanelReady, HTML: html, Items: items}
}

func (c *Controller) failPanelLocked(id, message string) {
	html, err := c.renderer.Render("failed", failure{Message: message})
	if err != nil {
		c.log.Error().Err(err).Str("panel", id).Msg("render failed")
		html = ""
	}
	c.panels[id] = Panel{ID: id, State: PanelFailed, HTML: html}
}

func (c *Controller) chartPanelLocked(chart domain.Chart) {
	c.panels[chart.ID] = Panel{ID: chart.ID, State: PanelReady, Chart: &chart, Items: len(chart.Labels)}
}

// firstSubmit drops a repeated submission of the same form within the
// guard window. Guard failures let the submission through.
func (c *Controller) firstSubmit(ctx context.Context, t ticket, kind string, fields any) bool {
	if c.guard == nil {
		return true
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return true
	}
	h := fnv.New64a()
	_, _ = h.Write(payload)
	key := fmt.Sprintf("%s:%s:%x", t.session.ID, kind, h.Sum64())

	ok, err := c.guard.FirstSubmit(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Msg("submit guard unavailable")
		return true
	}
	if !ok {
		c.log.Info().Str("kind", kind).Str("session_id", t.session.ID).Msg("duplicate submission dropped")
	}
	return ok
}
