package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ayursutra/clinic/internal/core/domain"
)

var ctx = context.Background()

func TestSelectRole_PatientMenuHidesStaffViews(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RolePatient)

	snap := h.c.Snapshot()
	if snap.Session == nil || snap.Session.Identity.ID != "P001" {
		t.Fatalf("expected P001 session, got %+v", snap.Session)
	}
	hidden := map[domain.View]bool{domain.ViewPatients: true, domain.ViewAnalytics: true, domain.ViewTherapies: true}
	for _, item := range snap.Menu {
		if item.Visible == hidden[item.View] {
			t.Errorf("menu %q visible=%v for patient", item.View, item.Visible)
		}
	}
	if snap.View != domain.ViewDashboard {
		t.Errorf("expected dashboard, got %q", snap.View)
	}
}

func TestSelectRole_ReplacesSessionWholesale(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RolePatient)
	first := h.c.State().Session

	h.selectRole(t, domain.RoleAdmin)
	second := h.c.State().Session

	if first == second || first.ID == second.ID {
		t.Fatal("expected a new session")
	}
	if second.Role != domain.RoleAdmin || second.Identity.Name != "Admin User" {
		t.Fatalf("unexpected session %+v", second)
	}
	for _, item := range h.c.Snapshot().Menu {
		if !item.Visible {
			t.Errorf("admin must see %q", item.View)
		}
	}
}

func TestSelectRole_Unknown(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RolePractitioner)

	err := h.c.SelectRole(ctx, domain.Role("nurse"))
	if !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if h.c.State().Session.Role != domain.RolePractitioner {
		t.Fatal("failed selection must keep the previous session")
	}
}

func TestShowView_RequiresSession(t *testing.T) {
	h := newHarness(t)
	if err := h.c.ShowView(ctx, domain.ViewPatients); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestDashboardTimer_AliveOnlyWhileDashboardActive(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RolePractitioner)

	sequence := []domain.View{
		domain.ViewPatients, domain.ViewDashboard, domain.ViewDashboard,
		domain.ViewSchedule, domain.ViewAnalytics, domain.ViewDashboard,
		domain.View("reports"), domain.ViewSettings, domain.ViewDashboard,
	}

	check := func(active domain.View) {
		t.Helper()
		live := h.clock.liveTickers()
		if live > 1 {
			t.Fatalf("%d live timers after %q", live, active)
		}
		want := active == domain.ViewDashboard
		if h.c.Snapshot().Refreshing != want || (live == 1) != want {
			t.Fatalf("view %q: refreshing=%v live=%d", active, h.c.Snapshot().Refreshing, live)
		}
	}

	check(domain.ViewDashboard)
	for _, v := range sequence {
		h.show(t, v)
		check(v)
	}
}

func TestDashboardTimer_StoppedOnRoleChange(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RolePractitioner)
	first := h.clock.lastTicker()

	h.selectRole(t, domain.RolePatient)
	if !first.isStopped() {
		t.Fatal("previous session timer must be stopped")
	}
	if h.clock.liveTickers() != 1 {
		t.Fatalf("expected exactly one live timer, got %d", h.clock.liveTickers())
	}

	h.c.ShowRoleSelection(ctx)
	if h.clock.liveTickers() != 0 || h.c.State().Session != nil {
		t.Fatal("role selection must end the session and its timer")
	}
}

func TestDashboardTick_RerendersCounters(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RoleAdmin)

	if !strings.Contains(h.panel(t, PanelStats).HTML, `id="totalPatients">2<`) {
		t.Fatalf("unexpected stats: %s", h.panel(t, PanelStats).HTML)
	}

	h.api.patients.set(domain.Patient{ID: "a9", Name: "Solo"})
	h.clock.lastTicker().tick()

	eventually(t, func() bool {
		p, _ := h.c.Snapshot().Panel(PanelStats)
		return strings.Contains(p.HTML, `id="totalPatients">1<`)
	})
}

func TestDashboardTick_StaleTicketDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RoleAdmin)
	stale, _ := h.c.current()

	h.show(t, domain.ViewSettings)
	before, _, _, _ := h.api.patients.counts()
	h.c.tick(stale)
	after, _, _, _ := h.api.patients.counts()

	if before != after {
		t.Fatal("a tick for a left dashboard must not fetch")
	}
}

func TestDashboard_UpcomingAppointmentsAndCharts(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RolePractitioner)

	appts := h.panel(t, PanelAppointments)
	if appts.Items != 1 || !strings.Contains(appts.HTML, "Rajesh Kumar") {
		t.Fatalf("expected one upcoming appointment, got %+v", appts)
	}
	chart := h.panel(t, PanelProgressChart)
	if chart.Chart == nil || chart.Chart.Max != 100 || len(chart.Chart.Datasets[0].Data) != 6 {
		t.Fatalf("unexpected progress chart %+v", chart.Chart)
	}
}

func TestPatients_RestrictedSeesOnlyOwnRecordWithoutActions(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RolePatient)
	h.show(t, domain.ViewPatients)

	p := h.panel(t, PanelPatients)
	if p.Items != 1 {
		t.Fatalf("expected one card, got %d", p.Items)
	}
	if !strings.Contains(p.HTML, "Rajesh Kumar") || strings.Contains(p.HTML, "Priya Sharma") {
		t.Fatalf("wrong card rendered: %s", p.HTML)
	}
	if strings.Contains(p.HTML, `data-action="edit"`) || strings.Contains(p.HTML, `data-action="delete"`) {
		t.Fatalf("restricted session must not see actions: %s", p.HTML)
	}
}

func TestPatients_RestrictedFilterIndependentOfSize(t *testing.T) {
	h := newHarness(t)
	var recs []domain.Patient
	for i := 0; i < 200; i++ {
		recs = append(recs, domain.Patient{ID: fmt.Sprintf("x%d", i), PatientID: fmt.Sprintf("P%03d", i+2)})
	}
	recs = append(recs,
		domain.Patient{ID: "own1", PatientID: "P001"},
		domain.Patient{ID: "own2", PatientID: "P001"},
	)
	h.api.patients.set(recs...)

	h.selectRole(t, domain.RolePatient)
	h.show(t, domain.ViewPatients)

	p := h.panel(t, PanelPatients)
	if p.Items != 2 || !strings.Contains(p.HTML, `data-id="own1"`) || !strings.Contains(p.HTML, `data-id="own2"`) {
		t.Fatalf("expected exactly the P001 records, got %d items", p.Items)
	}
}

func TestPatients_StaffSeesAllWithActions(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RolePractitioner)
	h.show(t, domain.ViewPatients)

	p := h.panel(t, PanelPatients)
	if p.Items != 2 || strings.Count(p.HTML, `data-action="delete"`) != 2 {
		t.Fatalf("expected two editable cards: %s", p.HTML)
	}
	if !strings.Contains(p.HTML, "status--success") || !strings.Contains(p.HTML, "status--info") {
		t.Fatal("expected progress status classes")
	}
}

func TestPatients_LoadFailureRendersPlaceholder(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RolePractitioner)
	h.show(t, domain.ViewPatients)

	h.api.patients.listErr = fmt.Errorf("%w: API error: Internal Server Error", domain.ErrTransport)
	h.show(t, domain.ViewPatients)

	p := h.panel(t, PanelPatients)
	if p.State != PanelFailed || p.Items != 0 {
		t.Fatalf("expected failed panel, got %+v", p)
	}
	if !strings.Contains(p.HTML, "Failed to load patients.") || strings.Contains(p.HTML, "patient-card") {
		t.Fatalf("unexpected placeholder: %s", p.HTML)
	}
}

func TestDelete_CancelledConfirmationIssuesNothing(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewPatients)

	id, err := h.c.DeletePatient(ctx, "a2")
	if err != nil || id == "" {
		t.Fatalf("expected prompt, got id=%q err=%v", id, err)
	}
	if got := h.c.Snapshot().Prompt; got == nil || got.Message != "Are you sure you want to delete this patient?" {
		t.Fatalf("unexpected prompt %+v", got)
	}

	if err := h.c.ResolvePrompt(ctx, id, false); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	_, _, _, deletes := h.api.patients.counts()
	if deletes != 0 {
		t.Fatal("no delete may be issued when cancelled")
	}
	if h.panel(t, PanelPatients).Items != 2 {
		t.Fatal("list must be unchanged")
	}
	if h.c.Snapshot().Prompt != nil {
		t.Fatal("prompt must be closed")
	}
}

func TestDelete_ConfirmedSuccessRemovesCard(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewPatients)

	id, _ := h.c.DeletePatient(ctx, "a2")
	if err := h.c.ResolvePrompt(ctx, id, true); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	p := h.panel(t, PanelPatients)
	if p.Items != 1 || strings.Contains(p.HTML, `data-id="a2"`) {
		t.Fatalf("card a2 must be gone: %s", p.HTML)
	}
	if !containsAny(h.toastMessages(), "Patient deleted successfully!") {
		t.Fatalf("expected success toast, got %v", h.toastMessages())
	}
	if !strings.Contains(h.panel(t, PanelStats).HTML, `id="totalPatients">1<`) {
		t.Fatal("dashboard counters must follow patient deletes")
	}
}

func TestDelete_RejectedKeepsCardAndToastsReason(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewPatients)
	h.api.patients.deleteResult = &domain.Result{Success: false, Error: "X"}

	id, _ := h.c.DeletePatient(ctx, "a2")
	_ = h.c.ResolvePrompt(ctx, id, true)

	if !strings.Contains(h.panel(t, PanelPatients).HTML, `data-id="a2"`) {
		t.Fatal("card must remain")
	}
	if !containsAny(h.toastMessages(), "X") {
		t.Fatalf("expected toast naming X, got %v", h.toastMessages())
	}
}

func TestDelete_TransportErrorToasts(t *testing.T) {
	h := newHarness(t)
	h.api.therapies.set(domain.Therapy{ID: "t1", Name: "Abhyanga", Duration: 7})
	h.selectRole(t, domain.RolePractitioner)
	h.show(t, domain.ViewTherapies)
	h.api.therapies.deleteErr = fmt.Errorf("%w: API error: Bad Gateway", domain.ErrTransport)

	id, _ := h.c.DeleteTherapy(ctx, "t1")
	_ = h.c.ResolvePrompt(ctx, id, true)

	if !containsAny(h.toastMessages(), "Error deleting therapy") {
		t.Fatalf("unexpected toasts %v", h.toastMessages())
	}
	if h.panel(t, PanelTherapies).Items != 1 {
		t.Fatal("prior render must stay intact")
	}
}

func TestDelete_MissingIDToasts(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RoleAdmin)

	id, err := h.c.DeleteNotification(ctx, "")
	if err != nil || id != "" {
		t.Fatalf("expected no prompt, got %q %v", id, err)
	}
	if !containsAny(h.toastMessages(), "No notification ID found!") {
		t.Fatalf("unexpected toasts %v", h.toastMessages())
	}
}

func TestMutations_NoOpForRestrictedSession(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RolePatient)

	if err := h.c.CreatePatient(ctx, PatientForm{Name: "Evil"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.c.UpdateTherapy(ctx, "t1", TherapyForm{Name: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id, err := h.c.DeletePatient(ctx, "a1")
	if err != nil || id != "" {
		t.Fatalf("delete must be a no-op, got %q %v", id, err)
	}
	if _, err := h.c.SendAlert(ctx, "a@b.c", "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, creates, _, deletes := h.api.patients.counts()
	_, _, updates, _ := h.api.therapies.counts()
	if creates+deletes+updates != 0 || h.c.Snapshot().Prompt != nil {
		t.Fatal("restricted sessions must not mutate")
	}
}

func TestMutations_RequireSession(t *testing.T) {
	h := newHarness(t)
	if err := h.c.CreateTherapy(ctx, TherapyForm{Name: "x"}); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestCreatePatient_RoundTripAndDefaults(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RolePractitioner)
	h.show(t, domain.ViewPatients)

	if err := h.c.CreatePatient(ctx, PatientForm{Name: "Amit Kumar Patel", Age: 50, Dosha: "Kapha", Condition: "Arthritis"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	created := h.api.patients.last()
	p := h.panel(t, PanelPatients)
	if p.Items != 3 || !strings.Contains(p.HTML, fmt.Sprintf(`data-id="%s"`, created.ID)) {
		t.Fatalf("new card missing: %s", p.HTML)
	}
	if created.Email != "amit.kumar patel@email.com" || created.TotalSessions != 10 || created.ProgressPercent() != 0 {
		t.Fatalf("unexpected defaults %+v", created)
	}
	if created.NextAppointment == nil || !created.NextAppointment.Equal(h.clock.Now().Add(24*time.Hour)) {
		t.Fatalf("next appointment must be a day ahead, got %v", created.NextAppointment)
	}
	if !strings.Contains(h.panel(t, PanelStats).HTML, `id="totalPatients">3<`) {
		t.Fatal("dashboard counters must refresh after adding a patient")
	}
	if h.panel(t, PanelRecipients).Items != 3 {
		t.Fatal("alert recipients must refresh after adding a patient")
	}
	if !containsAny(h.toastMessages(), "Patient added successfully!") {
		t.Fatalf("unexpected toasts %v", h.toastMessages())
	}
}

func TestCreate_FailureToastsAndKeepsRender(t *testing.T) {
	h := newHarness(t)
	h.api.therapies.set(domain.Therapy{ID: "t1", Name: "Abhyanga"})
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewTherapies)
	before := h.panel(t, PanelTherapies)

	h.api.therapies.createErr = fmt.Errorf("%w: API error: Unprocessable Entity", domain.ErrTransport)
	_ = h.c.CreateTherapy(ctx, TherapyForm{Name: "Nasya", Duration: 5})

	if after := h.panel(t, PanelTherapies); after.HTML != before.HTML {
		t.Fatal("failed create must not touch the list")
	}
	if !containsAny(h.toastMessages(), "Unprocessable Entity") {
		t.Fatalf("expected reason in toast, got %v", h.toastMessages())
	}
}

func TestUpdate_ReloadsList(t *testing.T) {
	h := newHarness(t)
	h.api.notifications.set(domain.Notification{ID: "n1", Message: "Initial reminder", Date: h.clock.Now()})
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewNotifications)

	if err := h.c.UpdateNotification(ctx, "n1", NotificationForm{Message: "Revised reminder"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if html := h.panel(t, PanelNotifications).HTML; !strings.Contains(html, "Revised reminder") || strings.Contains(html, "Initial reminder") {
		t.Fatalf("list not reloaded: %s", html)
	}
}

func TestSubmitGuard_DropsDuplicateCreate(t *testing.T) {
	h := newHarness(t)
	h.c.guard = &memoryGuard{}
	h.selectRole(t, domain.RoleAdmin)

	form := TherapyForm{Name: "Basti", Duration: 8}
	_ = h.c.CreateTherapy(ctx, form)
	_ = h.c.CreateTherapy(ctx, form)
	_ = h.c.CreateTherapy(ctx, TherapyForm{Name: "Nasya", Duration: 5})

	if _, creates, _, _ := h.api.therapies.counts(); creates != 2 {
		t.Fatalf("expected 2 creates, got %d", creates)
	}
}

func TestSubmitGuard_FailsOpen(t *testing.T) {
	h := newHarness(t)
	h.c.guard = &memoryGuard{err: errors.New("redis down")}
	h.selectRole(t, domain.RoleAdmin)

	_ = h.c.CreateTherapy(ctx, TherapyForm{Name: "Basti"})
	if _, creates, _, _ := h.api.therapies.counts(); creates != 1 {
		t.Fatal("guard failure must not block the submission")
	}
}

func TestStaleFetch_DiscardedAfterNavigation(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RoleAdmin)

	started, release := h.api.patients.gate()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.c.ShowView(ctx, domain.ViewPatients)
	}()
	<-started

	h.show(t, domain.ViewSettings)
	release()
	wg.Wait()

	if _, ok := h.c.Snapshot().Panel(PanelPatients); ok {
		t.Fatal("a fetch for a left view must not render")
	}
	if h.c.State().View != domain.ViewSettings {
		t.Fatal("view must stay on settings")
	}
}

func TestStaleFetch_DashboardLoadLeftBeforeTimerStarts(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewSettings)

	started, release := h.api.patients.gate()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.c.ShowView(ctx, domain.ViewDashboard)
	}()
	<-started
	h.show(t, domain.ViewSettings)
	release()
	wg.Wait()

	if h.c.Snapshot().Refreshing || h.clock.liveTickers() != 0 {
		t.Fatal("a left dashboard must not start its timer")
	}
}

func TestSelectRole_CancelsPendingPrompt(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RoleAdmin)

	id, _ := h.c.DeletePatient(ctx, "a1")
	h.selectRole(t, domain.RolePractitioner)

	if h.c.Snapshot().Prompt != nil {
		t.Fatal("prompt must be withdrawn with the session")
	}
	if err := h.c.ResolvePrompt(ctx, id, true); !errors.Is(err, domain.ErrPromptClosed) {
		t.Fatalf("expected ErrPromptClosed, got %v", err)
	}
	if _, _, _, deletes := h.api.patients.counts(); deletes != 0 {
		t.Fatal("no delete after session change")
	}
}

func TestUnknownView_LoadsNothing(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RoleAdmin)
	before := len(h.c.Snapshot().Panels)

	h.show(t, domain.View("reports"))

	snap := h.c.Snapshot()
	if len(snap.Panels) != before || snap.Refreshing {
		t.Fatal("unknown view must not load or refresh")
	}
	for _, item := range snap.Menu {
		if item.Active {
			t.Fatalf("no menu item should be active, got %q", item.View)
		}
	}
}

func TestFilterPatients_HidesNonMatching(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewPatients)

	if err := h.c.FilterPatients("priya", ""); err != nil {
		t.Fatalf("filter: %v", err)
	}
	if h.panel(t, PanelPatients).Items != 1 {
		t.Fatalf("expected one visible card, got %d", h.panel(t, PanelPatients).Items)
	}

	_ = h.c.FilterPatients("", "vata")
	p := h.panel(t, PanelPatients)
	if p.Items != 1 || strings.Count(p.HTML, " hidden>") != 1 {
		t.Fatalf("expected Priya hidden, got %s", p.HTML)
	}

	h.show(t, domain.ViewPatients)
	if h.panel(t, PanelPatients).Items != 1 {
		t.Fatal("filter must survive a reload")
	}
}

func TestViewPatientDetails(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RolePractitioner)
	_ = h.c.ViewPatientDetails("a1")
	if !containsAny(h.toastMessages(), "Viewing details for patient ID: a1") {
		t.Fatalf("unexpected toasts %v", h.toastMessages())
	}
}

func TestOpenEditor(t *testing.T) {
	h := newHarness(t)
	h.api.therapies.set(domain.Therapy{ID: "t1", Name: "Abhyanga", Duration: 7, Description: "Oil massage"})
	h.selectRole(t, domain.RoleAdmin)

	if err := h.c.OpenEditor(ctx, domain.CollectionTherapies, "t1"); err != nil {
		t.Fatalf("open editor: %v", err)
	}
	html := h.panel(t, PanelEditor).HTML
	if !strings.Contains(html, `value="Abhyanga"`) || !strings.Contains(html, "Oil massage") {
		t.Fatalf("unexpected editor: %s", html)
	}

	if err := h.c.OpenEditor(ctx, domain.Collection("rooms"), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown collection, got %v", err)
	}
	_ = h.c.OpenEditor(ctx, domain.CollectionPatients, "missing")
	if !containsAny(h.toastMessages(), "Failed to load patient") {
		t.Fatalf("unexpected toasts %v", h.toastMessages())
	}
}

func TestSchedule_LoadsCalendarAndOptions(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.api.therapies.set(domain.Therapy{ID: "t1", Name: "Abhyanga", Duration: 7})
	h.selectRole(t, domain.RolePatient)
	h.show(t, domain.ViewSchedule)

	cal := h.panel(t, PanelCalendar).HTML
	for _, want := range []string{"Rajesh Kumar", "Swedana", "Amit Patel", `data-day="Sun"`} {
		if !strings.Contains(cal, want) {
			t.Errorf("calendar missing %q", want)
		}
	}
	opts := h.panel(t, PanelScheduleOptions)
	if opts.Items != 1 || !strings.Contains(opts.HTML, "Abhyanga (7 days)") {
		t.Fatalf("unexpected options %+v", opts)
	}
	if !strings.Contains(h.panel(t, PanelSuggestions).HTML, "Select patient and therapy") {
		t.Fatal("expected suggestion placeholder")
	}
}

func TestSchedule_OptionsFailureToasts(t *testing.T) {
	h := newHarness(t)
	h.api.therapies.listErr = errors.New("down")
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewSchedule)

	if !containsAny(h.toastMessages(), "Failed to load patient or therapy lists.") {
		t.Fatalf("unexpected toasts %v", h.toastMessages())
	}
}

func TestSuggest(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)
	h.api.therapies.set(domain.Therapy{ID: "t1", Name: "Basti", Duration: 8, Preparation: "Light diet"})
	h.selectRole(t, domain.RolePractitioner)

	if err := h.c.Suggest(ctx, "a2", "Basti"); err != nil {
		t.Fatalf("suggest: %v", err)
	}
	p := h.panel(t, PanelSuggestions)
	if p.Items != 6 {
		t.Fatalf("expected 6 suggestions, got %d", p.Items)
	}
	for _, want := range []string{"Pitta constitution", "Estimated duration: 8 days", "Pre-procedure: Light diet"} {
		if !strings.Contains(p.HTML, want) {
			t.Errorf("missing %q in %s", want, p.HTML)
		}
	}
}

func TestScheduleTherapy(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RolePractitioner)

	_ = h.c.ScheduleTherapy(ctx, ScheduleForm{Patient: "a1", Therapy: "Abhyanga"})
	if !containsAny(h.toastMessages(), "Please fill out all fields.") {
		t.Fatalf("expected validation toast, got %v", h.toastMessages())
	}

	if err := h.c.ScheduleTherapy(ctx, ScheduleForm{Patient: "a1", Therapy: "Abhyanga", Date: "2026-10-20"}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	n := h.api.notifications.last()
	if n.Type != "appointment_reminder" || n.Message != "Abhyanga scheduled for a1 on 2026-10-20" || n.Status != "pending" {
		t.Fatalf("unexpected notification %+v", n)
	}
	if !containsAny(h.toastMessages(), "Therapy scheduled!") {
		t.Fatalf("unexpected toasts %v", h.toastMessages())
	}
}

func TestSendAlert(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RolePractitioner)

	if id, _ := h.c.SendAlert(ctx, "", "hi"); id != "" {
		t.Fatal("empty recipient must not prompt")
	}

	id, _ := h.c.SendAlert(ctx, "rajesh.kumar@email.com", "Take rest")
	if got := h.c.Snapshot().Prompt.Message; got != `Sending notification to rajesh.kumar@email.com with message: "Take rest"` {
		t.Fatalf("unexpected prompt %q", got)
	}
	_ = h.c.ResolvePrompt(ctx, id, true)

	sent := h.api.sent()
	if len(sent) != 1 || sent[0].Subject != "AyurSutra Notification" || sent[0].Message != "Take rest" {
		t.Fatalf("unexpected emails %+v", sent)
	}
	if !containsAny(h.toastMessages(), "Notification sent successfully!") {
		t.Fatalf("unexpected toasts %v", h.toastMessages())
	}
}

func TestSendAlert_Failures(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RoleAdmin)

	h.api.emailResult = domain.Result{Error: "mail queue full"}
	id, _ := h.c.SendAlert(ctx, "a@b.c", "m")
	_ = h.c.ResolvePrompt(ctx, id, true)

	h.api.emailErr = fmt.Errorf("%w: connection refused", domain.ErrTransport)
	id, _ = h.c.SendAlert(ctx, "a@b.c", "m")
	_ = h.c.ResolvePrompt(ctx, id, true)

	msgs := h.toastMessages()
	if !containsAny(msgs, "Failed to send email: mail queue full") || !containsAny(msgs, "Failed to connect to the email service.") {
		t.Fatalf("unexpected toasts %v", msgs)
	}
}

func TestNotifications_RecipientsOnlyForStaff(t *testing.T) {
	h := newHarness(t)
	seedPatients(h)

	h.selectRole(t, domain.RolePatient)
	h.show(t, domain.ViewNotifications)
	if _, ok := h.c.Snapshot().Panel(PanelRecipients); ok {
		t.Fatal("patients do not get the alert form")
	}
	if strings.Contains(h.panel(t, PanelNotifications).HTML, "addNotificationBtn") {
		t.Fatal("patients must not see the add button")
	}

	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewNotifications)
	if h.panel(t, PanelRecipients).Items != 2 {
		t.Fatal("expected both patient addresses")
	}
}

func TestAnalytics_RendersCharts(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RoleAdmin)
	h.show(t, domain.ViewAnalytics)

	for _, id := range []string{PanelEffectivenessChart, PanelDoshaChart, PanelAppointmentsChart} {
		if p := h.panel(t, id); p.Chart == nil {
			t.Errorf("panel %q has no chart", id)
		}
	}
	if got := h.panel(t, PanelDoshaChart).Chart.Type; got != "doughnut" {
		t.Errorf("expected doughnut, got %q", got)
	}
}

func TestToasts_ExpireAfterTTL(t *testing.T) {
	h := newHarness(t)
	h.selectRole(t, domain.RoleAdmin)

	_ = h.c.ViewPatientDetails("a")
	h.clock.Advance(time.Second)
	_ = h.c.ViewPatientDetails("b")

	if got := h.toastMessages(); len(got) != 2 || !strings.HasSuffix(got[0], "a") {
		t.Fatalf("expected two toasts in order, got %v", got)
	}
	h.clock.Advance(2*time.Second)
	if got := h.toastMessages(); len(got) != 1 || !strings.HasSuffix(got[0], "b") {
		t.Fatalf("expected only the second toast, got %v", got)
	}
	h.clock.Advance(time.Second)
	if got := h.toastMessages(); len(got) != 0 {
		t.Fatalf("expected no toasts, got %v", got)
	}
}

func containsAny(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}
