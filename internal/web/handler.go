package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/portal"
	"github.com/ayursutra/clinic/internal/web/middleware"
)

const pageTitle = "AyurSutra"

// --- Request types ---

type sessionRequest struct {
	Role string `json:"role"`
}

type filterRequest struct {
	Search string `json:"search"`
	Dosha  string `json:"dosha"`
}

type promptRequest struct {
	Confirm bool `json:"confirm"`
}

type suggestRequest struct {
	Patient string `json:"patient"`
	Therapy string `json:"therapy"`
}

type alertRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type pageData struct {
	Title      string
	Roles      []domain.Role
	PollMillis int64
}

// PortalHandler exposes controller operations. Every mutating endpoint
// answers with the resulting screen snapshot.
type PortalHandler struct {
	registry   *Registry
	renderer   ports.Renderer
	secret     string
	sessionTTL time.Duration
	poll       time.Duration
	log        zerolog.Logger
}

func NewPortalHandler(registry *Registry, renderer ports.Renderer, secret string, sessionTTL, poll time.Duration, log zerolog.Logger) *PortalHandler {
	return &PortalHandler{
		registry:   registry,
		renderer:   renderer,
		secret:     secret,
		sessionTTL: sessionTTL,
		poll:       poll,
		log:        log,
	}
}

// controller resolves the controller bound to the session cookie.
func (h *PortalHandler) controller(c echo.Context) (*portal.Controller, error) {
	id, _ := c.Get(middleware.KeyClientID).(string)
	if id == "" {
		return nil, domain.ErrNoSession
	}
	ctrl, ok := h.registry.Get(id)
	if !ok {
		return nil, domain.ErrNoSession
	}
	return ctrl, nil
}

// run applies op to the session controller and answers with its snapshot.
func (h *PortalHandler) run(c echo.Context, op func(*portal.Controller) error) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}
	if err := op(ctrl); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ctrl.Snapshot())
}

func bind[T any](c echo.Context) (T, error) {
	var req T
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return req, nil
}

// Page handles GET /.
func (h *PortalHandler) Page(c echo.Context) error {
	html, err := h.renderer.Render("page", pageData{
		Title:      pageTitle,
		Roles:      []domain.Role{domain.RolePatient, domain.RolePractitioner, domain.RoleAdmin},
		PollMillis: h.poll.Milliseconds(),
	})
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, html)
}

// Screen handles GET /screen. Clients without a session get the empty
// role-selection screen.
func (h *PortalHandler) Screen(c echo.Context) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return c.JSON(http.StatusOK, portal.Snapshot{
			Menu:   []domain.MenuItem{},
			Panels: map[string]portal.Panel{},
			Toasts: []portal.Toast{},
		})
	}
	return c.JSON(http.StatusOK, ctrl.Snapshot())
}

// SelectRole handles POST /session. It reuses the client's controller when
// the cookie is still valid and reissues the cookie with the new role.
func (h *PortalHandler) SelectRole(c echo.Context) error {
	req, err := bind[sessionRequest](c)
	if err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	clientID, _ := c.Get(middleware.KeyClientID).(string)
	if clientID == "" {
		clientID = uuid.NewString()
	}
	ctrl := h.registry.GetOrCreate(clientID)
	if err := ctrl.SelectRole(c.Request().Context(), role); err != nil {
		return err
	}

	token, err := middleware.Issue(h.secret, clientID, role, h.sessionTTL, time.Now())
	if err != nil {
		return err
	}
	middleware.SetCookie(c, token, h.sessionTTL)
	return c.JSON(http.StatusOK, ctrl.Snapshot())
}

// EndSession handles DELETE /session.
func (h *PortalHandler) EndSession(c echo.Context) error {
	if id, _ := c.Get(middleware.KeyClientID).(string); id != "" {
		if ctrl, ok := h.registry.Get(id); ok {
			ctrl.ShowRoleSelection(c.Request().Context())
		}
		h.registry.Remove(id)
	}
	middleware.ClearCookie(c)
	c.Set(middleware.KeyClientID, "")
	return h.Screen(c)
}

// ShowView handles POST /views/:view. Unknown view names are accepted:
// they deactivate the current view and load nothing.
func (h *PortalHandler) ShowView(c echo.Context) error {
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.ShowView(c.Request().Context(), domain.View(c.Param("view")))
	})
}

// --- Patients ---

func (h *PortalHandler) CreatePatient(c echo.Context) error {
	f, err := bind[portal.PatientForm](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.CreatePatient(c.Request().Context(), f)
	})
}

func (h *PortalHandler) UpdatePatient(c echo.Context) error {
	f, err := bind[portal.PatientForm](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.UpdatePatient(c.Request().Context(), c.Param("id"), f)
	})
}

func (h *PortalHandler) DeletePatient(c echo.Context) error {
	return h.run(c, func(ctrl *portal.Controller) error {
		_, err := ctrl.DeletePatient(c.Request().Context(), c.Param("id"))
		return err
	})
}

func (h *PortalHandler) FilterPatients(c echo.Context) error {
	req, err := bind[filterRequest](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.FilterPatients(req.Search, req.Dosha)
	})
}

func (h *PortalHandler) PatientDetails(c echo.Context) error {
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.ViewPatientDetails(c.Param("id"))
	})
}

// --- Therapies ---

func (h *PortalHandler) CreateTherapy(c echo.Context) error {
	f, err := bind[portal.TherapyForm](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.CreateTherapy(c.Request().Context(), f)
	})
}

func (h *PortalHandler) UpdateTherapy(c echo.Context) error {
	f, err := bind[portal.TherapyForm](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.UpdateTherapy(c.Request().Context(), c.Param("id"), f)
	})
}

func (h *PortalHandler) DeleteTherapy(c echo.Context) error {
	return h.run(c, func(ctrl *portal.Controller) error {
		_, err := ctrl.DeleteTherapy(c.Request().Context(), c.Param("id"))
		return err
	})
}

// --- Notifications ---

func (h *PortalHandler) CreateNotification(c echo.Context) error {
	f, err := bind[portal.NotificationForm](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.CreateNotification(c.Request().Context(), f)
	})
}

func (h *PortalHandler) UpdateNotification(c echo.Context) error {
	f, err := bind[portal.NotificationForm](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.UpdateNotification(c.Request().Context(), c.Param("id"), f)
	})
}

func (h *PortalHandler) DeleteNotification(c echo.Context) error {
	return h.run(c, func(ctrl *portal.Controller) error {
		_, err := ctrl.DeleteNotification(c.Request().Context(), c.Param("id"))
		return err
	})
}

// --- Editors, prompts, scheduling ---

// OpenEditor handles GET /editor/:collection/:id.
func (h *PortalHandler) OpenEditor(c echo.Context) error {
	coll, err := domain.ParseCollection(c.Param("collection"))
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.OpenEditor(c.Request().Context(), coll, c.Param("id"))
	})
}

// ResolvePrompt handles POST /prompt/:id.
func (h *PortalHandler) ResolvePrompt(c echo.Context) error {
	req, err := bind[promptRequest](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.ResolvePrompt(c.Request().Context(), c.Param("id"), req.Confirm)
	})
}

func (h *PortalHandler) Suggest(c echo.Context) error {
	req, err := bind[suggestRequest](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.Suggest(c.Request().Context(), req.Patient, req.Therapy)
	})
}

func (h *PortalHandler) Schedule(c echo.Context) error {
	f, err := bind[portal.ScheduleForm](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		return ctrl.ScheduleTherapy(c.Request().Context(), f)
	})
}

func (h *PortalHandler) SendAlert(c echo.Context) error {
	req, err := bind[alertRequest](c)
	if err != nil {
		return err
	}
	return h.run(c, func(ctrl *portal.Controller) error {
		_, err := ctrl.SendAlert(c.Request().Context(), req.To, req.Message)
		return err
	})
}
