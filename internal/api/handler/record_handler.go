package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
)

// createRequest is a validated request body that maps onto a new record.
type createRequest[T any] interface {
	record() T
}

// patchRequest is a validated partial update.
type patchRequest interface {
	fields() map[string]any
}

// RecordHandler serves the REST routes of one clinic collection.
type RecordHandler[T any, C createRequest[T], P patchRequest] struct {
	service ports.RecordService[T]
}

func NewRecordHandler[T any, C createRequest[T], P patchRequest](service ports.RecordService[T]) *RecordHandler[T, C, P] {
	return &RecordHandler[T, C, P]{service: service}
}

// NewPatientHandler serves /api/patients.
func NewPatientHandler(s ports.RecordService[domain.Patient]) *RecordHandler[domain.Patient, patientRequest, patientPatch] {
	return NewRecordHandler[domain.Patient, patientRequest, patientPatch](s)
}

// NewTherapyHandler serves /api/therapies.
func NewTherapyHandler(s ports.RecordService[domain.Therapy]) *RecordHandler[domain.Therapy, therapyRequest, therapyPatch] {
	return NewRecordHandler[domain.Therapy, therapyRequest, therapyPatch](s)
}

// NewNotificationHandler serves /api/notifications.
func NewNotificationHandler(s ports.RecordService[domain.Notification]) *RecordHandler[domain.Notification, notificationRequest, notificationPatch] {
	return NewRecordHandler[domain.Notification, notificationRequest, notificationPatch](s)
}

// Register mounts the collection routes on g.
func (h *RecordHandler[T, C, P]) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List handles GET /api/{collection}.
//
// @Summary      List every record of a collection
// @Tags         records
// @Produce      json
// @Param        collection  path      string  true  "Collection"  Enums(patients, therapies, notifications)
// @Success      200         {array}   object
// @Failure      500         {object}  errorResponse
// @Router       /api/{collection} [get]
func (h *RecordHandler[T, C, P]) List(c echo.Context) error {
	recs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recs)
}

// Get handles GET /api/{collection}/:id.
//
// @Summary      Get one record
// @Tags         records
// @Produce      json
// @Param        collection  path      string  true  "Collection"  Enums(patients, therapies, notifications)
// @Param        id          path      string  true  "Record id"
// @Success      200         {object}  object
// @Failure      404         {object}  errorResponse
// @Router       /api/{collection}/{id} [get]
func (h *RecordHandler[T, C, P]) Get(c echo.Context) error {
	rec, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Create handles POST /api/{collection}.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        collection  path      string  true  "Collection"  Enums(patients, therapies, notifications)
// @Success      201         {object}  object
// @Failure      400         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /api/{collection} [post]
func (h *RecordHandler[T, C, P]) Create(c echo.Context) error {
	var req C
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	rec, err := h.service.Create(c.Request().Context(), req.record())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec)
}

// Update handles PUT /api/{collection}/:id. Only fields present in the body
// are changed.
//
// @Summary      Update a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        collection  path      string  true  "Collection"  Enums(patients, therapies, notifications)
// @Param        id          path      string  true  "Record id"
// @Success      200         {object}  object
// @Failure      400         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /api/{collection}/{id} [put]
func (h *RecordHandler[T, C, P]) Update(c echo.Context) error {
	var req P
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	fields := req.fields()
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no updatable fields")
	}

	rec, err := h.service.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /api/{collection}/:id. A missing record is reported
// as {success:false}.
//
// @Summary      Delete a record
// @Tags         records
// @Produce      json
// @Param        collection  path      string  true  "Collection"  Enums(patients, therapies, notifications)
// @Param        id          path      string  true  "Record id"
// @Success      200         {object}  domain.Result
// @Failure      500         {object}  errorResponse
// @Router       /api/{collection}/{id} [delete]
func (h *RecordHandler[T, C, P]) Delete(c echo.Context) error {
	res, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
