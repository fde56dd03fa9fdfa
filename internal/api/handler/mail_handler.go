package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
)

// MailHandler serves the send-email action.
type MailHandler struct {
	service ports.MailService
}

func NewMailHandler(service ports.MailService) *MailHandler {
	return &MailHandler{service: service}
}

// Send handles POST /api/send-email. Invalid bodies are answered with
// {success:false} like every other action failure.
//
// @Summary      Queue an e-mail to a patient
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest   true  "E-mail"
// @Success      200   {object}  domain.Result
// @Failure      400   {object}  errorResponse
// @Router       /api/send-email [post]
func (h *MailHandler) Send(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusOK, domain.Result{Error: ve.Error()})
		}
		return err
	}

	res := h.service.Send(c.Request().Context(), domain.Email{
		To:      req.To,
		Subject: req.Subject,
		Message: req.Message,
	})
	return c.JSON(http.StatusOK, res)
}
