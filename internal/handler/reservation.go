package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// ReservationHandler exposes the table reservation flows: create a
// pending booking, confirm it after payment, cancel, reschedule and
// fetch.  Everything except creation requires an access id (member id
// or guest token) that resolves to the booking's customer email.
type ReservationHandler struct {
	Svc      *service.ReservationService
	Identity *service.IdentityResolver
}

func NewReservationHandler(svc *service.ReservationService, identity *service.IdentityResolver) *ReservationHandler {
	return &ReservationHandler{Svc: svc, Identity: identity}
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.ReservationInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, service.E(service.KindValidation, "malformed request body"))
	}
	res, err := h.Svc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Confirm handles PUT /v1/reservations/:id/confirm.  The client calls
// it after the payment page reports completion; the server verifies
// settlement with the gateway before confirming anything.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	email, err := resolveEmail(c, h.Identity)
	if err != nil {
		return writeError(c, err)
	}
	id := c.Param("id")
	if _, err := h.Svc.Get(c.Request().Context(), id, email); err != nil {
		return writeError(c, err)
	}
	res, err := h.Svc.Confirm(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// Cancel handles PUT /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	email, err := resolveEmail(c, h.Identity)
	if err != nil {
		return writeError(c, err)
	}
	id := c.Param("id")
	if _, err := h.Svc.Get(c.Request().Context(), id, email); err != nil {
		return writeError(c, err)
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.Bind(&body) // reason is optional
	if err := h.Svc.Cancel(c.Request().Context(), id, body.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}

// Reschedule handles PUT /v1/reservations/:id/schedule.  The new slot
// goes through the same conflict check as a fresh booking.
func (h *ReservationHandler) Reschedule(c echo.Context) error {
	email, err := resolveEmail(c, h.Identity)
	if err != nil {
		return writeError(c, err)
	}
	id := c.Param("id")
	if _, err := h.Svc.Get(c.Request().Context(), id, email); err != nil {
		return writeError(c, err)
	}
	var body struct {
		ReservationAt time.Time `json:"reservation_at"`
	}
	if err := c.Bind(&body); err != nil || body.ReservationAt.IsZero() {
		return writeError(c, service.E(service.KindValidation, "reservation_at is required"))
	}
	if err := h.Svc.Reschedule(c.Request().Context(), id, body.ReservationAt); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "rescheduled"})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	email, err := resolveEmail(c, h.Identity)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.Svc.Get(c.Request().Context(), c.Param("id"), email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}
