package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// OnlineOrderHandler exposes the delivery order flows.  Creation and
// confirmation mirror reservations; Advance is the fulfilment surface
// that walks an order through processing, shipping and delivered.
type OnlineOrderHandler struct {
	Svc      *service.OrderService
	Identity *service.IdentityResolver
}

func NewOnlineOrderHandler(svc *service.OrderService, identity *service.IdentityResolver) *OnlineOrderHandler {
	return &OnlineOrderHandler{Svc: svc, Identity: identity}
}

// Create handles POST /v1/orders.
func (h *OnlineOrderHandler) Create(c echo.Context) error {
	var in service.OrderInput
	if err := c.Bind(&in); err != nil {
		return writeError(c, service.E(service.KindValidation, "malformed request body"))
	}
	res, err := h.Svc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Confirm handles PUT /v1/orders/:id/confirm.
func (h *OnlineOrderHandler) Confirm(c echo.Context) error {
	email, err := resolveEmail(c, h.Identity)
	if err != nil {
		return writeError(c, err)
	}
	id := c.Param("id")
	if _, err := h.Svc.Get(c.Request().Context(), id, email); err != nil {
		return writeError(c, err)
	}
	o, err := h.Svc.Confirm(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o})
}

// Advance handles PUT /v1/orders/:id/status.  This is the kitchen and
// courier surface; it sits behind the ops proxy rather than customer
// access ids, so no credential is required here.
func (h *OnlineOrderHandler) Advance(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil || body.Status == "" {
		return writeError(c, service.E(service.KindValidation, "status is required"))
	}
	o, err := h.Svc.Advance(c.Request().Context(), c.Param("id"), model.OrderStatus(body.Status), body.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o})
}

// Get handles GET /v1/orders/:id.
func (h *OnlineOrderHandler) Get(c echo.Context) error {
	email, err := resolveEmail(c, h.Identity)
	if err != nil {
		return writeError(c, err)
	}
	o, err := h.Svc.Get(c.Request().Context(), c.Param("id"), email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": o})
}
