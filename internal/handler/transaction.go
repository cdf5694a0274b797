package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// TransactionHandler exposes payment transaction lookup.  The caller
// must prove access to the booking the transaction belongs to, so the
// handler resolves the owning aggregate before answering.
type TransactionHandler struct {
	Reservations *service.ReservationService
	Orders       *service.OrderService
	Tx           *service.Orchestrator
	Identity     *service.IdentityResolver
}

func NewTransactionHandler(res *service.ReservationService, ord *service.OrderService, tx *service.Orchestrator, identity *service.IdentityResolver) *TransactionHandler {
	return &TransactionHandler{Reservations: res, Orders: ord, Tx: tx, Identity: identity}
}

// Get handles GET /v1/transactions?order_id=.
func (h *TransactionHandler) Get(c echo.Context) error {
	orderID := c.QueryParam("order_id")
	if orderID == "" {
		return writeError(c, service.E(service.KindValidation, "order_id is required"))
	}
	email, err := resolveEmail(c, h.Identity)
	if err != nil {
		return writeError(c, err)
	}

	ctx := c.Request().Context()
	tx, err := h.Tx.Get(ctx, orderID)
	if err != nil {
		return writeError(c, err)
	}

	// Ownership check against the aggregate the transaction paid for.
	switch tx.OrderType {
	case model.OrderTypeReservation:
		_, err = h.Reservations.Get(ctx, orderID, email)
	case model.OrderTypeOnlineOrder:
		_, err = h.Orders.Get(ctx, orderID, email)
	default:
		err = service.E(service.KindNotFound, "transaction not found")
	}
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"transaction": tx})
}
