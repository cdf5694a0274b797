package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// MenuHandler serves the public menu listing used by checkout pages.
type MenuHandler struct {
	Menu service.MenuStore
}

func NewMenuHandler(menu service.MenuStore) *MenuHandler {
	return &MenuHandler{Menu: menu}
}

// List returns all currently available menu items.
func (h *MenuHandler) List(c echo.Context) error {
	items, err := h.Menu.ListAvailable(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"menu": items})
}
