package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// statusFor maps a service error kind to an HTTP status code.  Conflict
// and not-settled both answer 409: the request is well-formed but the
// current state of the booking refuses it.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindInvalidAccess:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict, service.KindNotSettled:
		return http.StatusConflict
	case service.KindGatewayUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a service error as a JSON body.  Only the service
// message is exposed; wrapped driver errors stay in the logs.
func writeError(c echo.Context, err error) error {
	kind := service.KindOf(err)
	msg := "internal error"
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Message
	}
	return c.JSON(statusFor(kind), echo.Map{
		"error":   string(kind),
		"message": msg,
	})
}

// resolveEmail turns the request's classified credential into a
// customer email, or fails with invalid access when the request carried
// no usable access id.
func resolveEmail(c echo.Context, r *service.IdentityResolver) (string, error) {
	cred, ok := middleware.CredentialFrom(c)
	if !ok {
		return "", service.E(service.KindInvalidAccess, "access id required")
	}
	return r.Resolve(c.Request().Context(), cred)
}
