package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// ContextCredential is the context key under which the classified access
// credential is stored for downstream handlers.
const ContextCredential = "credential"

// ContextAccessID holds the raw access id string, used by the rate
// limiter for per-caller keying.
const ContextAccessID = "access_id"

// ExtractCredential reads the caller's access id from the access_id
// query parameter or the X-Access-Id header (query wins) and classifies
// it.  Handlers that require identity check for the stored credential;
// requests without one pass through untouched so public endpoints keep
// working behind the same middleware chain.
func ExtractCredential() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accessID := strings.TrimSpace(c.QueryParam("access_id"))
			if accessID == "" {
				accessID = strings.TrimSpace(c.Request().Header.Get("X-Access-Id"))
			}
			if accessID != "" {
				c.Set(ContextAccessID, accessID)
				c.Set(ContextCredential, service.ClassifyAccessID(accessID))
			}
			return next(c)
		}
	}
}

// CredentialFrom returns the classified credential stored by
// ExtractCredential, or false when the request carried no access id.
func CredentialFrom(c echo.Context) (service.Credential, bool) {
	v := c.Get(ContextCredential)
	if v == nil {
		return service.Credential{}, false
	}
	cred, ok := v.(service.Credential)
	return cred, ok
}
