package middleware

import (
	"net/http"

	"gestionale/internal/access"
	"gestionale/internal/registry"

	"github.com/labstack/echo/v4"
)

// ActionForMethod maps an HTTP method onto the registry CRUD action.
func ActionForMethod(method string) (registry.Action, bool) {
	switch method {
	case http.MethodGet:
		return registry.ActionView, true
	case http.MethodPost:
		return registry.ActionCreate, true
	case http.MethodPut, http.MethodPatch:
		return registry.ActionUpdate, true
	case http.MethodDelete:
		return registry.ActionDelete, true
	default:
		return "", false
	}
}

// RequireRecordPermission guards the dynamic record routes. Domain, type
// slug and optional record id come from the path; the action from the
// method. Denials are a generic forbidden: no detail about why.
func RequireRecordPermission() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := GetAuthContext(c)

			action, ok := ActionForMethod(c.Request().Method)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}

			domain := c.Param("domain")
			permissionKey := domain + "." + string(action)
			opts := &access.CheckOptions{
				ResourceType: c.Param("slug"),
				ResourceID:   c.Param("id"),
			}

			if !access.HasPermission(auth, permissionKey, opts) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// RequireAdmin guards admin-only surfaces: resource keys, rule overrides,
// mail-job inspection.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !GetAuthContext(c).IsAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
