package controllers

import (
	"errors"
	"net/http"

	"gestionale/internal/api/middleware"
	"gestionale/internal/api/validator"
	"gestionale/internal/keys"
	"gestionale/internal/registry"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// KeyController is the admin surface for explicit per-record grants.
// Conflicts and missing targets map to distinct status codes so the
// client can tell "already linked" from "no such record".
type KeyController struct {
	store *keys.Store
}

func NewKeyController(store *keys.Store) *KeyController {
	return &KeyController{store: store}
}

// Create handles POST /resource-keys
func (kc *KeyController) Create(c echo.Context) error {
	var req validator.ResourceKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	key, err := kc.store.Create(c.Request().Context(), req.UserID,
		registry.Domain(req.ScopeKind), req.ScopeSlug, req.ResourceID)
	if err != nil {
		switch {
		case errors.Is(err, keys.ErrDuplicate):
			return echo.NewHTTPError(http.StatusConflict, "resource key already exists")
		case errors.Is(err, keys.ErrTargetNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "target record not found")
		case errors.Is(err, keys.ErrUnknownScope):
			return echo.NewHTTPError(http.StatusBadRequest, "unknown scope")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, key)
}

// Delete handles DELETE /resource-keys/:id
func (kc *KeyController) Delete(c echo.Context) error {
	if err := kc.store.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "resource key not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /resource-keys?userId=... — admins may inspect any
// user, everyone else only themselves.
func (kc *KeyController) List(c echo.Context) error {
	auth := middleware.GetAuthContext(c)
	userID := c.QueryParam("userId")
	if userID == "" {
		userID = auth.UserID
	}
	if !auth.IsAdmin && userID != auth.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	keysList, err := kc.store.List(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, keysList)
}
