package controllers

import (
	"net/http"
	"strconv"
	"time"

	"gestionale/internal/api/middleware"
	"gestionale/internal/api/validator"
	"gestionale/internal/records"
	"gestionale/internal/registry"
	"gestionale/internal/utils"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// RecordController serves the dynamic record routes. The permission
// middleware has already vetted (domain, slug, action, id); what remains
// here is list filtering for own-only roles and the save path itself.
type RecordController struct {
	service *records.Service
}

func NewRecordController(service *records.Service) *RecordController {
	return &RecordController{service: service}
}

func recordScope(c echo.Context) (registry.Domain, string, error) {
	domain := registry.Domain(c.Param("domain"))
	slug := c.Param("slug")
	if _, ok := registry.GetResourceDef(domain, slug); !ok {
		return "", "", echo.NewHTTPError(http.StatusNotFound, "unknown resource type")
	}
	return domain, slug, nil
}

// parseTimestamp rejects a present-but-unreadable value: a typo'd date
// must not be silently accepted as "no date".
func parseTimestamp(name string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if when, ok := utils.ParseDateValue(*raw); ok {
		return &when, nil
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, name+" is not a valid timestamp")
}

// Create handles POST /records/:domain/:slug
func (rc *RecordController) Create(c echo.Context) error {
	domain, slug, err := recordScope(c)
	if err != nil {
		return err
	}

	var req validator.RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startAt, err := parseTimestamp("startAt", req.StartAt)
	if err != nil {
		return err
	}
	endAt, err := parseTimestamp("endAt", req.EndAt)
	if err != nil {
		return err
	}

	userID, _ := c.Get("userID").(string)
	entry, err := rc.service.Create(c.Request().Context(), domain, slug, req.Data, userID,
		startAt, endAt, req.Participants)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, entry)
}

// Get handles GET /records/:domain/:slug/:id
func (rc *RecordController) Get(c echo.Context) error {
	domain, slug, err := recordScope(c)
	if err != nil {
		return err
	}

	entry, err := rc.service.Get(c.Request().Context(), domain, slug, c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	return c.JSON(http.StatusOK, entry)
}

// List handles GET /records/:domain/:slug. Own-only roles see only the
// records their key scopes grant.
func (rc *RecordController) List(c echo.Context) error {
	domain, slug, err := recordScope(c)
	if err != nil {
		return err
	}

	auth := middleware.GetAuthContext(c)
	var onlyIDs []string
	if !auth.IsAdmin {
		rule, ok := registry.GetPermissionRule(domain, slug, registry.ActionView)
		if !ok {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
		if !rule.HasRole(auth.Role) && rule.HasOwnOnlyRole(auth.Role) {
			onlyIDs = auth.KeyScopes.IDs(domain, slug)
			if onlyIDs == nil {
				onlyIDs = []string{}
			}
		}
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	entries, total, err := rc.service.List(c.Request().Context(), domain, slug, onlyIDs, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  entries,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles PUT /records/:domain/:slug/:id
func (rc *RecordController) Update(c echo.Context) error {
	domain, slug, err := recordScope(c)
	if err != nil {
		return err
	}

	var req validator.RecordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	startAt, err := parseTimestamp("startAt", req.StartAt)
	if err != nil {
		return err
	}
	endAt, err := parseTimestamp("endAt", req.EndAt)
	if err != nil {
		return err
	}

	userID, _ := c.Get("userID").(string)
	entry, err := rc.service.Update(c.Request().Context(), domain, slug, c.Param("id"), req.Data, userID,
		startAt, endAt)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, entry)
}

// Delete handles DELETE /records/:domain/:slug/:id
func (rc *RecordController) Delete(c echo.Context) error {
	domain, slug, err := recordScope(c)
	if err != nil {
		return err
	}

	if err := rc.service.Delete(c.Request().Context(), domain, slug, c.Param("id")); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
