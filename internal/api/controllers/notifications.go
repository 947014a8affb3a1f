package controllers

import (
	"net/http"
	"time"

	"gestionale/internal/api/middleware"
	"gestionale/internal/models"
	"gestionale/internal/records"
	"gestionale/internal/registry"
	"gestionale/internal/utils"
	"gestionale/internal/visibility"

	"github.com/labstack/echo/v4"
)

// NotificationController builds the "what should I see right now" feed:
// every evento record whose configured visibility window contains now,
// split into upcoming and past, filtered by the caller's permissions.
type NotificationController struct {
	service *records.Service
}

func NewNotificationController(service *records.Service) *NotificationController {
	return &NotificationController{service: service}
}

type notificationItem struct {
	Record *models.RecordEntry `json:"record"`
	Slug   string              `json:"slug"`
	State  visibility.State    `json:"state"`
	Title  string              `json:"title"`
}

// List handles GET /notifications
func (nc *NotificationController) List(c echo.Context) error {
	auth := middleware.GetAuthContext(c)
	now := time.Now()

	var upcoming, past []notificationItem

	for _, slug := range registry.SlugsForDomain(registry.DomainEvento) {
		pref, ok := visibility.PreferenceForSlug(slug)
		if !ok {
			continue
		}

		rule, ok := registry.GetPermissionRule(registry.DomainEvento, slug, registry.ActionView)
		if !ok {
			continue
		}
		var onlyIDs []string
		if !auth.IsAdmin {
			if rule.HasRole(auth.Role) {
				// unscoped
			} else if rule.HasOwnOnlyRole(auth.Role) {
				onlyIDs = auth.KeyScopes.IDs(registry.DomainEvento, slug)
				if onlyIDs == nil {
					onlyIDs = []string{}
				}
			} else {
				continue
			}
		}

		entries, _, err := nc.service.List(c.Request().Context(), registry.DomainEvento, slug, onlyIDs, 0, 0)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		def, _ := registry.GetResourceDef(registry.DomainEvento, slug)
		for i := range entries {
			entry := &entries[i]
			data, err := utils.JSONToFieldMap(entry.Data)
			if err != nil {
				continue
			}

			result := visibility.IsVisibleByPreferencesNow(visibility.Record{
				StartAt: entry.StartAt,
				EndAt:   entry.EndAt,
				Data:    data,
			}, pref, now)
			if !result.Visible {
				continue
			}

			item := notificationItem{
				Record: entry,
				Slug:   slug,
				State:  result.State,
				Title:  utils.NormalizeValue(data[def.Preview.Title]),
			}
			if result.State == visibility.StatePast {
				past = append(past, item)
			} else {
				upcoming = append(upcoming, item)
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"upcoming": upcoming,
		"past":     past,
	})
}
