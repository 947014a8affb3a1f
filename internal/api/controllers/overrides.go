package controllers

import (
	"errors"
	"net/http"

	"gestionale/internal/api/validator"
	"gestionale/internal/automation"
	"gestionale/internal/mailjobs"
	"gestionale/internal/models"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// OverrideController lets admins toggle automation actions and customize
// their templates. The actions themselves are config-as-code and only
// readable here.
type OverrideController struct {
	store *automation.OverrideStore
}

func NewOverrideController(store *automation.OverrideStore) *OverrideController {
	return &OverrideController{store: store}
}

// List handles GET /rule-overrides: every registered action merged with
// its persisted override, in evaluation order.
func (oc *OverrideController) List(c echo.Context) error {
	type actionView struct {
		Action   automation.Action    `json:"action"`
		Override *models.RuleOverride `json:"override,omitempty"`
	}

	views := make([]actionView, 0, len(automation.Actions()))
	for _, action := range automation.Actions() {
		override, err := oc.store.Get(c.Request().Context(), action.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		views = append(views, actionView{Action: action, Override: override})
	}
	return c.JSON(http.StatusOK, views)
}

// Update handles PUT /rule-overrides/:actionId
func (oc *OverrideController) Update(c echo.Context) error {
	actionID := c.Param("actionId")

	var req validator.RuleOverrideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	override := &models.RuleOverride{
		ActionID:        actionID,
		Enabled:         req.Enabled,
		SendMode:        req.SendMode,
		SubjectTemplate: req.SubjectTemplate,
		HTMLTemplate:    req.HTMLTemplate,
	}
	if err := oc.store.Upsert(c.Request().Context(), override); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "unknown action")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, override)
}

// JobController exposes the mail-job queue for admin inspection. Jobs are
// produced by the automation engine and consumed by the dispatcher; this
// surface is read-only.
type JobController struct {
	store *mailjobs.Store
}

func NewJobController(store *mailjobs.Store) *JobController {
	return &JobController{store: store}
}

// List handles GET /mail-jobs?status=PENDING
func (jc *JobController) List(c echo.Context) error {
	status := models.MailJobStatus(c.QueryParam("status"))
	jobs, err := jc.store.List(c.Request().Context(), status, 200)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, jobs)
}
