package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	for tag, fn := range map[string]playgroundvalidator.Func{
		"user_role":    validateUserRole,
		"scope_kind":   validateScopeKind,
		"send_mode":    validateSendMode,
		"job_status":   validateJobStatus,
		"trigger_kind": validateTriggerKind,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil
		}
	}

	return &CustomValidator{validator: v}
}

// Custom validation functions
func validateUserRole(fl playgroundvalidator.FieldLevel) bool {
	role := fl.Field().String()
	return role == "ADMIN" || role == "SEGRETERIA" || role == "AGENTE" || role == "DOCENTE"
}

func validateScopeKind(fl playgroundvalidator.FieldLevel) bool {
	kind := fl.Field().String()
	return kind == "anagrafica" || kind == "aula" || kind == "evento"
}

func validateSendMode(fl playgroundvalidator.FieldLevel) bool {
	mode := fl.Field().String()
	return mode == "referente" || mode == "partecipanti"
}

func validateJobStatus(fl playgroundvalidator.FieldLevel) bool {
	status := fl.Field().String()
	return status == "PENDING" || status == "SENT" || status == "FAILED"
}

func validateTriggerKind(fl playgroundvalidator.FieldLevel) bool {
	trigger := fl.Field().String()
	return trigger == "ON_CHANGE" || trigger == "ON_FIRST_SET"
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// LoginRequest validates the credential login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ResourceKeyRequest validates explicit grant creation.
type ResourceKeyRequest struct {
	UserID     string `json:"userId" validate:"required,uuid"`
	ScopeKind  string `json:"scopeKind" validate:"required,scope_kind"`
	ScopeSlug  string `json:"scopeSlug" validate:"required"`
	ResourceID string `json:"resourceId" validate:"required,uuid"`
}

// RuleOverrideRequest validates admin edits to an automation action.
type RuleOverrideRequest struct {
	Enabled         bool   `json:"enabled"`
	SendMode        string `json:"sendMode" validate:"omitempty,send_mode"`
	SubjectTemplate string `json:"subjectTemplate"`
	HTMLTemplate    string `json:"htmlTemplate"`
}

// RecordRequest validates a dynamic record write. Field values are
// validated against the registry catalog downstream.
type RecordRequest struct {
	Data         map[string]interface{} `json:"data" validate:"required"`
	StartAt      *string                `json:"startAt"`
	EndAt        *string                `json:"endAt"`
	Participants []string               `json:"participants" validate:"omitempty,dive,uuid"`
}
