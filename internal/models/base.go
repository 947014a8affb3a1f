package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base contains common columns for all tables
type Base struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt time.Time `gorm:"index;default:NULL" json:"-" validate:"omitempty"`
	IsDeleted bool      `json:"isDeleted" default:"false"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *Base) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// MailJobStatus is the lifecycle state of a scheduled notification.
// A job never leaves SENT or FAILED.
type MailJobStatus string

const (
	MailJobStatusPending MailJobStatus = "PENDING"
	MailJobStatusSent    MailJobStatus = "SENT"
	MailJobStatusFailed  MailJobStatus = "FAILED"
)

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleSegreteria UserRole = "SEGRETERIA"
	UserRoleAgente     UserRole = "AGENTE"
	UserRoleDocente    UserRole = "DOCENTE"
)

// IsValidUserRole checks if a given role is valid
func IsValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleSegreteria, UserRoleAgente, UserRoleDocente:
		return true
	default:
		return false
	}
}

// IsAdminRole reports whether a role bypasses all scoped permission checks.
func IsAdminRole(role UserRole) bool {
	return role == UserRoleAdmin
}
