package models

import (
	"time"

	"gorm.io/datatypes"
)

// RecordEntry is a dynamic business record: anagrafiche, aule and eventi
// all persist as (domain, type slug, jsonb data) rows. The field catalog
// for each type slug lives in the registry, not in the schema.
type RecordEntry struct {
	Base
	ScopeKind    string         `gorm:"not null;index:idx_record_scope" json:"scopeKind" validate:"required,scope_kind"`
	TypeSlug     string         `gorm:"not null;index:idx_record_scope" json:"typeSlug" validate:"required"`
	Data         datatypes.JSON `gorm:"type:jsonb" json:"data"`
	StartAt      *time.Time     `json:"startAt,omitempty"`
	EndAt        *time.Time     `json:"endAt,omitempty"`
	Participants datatypes.JSON `gorm:"type:jsonb" json:"participants,omitempty"`
	CreatedBy    string         `gorm:"type:uuid" json:"createdBy,omitempty"`
}

// ResourceKey is an explicit per-user, per-record access grant layered on
// top of role permissions. Created and deleted only by admin action.
type ResourceKey struct {
	Base
	UserID     string `gorm:"type:uuid;not null;uniqueIndex:idx_resource_key_tuple" json:"userId" validate:"required,uuid"`
	User       *User  `json:"user,omitempty"`
	ScopeKind  string `gorm:"not null;uniqueIndex:idx_resource_key_tuple" json:"scopeKind" validate:"required,scope_kind"`
	ScopeSlug  string `gorm:"not null;uniqueIndex:idx_resource_key_tuple" json:"scopeSlug" validate:"required"`
	ResourceID string `gorm:"type:uuid;not null;uniqueIndex:idx_resource_key_tuple" json:"resourceId" validate:"required,uuid"`
}

// MailJob is a scheduled notification produced by the automation engine.
// The engine only ever creates PENDING jobs; the dispatcher moves them to
// SENT or FAILED.
type MailJob struct {
	Base
	Status      MailJobStatus `gorm:"not null;default:'PENDING';index" json:"status" validate:"omitempty,job_status"`
	ScopeKind   string        `gorm:"not null" json:"scopeKind"`
	ActionID    string        `gorm:"not null;index" json:"actionId"`
	TargetSlug  string        `gorm:"not null" json:"targetSlug"`
	TargetID    string        `gorm:"type:uuid;not null;index" json:"targetId"`
	ScheduledAt time.Time     `gorm:"not null;index" json:"scheduledAt"`
	From        string        `gorm:"not null" json:"from"`
	To          string        `gorm:"not null" json:"to"`
	Subject     string        `gorm:"not null" json:"subject"`
	HTML        string        `gorm:"type:text" json:"html"`
	ReplyTo     string        `json:"replyTo,omitempty"`
	Error       string        `json:"error,omitempty"`
	SentAt      *time.Time    `json:"sentAt,omitempty"`
	ArchiveKey  string        `json:"archiveKey,omitempty"`
}

// RuleOverride is the persisted, admin-editable side of an automation
// action: the action itself is config-as-code, the override turns it on or
// off and customizes its templates.
type RuleOverride struct {
	Base
	ActionID        string `gorm:"not null;uniqueIndex" json:"actionId" validate:"required"`
	Enabled         bool   `gorm:"not null;default:true" json:"enabled"`
	SendMode        string `gorm:"not null;default:'referente'" json:"sendMode" validate:"omitempty,send_mode"`
	SubjectTemplate string `json:"subjectTemplate"`
	HTMLTemplate    string `gorm:"type:text" json:"htmlTemplate"`
}
