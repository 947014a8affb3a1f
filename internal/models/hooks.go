package models

import (
	"gestionale/internal/events"

	"gorm.io/gorm"
)

func (j *MailJob) AfterCreate(tx *gorm.DB) error {
	log.Info("Mail job enqueued action=%s target=%s/%s scheduledAt=%s", j.ActionID, j.TargetSlug, j.TargetID, j.ScheduledAt)
	events.Emit("mailjob.created", j)
	return nil
}

func (k *ResourceKey) AfterCreate(tx *gorm.DB) error {
	events.Emit("resourcekey.created", k)
	return nil
}

func (k *ResourceKey) AfterDelete(tx *gorm.DB) error {
	events.Emit("resourcekey.deleted", k)
	return nil
}
