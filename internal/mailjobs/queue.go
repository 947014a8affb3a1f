package mailjobs

// The mail-job queue is the boundary between the automation engine and
// the dispatcher: the engine persists PENDING jobs here, a dispatch task
// is scheduled for the job's due time, and a separate worker performs the
// send. Nothing in this package talks SMTP.

import (
	"context"
	"errors"
	"time"

	"gestionale/internal/models"
	console "gestionale/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("MAILJOBS")

// ErrNotPending is returned when a transition is attempted on a job that
// already left PENDING. SENT and FAILED are terminal.
var ErrNotPending = errors.New("mail job is not pending")

// Scheduler hands the job id to the task queue for processing at its due
// time. Implemented by the asynq task client.
type Scheduler interface {
	ScheduleDispatch(ctx context.Context, jobID string, at time.Time) error
}

type Store struct {
	db        *gorm.DB
	scheduler Scheduler
}

func NewStore(db *gorm.DB, scheduler Scheduler) *Store {
	return &Store{db: db, scheduler: scheduler}
}

// Enqueue persists a PENDING job and schedules its dispatch. A scheduling
// failure is logged, not returned: the periodic sweep will pick the job
// up from the table.
func (s *Store) Enqueue(ctx context.Context, job *models.MailJob) error {
	job.Status = models.MailJobStatusPending
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return err
	}

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleDispatch(ctx, job.ID, job.ScheduledAt); err != nil {
			log.Warn("failed to schedule dispatch for job %s, sweep will retry: %v", job.ID, err)
		}
	}
	return nil
}

// Get loads one job.
func (s *Store) Get(ctx context.Context, id string) (*models.MailJob, error) {
	var job models.MailJob
	if err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns jobs filtered by status, newest first.
func (s *Store) List(ctx context.Context, status models.MailJobStatus, limit int) ([]models.MailJob, error) {
	var jobs []models.MailJob
	query := s.db.WithContext(ctx).Where("is_deleted = ?", false).Order("scheduled_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListDue returns PENDING jobs whose scheduled time has passed. The sweep
// uses this to recover jobs whose dispatch task was lost.
func (s *Store) ListDue(ctx context.Context, now time.Time) ([]models.MailJob, error) {
	var jobs []models.MailJob
	err := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ? AND is_deleted = ?", models.MailJobStatusPending, now, false).
		Order("scheduled_at ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// MarkSent transitions PENDING -> SENT.
func (s *Store) MarkSent(ctx context.Context, id string, sentAt time.Time, archiveKey string) error {
	return s.transition(ctx, id, map[string]interface{}{
		"status":      models.MailJobStatusSent,
		"sent_at":     sentAt,
		"archive_key": archiveKey,
	})
}

// MarkFailed transitions PENDING -> FAILED.
func (s *Store) MarkFailed(ctx context.Context, id string, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	return s.transition(ctx, id, map[string]interface{}{
		"status": models.MailJobStatusFailed,
		"error":  message,
	})
}

func (s *Store) transition(ctx context.Context, id string, updates map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(&models.MailJob{}).
		Where("id = ? AND status = ?", id, models.MailJobStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}
