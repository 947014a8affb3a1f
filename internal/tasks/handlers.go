package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gestionale/internal/mailjobs"
	"gestionale/internal/models"
	"gestionale/internal/utils/logger"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// Archiver stores the rendered HTML of a sent job somewhere durable and
// returns the storage key. Optional.
type Archiver interface {
	ArchiveSentMail(ctx context.Context, job *models.MailJob) (string, error)
}

// TaskHandler processes queue tasks: dispatching due mail jobs and
// sweeping the table for jobs whose dispatch task was lost.
type TaskHandler struct {
	store    *mailjobs.Store
	client   *TaskClient
	sender   Sender
	archiver Archiver
	logger   *logger.Logger
}

func NewTaskHandler(store *mailjobs.Store, client *TaskClient, sender Sender, archiver Archiver) *TaskHandler {
	if sender == nil {
		sender = NewLogSender()
	}
	return &TaskHandler{
		store:    store,
		client:   client,
		sender:   sender,
		archiver: archiver,
		logger:   logger.New("task_handler"),
	}
}

// HandleMailDispatch delivers one PENDING job and moves it to SENT or
// FAILED. Jobs that already left PENDING are acknowledged silently: the
// sweep and the original schedule can race onto the same job.
func (h *TaskHandler) HandleMailDispatch(ctx context.Context, task *asynq.Task) error {
	var payload DispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return h.logger.Error("unreadable dispatch payload", err)
	}

	job, err := h.store.Get(ctx, payload.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Warn("dispatch task for missing job %s, dropping", payload.JobID)
			return nil
		}
		return err
	}
	if job.Status != models.MailJobStatusPending {
		return nil
	}

	if err := h.sender.Send(ctx, job); err != nil {
		if markErr := h.store.MarkFailed(ctx, job.ID, err); markErr != nil && !errors.Is(markErr, mailjobs.ErrNotPending) {
			return markErr
		}
		h.logger.Warn("job %s failed to send: %v", job.ID, err)
		return nil
	}

	archiveKey := ""
	if h.archiver != nil {
		key, err := h.archiver.ArchiveSentMail(ctx, job)
		if err != nil {
			h.logger.Warn("failed to archive job %s: %v", job.ID, err)
		} else {
			archiveKey = key
		}
	}

	if err := h.store.MarkSent(ctx, job.ID, time.Now(), archiveKey); err != nil {
		if errors.Is(err, mailjobs.ErrNotPending) {
			return nil
		}
		return err
	}

	h.logger.Success("job %s sent to %s", job.ID, job.To)
	return nil
}

// HandleMailSweep re-schedules every due PENDING job. Recovers jobs whose
// dispatch task never made it into the queue (crash between the table
// write and the enqueue).
func (h *TaskHandler) HandleMailSweep(ctx context.Context, task *asynq.Task) error {
	due, err := h.store.ListDue(ctx, time.Now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	h.logger.Info("sweep found %d due pending jobs", len(due))
	for _, job := range due {
		if err := h.client.ScheduleDispatch(ctx, job.ID, time.Now()); err != nil {
			h.logger.Warn("sweep failed to reschedule job %s: %v", job.ID, err)
		}
	}
	return nil
}
