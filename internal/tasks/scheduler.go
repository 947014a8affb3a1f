package tasks

import (
	"fmt"

	"gestionale/internal/utils/logger"

	"github.com/hibiken/asynq"
)

// Scheduler registers the periodic sweep that re-enqueues due PENDING
// mail jobs.
type Scheduler struct {
	scheduler *asynq.Scheduler
	sweepCron string
	logger    *logger.Logger
}

// NewScheduler creates a new task scheduler
func NewScheduler(redisAddr, username, password string, db int, sweepCron string, logger *logger.Logger) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		&asynq.SchedulerOpts{},
	)

	return &Scheduler{
		scheduler: scheduler,
		sweepCron: sweepCron,
		logger:    logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	s.logger.Info("starting task scheduler")
	return s.scheduler.Run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

func (s *Scheduler) registerTasks() error {
	sweep := asynq.NewTask(TaskTypeMailSweep, nil, asynq.Queue(QueueDefault), asynq.Timeout(TimeoutMedium))
	entryID, err := s.scheduler.Register(s.sweepCron, sweep)
	if err != nil {
		return fmt.Errorf("failed to register mail sweep: %w", err)
	}

	s.logger.Info("registered mail sweep %s (%s)", entryID, s.sweepCron)
	return nil
}
