package tasks

import (
	"context"
	"encoding/json"
	"time"

	"gestionale/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient is the enqueue side of the queue. It implements
// mailjobs.Scheduler so the job store can schedule dispatches without
// importing this package.
type TaskClient struct {
	client      *asynq.Client
	logger      *logger.Logger
	redisClient *redis.Client
	sweepCron   string
}

func NewTaskClient(redisAddr, username, password string, db int, sweepCron string) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	})

	return &TaskClient{
		client:      asynq.NewClient(redisOpt),
		redisClient: redisClient,
		sweepCron:   sweepCron,
		logger:      logger.New("TASKS"),
	}
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

// Ping verifies the queue backend is reachable.
func (c *TaskClient) Ping(ctx context.Context) error {
	return c.redisClient.Ping(ctx).Err()
}

// ScheduleDispatch enqueues a mail:dispatch task for one job at its due
// time. Jobs with a zero due time ride the next sweep boundary.
func (c *TaskClient) ScheduleDispatch(ctx context.Context, jobID string, at time.Time) error {
	payload, err := json.Marshal(DispatchPayload{JobID: jobID})
	if err != nil {
		return err
	}

	if at.IsZero() {
		at = NextCronOccurrence(c.sweepCron, time.Now())
	}
	opts := []asynq.Option{
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutShort),
		asynq.ProcessAt(at),
	}

	task := asynq.NewTask(TaskTypeMailDispatch, payload)
	info, err := c.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return err
	}

	c.logger.Info("scheduled dispatch for job %s at %s (task %s)", jobID, info.NextProcessAt, info.ID)
	return nil
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	if err := c.client.Close(); err != nil {
		return err
	}
	return c.redisClient.Close()
}
