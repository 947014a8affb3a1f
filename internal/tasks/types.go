package tasks

import "time"

// Task Types
const (
	TaskTypeMailDispatch = "mail:dispatch"
	TaskTypeMailSweep    = "mail:sweep"
)

// Task Queues
const (
	QueueCritical = "critical" // mail dispatch
	QueueDefault  = "default"  // sweeps and maintenance
	QueueLow      = "low"      // background cleanup
)

// Task Timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
)

// Task Retry Settings
const (
	RetryDefault = 3
)

// DispatchPayload is the payload of a mail:dispatch task: just the job
// id, everything else lives in the mail_jobs table.
type DispatchPayload struct {
	JobID string `json:"jobId"`
}
