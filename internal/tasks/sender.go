package tasks

import (
	"context"

	"gestionale/internal/models"
	"gestionale/internal/utils/logger"
)

// Sender is the mail-delivery boundary. The actual SMTP transport lives
// outside this system; the dispatcher only cares about success/failure.
type Sender interface {
	Send(ctx context.Context, job *models.MailJob) error
}

// LogSender is the default Sender: it logs the envelope instead of
// delivering. Deployments plug a real transport in its place.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{logger: logger.New("MAIL-SENDER")}
}

func (s *LogSender) Send(ctx context.Context, job *models.MailJob) error {
	s.logger.Info("would deliver job %s to=%s subject=%q", job.ID, job.To, job.Subject)
	return nil
}
