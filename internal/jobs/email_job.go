package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yonatan12121/TMS/internal/platform/logger"
	"github.com/yonatan12121/TMS/internal/platform/mail"
)

// TypeSendEmail is the job type of EmailJob.
const TypeSendEmail = "send_email"

// EmailJob delivers one mail.Message.
type EmailJob struct {
	id      uuid.UUID
	msg     mail.Message
	payload []byte
	sender  mail.Sender
}

// NewEmailJob creates a job that sends msg through sender.
func NewEmailJob(sender mail.Sender, msg mail.Message) (*EmailJob, error) {
	return newEmailJob(uuid.New(), sender, msg)
}

func newEmailJob(id uuid.UUID, sender mail.Sender, msg mail.Message) (*EmailJob, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode email payload: %w", err)
	}
	return &EmailJob{id: id, msg: msg, payload: payload, sender: sender}, nil
}

// ID implements Job.
func (j *EmailJob) ID() uuid.UUID { return j.id }

// Type implements Job.
func (j *EmailJob) Type() string { return TypeSendEmail }

// Payload implements Job.
func (j *EmailJob) Payload() []byte { return j.payload }

// Execute implements Job.
func (j *EmailJob) Execute(ctx context.Context) error {
	return j.sender.Send(ctx, j.msg)
}

// EmailJobFactory rebuilds persisted email jobs.
func EmailJobFactory(sender mail.Sender) Factory {
	return func(rec Record) (Job, error) {
		var msg mail.Message
		if err := json.Unmarshal(rec.Payload, &msg); err != nil {
			return nil, fmt.Errorf("failed to decode email payload: %w", err)
		}
		return newEmailJob(rec.ID, sender, msg)
	}
}

// Submitter accepts jobs for background execution. *Runner satisfies it.
type Submitter interface {
	Submit(ctx context.Context, job Job) error
}

// EmailDispatcher queues outgoing email as background jobs so request
// handlers never wait on SMTP.
type EmailDispatcher struct {
	submitter Submitter
	sender    mail.Sender
	logger    *slog.Logger
}

// NewEmailDispatcher creates an EmailDispatcher.
func NewEmailDispatcher(submitter Submitter, sender mail.Sender, logger *slog.Logger) *EmailDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmailDispatcher{
		submitter: submitter,
		sender:    sender,
		logger:    logger.With(slog.String("component", "email_dispatcher")),
	}
}

// Enqueue submits msg for delivery.
func (d *EmailDispatcher) Enqueue(ctx context.Context, msg mail.Message) error {
	job, err := NewEmailJob(d.sender, msg)
	if err != nil {
		return err
	}
	if err := d.submitter.Submit(ctx, job); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, d.logger).Debug("email queued",
		slog.String("job_id", job.ID().String()),
		slog.String("subject", msg.Subject))
	return nil
}
